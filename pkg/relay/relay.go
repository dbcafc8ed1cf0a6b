// ABOUTME: Block transfer interfaces shared by files and devices
// ABOUTME: Puller produces frames, Pusher consumes them
package relay

import "github.com/sndrelay/sndrelay-go/pkg/audio"

// Puller produces up to frames interleaved frames into buf and returns the count.
// Fewer frames than requested means the stream is ending; 0 means it has ended.
type Puller[S audio.Sample] interface {
	Pull(buf []S, frames int) (int, error)
}

// Pusher consumes frames interleaved frames from buf and returns the count accepted
type Pusher[S audio.Sample] interface {
	Push(buf []S, frames int) (int, error)
}

// PullFunc adapts a function to Puller
type PullFunc[S audio.Sample] func(buf []S, frames int) (int, error)

// Pull calls f
func (f PullFunc[S]) Pull(buf []S, frames int) (int, error) {
	return f(buf, frames)
}

// PushFunc adapts a function to Pusher
type PushFunc[S audio.Sample] func(buf []S, frames int) (int, error)

// Push calls f
func (f PushFunc[S]) Push(buf []S, frames int) (int, error) {
	return f(buf, frames)
}

// Status is returned by device callback adapters
type Status int32

const (
	// Continue asks the device to keep calling back
	Continue Status = iota
	// Complete asks the device to stop after the current buffer
	Complete
	// Abort asks the device to stop immediately
	Abort
)

func (s Status) String() string {
	switch s {
	case Continue:
		return "continue"
	case Complete:
		return "complete"
	case Abort:
		return "abort"
	default:
		return "unknown"
	}
}

// Callback is the shape device adapters invoke from their audio thread.
// buf holds exactly the requested number of interleaved samples.
type Callback[S audio.Sample] func(buf []S) Status
