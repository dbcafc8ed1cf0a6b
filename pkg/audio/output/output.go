// ABOUTME: Audio output interface definitions
// ABOUTME: Blocking outputs accept pushed blocks, callback outputs pull through a relay callback
package output

import (
	"context"
	"sync"

	"github.com/sndrelay/sndrelay-go/pkg/audio"
	"github.com/sndrelay/sndrelay-go/pkg/relay"
)

// Output represents an audio output device
type Output interface {
	// Open initializes the output device for format
	Open(format audio.Format) error

	// Close releases output resources
	Close() error
}

// Blocking is an output written by the caller, one block at a time
type Blocking[S audio.Sample] interface {
	Output
	relay.Pusher[S]
}

// Callback is an output that asks for samples from its own audio thread
type Callback[S audio.Sample] interface {
	Output

	// Start begins playback, invoking cb for every device buffer
	Start(cb relay.Callback[S]) error

	// Stop halts playback without waiting for queued audio
	Stop() error

	// Done is closed once cb has returned Complete or Abort
	Done() <-chan struct{}
}

// Drainable is a callback output that knows how much audio it has queued
type Drainable interface {
	// Drain waits until audio queued before the callback completed has played
	Drain(ctx context.Context) error
}

// doneSignal is a close-once channel
type doneSignal struct {
	once sync.Once
	ch   chan struct{}
}

func (d *doneSignal) close() {
	d.once.Do(func() { close(d.ch) })
}

func (d *doneSignal) closed() bool {
	select {
	case <-d.ch:
		return true
	default:
		return false
	}
}
