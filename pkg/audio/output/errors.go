package output

import "errors"

var (
	// ErrNotEnabled indicates a backend compiled out of this binary
	ErrNotEnabled = errors.New("PortAudio support not enabled (build with -tags portaudio)")

	// ErrNotOpen indicates use before Open or after Close
	ErrNotOpen = errors.New("output not initialized")

	// ErrStarted indicates a second Start
	ErrStarted = errors.New("output already started")

	// ErrChannels indicates a channel layout the backend cannot carry
	ErrChannels = errors.New("unsupported channel count")

	// ErrRingClosed is returned by blocking ring buffer operations after Close
	ErrRingClosed = errors.New("ring buffer closed")
)
