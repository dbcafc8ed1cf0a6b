package device

import "errors"

var (
	// ErrNotFound indicates a selection outside the enumerated list
	ErrNotFound = errors.New("device not found")

	// ErrNotEnabled indicates a backend compiled out of this binary
	ErrNotEnabled = errors.New("PortAudio support not enabled (build with -tags portaudio)")
)
