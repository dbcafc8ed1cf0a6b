package relay

import "errors"

var (
	// ErrShortWrite indicates a destination accepted fewer frames than offered
	ErrShortWrite = errors.New("short block write")

	// ErrNoSignals indicates an interrupt watch was requested without signals
	ErrNoSignals = errors.New("no signals to watch")

	// ErrBadChannels indicates a non-positive channel count
	ErrBadChannels = errors.New("channel count must be positive")
)
