package decode

import "errors"

var (
	// ErrUnknownFormat indicates the file header matched no supported container
	ErrUnknownFormat = errors.New("unknown sound file format")

	// ErrInvalidFile indicates a recognized container with unreadable headers
	ErrInvalidFile = errors.New("invalid sound file")

	// ErrUnsupportedBitDepth indicates a sample size the decoder cannot normalize
	ErrUnsupportedBitDepth = errors.New("unsupported bit depth")
)
