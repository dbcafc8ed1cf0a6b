package sndfile

import "errors"

var (
	// ErrClosed is returned by operations on a closed File
	ErrClosed = errors.New("sound file already closed")

	// ErrReadOnly is returned when writing to a file opened for reading
	ErrReadOnly = errors.New("sound file opened for reading")

	// ErrWriteOnly is returned when reading from a file created for writing
	ErrWriteOnly = errors.New("sound file opened for writing")
)
