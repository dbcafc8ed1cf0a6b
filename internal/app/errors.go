package app

import "errors"

var (
	// ErrUsage indicates a bad command line
	ErrUsage = errors.New("usage")

	// ErrOpenFile indicates the sound file could not be opened or created
	ErrOpenFile = errors.New("cannot open sound file")

	// ErrBackend indicates the audio backend could not be set up
	ErrBackend = errors.New("audio backend failure")
)
