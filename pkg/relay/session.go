// ABOUTME: Stream session pairing one file and one device
// ABOUTME: Owns the block buffer and closes each side exactly once
package relay

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/sndrelay/sndrelay-go/internal/log"
	"github.com/sndrelay/sndrelay-go/pkg/audio"
)

// Session is the state of one run: the open file, the open device and the
// block buffer shared by the loop or callback.
type Session[S audio.Sample] struct {
	id       uuid.UUID
	file     io.Closer
	device   io.Closer
	buf      []S
	channels int
	log      *logrus.Entry

	mu         sync.Mutex
	fileDone   bool
	deviceDone bool
}

// NewSession creates a session owning file with a block of frames frames
func NewSession[S audio.Sample](file io.Closer, frames, channels int) *Session[S] {
	id := uuid.New()
	return &Session[S]{
		id:       id,
		file:     file,
		buf:      make([]S, max(frames, 0)*max(channels, 1)),
		channels: channels,
		log:      log.WithSession(id.String()),
	}
}

// ID identifies the session in logs
func (s *Session[S]) ID() uuid.UUID {
	return s.id
}

// Log returns the session's logger
func (s *Session[S]) Log() *logrus.Entry {
	return s.log
}

// Buffer returns the block buffer. Its length never changes.
func (s *Session[S]) Buffer() []S {
	return s.buf
}

// Channels returns the interleaved channel count
func (s *Session[S]) Channels() int {
	return s.channels
}

// BlockFrames returns the block size in frames
func (s *Session[S]) BlockFrames() int {
	return len(s.buf) / max(s.channels, 1)
}

// AttachDevice hands the opened device to the session
func (s *Session[S]) AttachDevice(device io.Closer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.device = device
}

// Close closes the device and then the file. Each is closed at most once,
// whatever the number of calls.
func (s *Session[S]) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var errs []error
	if s.device != nil && !s.deviceDone {
		s.deviceDone = true
		if err := s.device.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close device: %w", err))
		}
	}
	if s.file != nil && !s.fileDone {
		s.fileDone = true
		if err := s.file.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close file: %w", err))
		}
	}
	return errors.Join(errs...)
}
