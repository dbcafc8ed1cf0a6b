//go:build !portaudio

// ABOUTME: PortAudio capture stub when library not available
// ABOUTME: Provides compile-time placeholder when PortAudio not installed
package input

import (
	"io"

	"github.com/sirupsen/logrus"
	"github.com/sndrelay/sndrelay-go/pkg/audio"
	"github.com/sndrelay/sndrelay-go/pkg/relay"
)

// PortAudioOptions configures the PortAudio inputs
type PortAudioOptions struct {
	FramesPerBuffer int
	HostAPI         string
	DeviceIndex     int
	Listing         io.Writer
	ClipOff         bool
	Logger          logrus.FieldLogger
}

// PortAudioBlocking input implementation (stub)
type PortAudioBlocking struct{}

// NewPortAudioBlocking creates a new PortAudio input
func NewPortAudioBlocking(opts PortAudioOptions) *PortAudioBlocking {
	return &PortAudioBlocking{}
}

// Open initializes PortAudio
func (p *PortAudioBlocking) Open(format audio.Format) error {
	return ErrNotEnabled
}

// Pull reads audio samples
func (p *PortAudioBlocking) Pull(buf []int16, frames int) (int, error) {
	return 0, ErrNotEnabled
}

// Close releases resources
func (p *PortAudioBlocking) Close() error {
	return nil
}

// PortAudioCallback input implementation (stub)
type PortAudioCallback struct {
	done chan struct{}
}

// NewPortAudioCallback creates a new PortAudio input
func NewPortAudioCallback(opts PortAudioOptions) *PortAudioCallback {
	return &PortAudioCallback{done: make(chan struct{})}
}

// Open initializes PortAudio
func (p *PortAudioCallback) Open(format audio.Format) error {
	return ErrNotEnabled
}

// Start begins capture
func (p *PortAudioCallback) Start(cb relay.Callback[float32]) error {
	return ErrNotEnabled
}

// Stop halts capture
func (p *PortAudioCallback) Stop() error {
	return nil
}

// Done never closes
func (p *PortAudioCallback) Done() <-chan struct{} {
	return p.done
}

// Close releases resources
func (p *PortAudioCallback) Close() error {
	return nil
}
