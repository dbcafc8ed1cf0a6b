//go:build !portaudio

// ABOUTME: PortAudio stub when library not available
// ABOUTME: Provides compile-time placeholder when PortAudio not installed
package output

import (
	"io"

	"github.com/sirupsen/logrus"
	"github.com/sndrelay/sndrelay-go/pkg/audio"
	"github.com/sndrelay/sndrelay-go/pkg/relay"
)

// PortAudioOptions configures the PortAudio outputs
type PortAudioOptions struct {
	FramesPerBuffer int
	HostAPI         string
	DeviceIndex     int
	Listing         io.Writer
	Logger          logrus.FieldLogger
}

// PortAudioBlocking output implementation (stub)
type PortAudioBlocking struct{}

// NewPortAudioBlocking creates a new PortAudio output
func NewPortAudioBlocking(opts PortAudioOptions) *PortAudioBlocking {
	return &PortAudioBlocking{}
}

// Open initializes PortAudio
func (p *PortAudioBlocking) Open(format audio.Format) error {
	return ErrNotEnabled
}

// Push outputs audio samples
func (p *PortAudioBlocking) Push(buf []float32, frames int) (int, error) {
	return 0, ErrNotEnabled
}

// Close releases resources
func (p *PortAudioBlocking) Close() error {
	return nil
}

// PortAudioCallback output implementation (stub)
type PortAudioCallback struct {
	done chan struct{}
}

// NewPortAudioCallback creates a new PortAudio output
func NewPortAudioCallback(opts PortAudioOptions) *PortAudioCallback {
	return &PortAudioCallback{done: make(chan struct{})}
}

// Open initializes PortAudio
func (p *PortAudioCallback) Open(format audio.Format) error {
	return ErrNotEnabled
}

// Start begins playback
func (p *PortAudioCallback) Start(cb relay.Callback[float32]) error {
	return ErrNotEnabled
}

// Stop halts playback
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
