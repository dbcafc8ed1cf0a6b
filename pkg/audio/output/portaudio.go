//go:build portaudio

// ABOUTME: PortAudio output implementations
// ABOUTME: Blocking float32 writes and callback-driven playback on a chosen device
package output

import (
	"fmt"
	"io"
	"sync"

	"github.com/gordonklaus/portaudio"
	"github.com/sirupsen/logrus"
	"github.com/sndrelay/sndrelay-go/internal/log"
	"github.com/sndrelay/sndrelay-go/pkg/audio"
	"github.com/sndrelay/sndrelay-go/pkg/audio/device"
	"github.com/sndrelay/sndrelay-go/pkg/relay"
)

// PortAudioOptions configures the PortAudio outputs
type PortAudioOptions struct {
	FramesPerBuffer int
	// HostAPI restricts device selection to a matching host API
	HostAPI string
	// DeviceIndex selects a device of the host API. device.DefaultIndex uses the default device.
	DeviceIndex int
	// Listing receives the host API and device enumeration when set
	Listing io.Writer
	Logger  logrus.FieldLogger
}

func (o PortAudioOptions) logger() logrus.FieldLogger {
	if o.Logger == nil {
		return log.Logger
	}
	return o.Logger
}

// resolve picks the configured device. PortAudio must be initialized.
func (o PortAudioOptions) resolve() (*device.PortAudioDevice, error) {
	if o.HostAPI == "" && o.DeviceIndex == device.DefaultIndex && o.Listing == nil {
		return nil, nil
	}
	return device.ResolvePortAudio(o.HostAPI, o.DeviceIndex, false, o.Listing, o.logger())
}

// openStream opens an output stream on dev, or the default device when nil
func (o PortAudioOptions) openStream(dev *device.PortAudioDevice, format audio.Format, args ...interface{}) (*portaudio.Stream, error) {
	if dev == nil {
		return portaudio.OpenDefaultStream(0, format.Channels, float64(format.SampleRate), o.FramesPerBuffer, args...)
	}
	params := portaudio.HighLatencyParameters(nil, dev.Device)
	params.Output.Channels = format.Channels
	params.SampleRate = float64(format.SampleRate)
	params.FramesPerBuffer = o.FramesPerBuffer
	return portaudio.OpenStream(params, args...)
}

// PortAudioBlocking writes float32 blocks with blocking stream writes
type PortAudioBlocking struct {
	opts     PortAudioOptions
	device   *device.PortAudioDevice
	stream   *portaudio.Stream
	block    []float32
	out      []float32 // the stream's buffer, resliced per write
	channels int
}

// NewPortAudioBlocking creates a blocking PortAudio output
func NewPortAudioBlocking(opts PortAudioOptions) *PortAudioBlocking {
	return &PortAudioBlocking{opts: opts}
}

// Open initializes PortAudio and starts the stream
func (p *PortAudioBlocking) Open(format audio.Format) error {
	if err := format.Validate(); err != nil {
		return err
	}
	if err := portaudio.Initialize(); err != nil {
		return fmt.Errorf("failed to initialize portaudio: %w", err)
	}
	dev, err := p.opts.resolve()
	if err != nil {
		portaudio.Terminate()
		return fmt.Errorf("failed to select device: %w", err)
	}
	p.device = dev

	frames := max(p.opts.FramesPerBuffer, 1)
	p.block = make([]float32, frames*format.Channels)
	p.out = p.block

	stream, err := p.opts.openStream(p.device, format, &p.out)
	if err != nil {
		portaudio.Terminate()
		return fmt.Errorf("failed to open stream: %w", err)
	}
	if err := stream.Start(); err != nil {
		stream.Close()
		portaudio.Terminate()
		return fmt.Errorf("failed to start stream: %w", err)
	}

	p.stream = stream
	p.channels = format.Channels
	p.opts.logger().Infof("Audio output initialized: %dHz, %d channels (portaudio)", format.SampleRate, format.Channels)
	return nil
}

// Push writes frames frames of buf
func (p *PortAudioBlocking) Push(buf []float32, frames int) (int, error) {
	if p.stream == nil {
		return 0, ErrNotOpen
	}
	frames = min(frames, len(p.block)/p.channels)
	n := copy(p.block, buf[:frames*p.channels])
	p.out = p.block[:n]
	if err := p.stream.Write(); err != nil {
		return 0, fmt.Errorf("stream write failed: %w", err)
	}
	return frames, nil
}

// Close stops the stream and releases PortAudio
func (p *PortAudioBlocking) Close() error {
	if p.stream == nil {
		return nil
	}
	var err error
	if stopErr := p.stream.Stop(); stopErr != nil {
		err = stopErr
	}
	if closeErr := p.stream.Close(); closeErr != nil && err == nil {
		err = closeErr
	}
	p.stream = nil
	if termErr := portaudio.Terminate(); termErr != nil && err == nil {
		err = termErr
	}
	return err
}

// PortAudioCallback plays float32 audio requested by the device callback
type PortAudioCallback struct {
	opts    PortAudioOptions
	device  *device.PortAudioDevice
	format  audio.Format
	stream  *portaudio.Stream
	cb      relay.Callback[float32]
	done    doneSignal
	mu      sync.Mutex
	ready   bool
	running bool
}

// NewPortAudioCallback creates a callback PortAudio output
func NewPortAudioCallback(opts PortAudioOptions) *PortAudioCallback {
	return &PortAudioCallback{
		opts: opts,
		done: doneSignal{ch: make(chan struct{})},
	}
}

// Open initializes PortAudio
func (p *PortAudioCallback) Open(format audio.Format) error {
	if err := format.Validate(); err != nil {
		return err
	}
	if err := portaudio.Initialize(); err != nil {
		return fmt.Errorf("failed to initialize portaudio: %w", err)
	}
	dev, err := p.opts.resolve()
	if err != nil {
		portaudio.Terminate()
		return fmt.Errorf("failed to select device: %w", err)
	}
	p.device = dev
	p.format = format
	p.ready = true
	return nil
}

// Start opens the stream with the callback and starts it
func (p *PortAudioCallback) Start(cb relay.Callback[float32]) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.ready {
		return ErrNotOpen
	}
	if p.stream != nil {
		return ErrStarted
	}
	p.cb = cb

	stream, err := p.opts.openStream(p.device, p.format, p.process)
	if err != nil {
		return fmt.Errorf("failed to open stream: %w", err)
	}
	if err := stream.Start(); err != nil {
		stream.Close()
		return fmt.Errorf("failed to start stream: %w", err)
	}
	p.stream = stream
	p.running = true
	p.opts.logger().Infof("Audio output started: %dHz, %d channels (portaudio)", p.format.SampleRate, p.format.Channels)
	return nil
}

// process runs on the audio thread
func (p *PortAudioCallback) process(out []float32) {
	if p.done.closed() {
		clear(out)
		return
	}
	if status := p.cb(out); status != relay.Continue {
		p.done.close()
	}
}

// Stop halts the stream
func (p *PortAudioCallback) Stop() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.stream == nil || !p.running {
		return nil
	}
	p.running = false
	if err := p.stream.Stop(); err != nil {
		return fmt.Errorf("failed to stop stream: %w", err)
	}
	return nil
}

// Done is closed after the callback ends the stream
func (p *PortAudioCallback) Done() <-chan struct{} {
	return p.done.ch
}

// Close releases the stream and PortAudio
func (p *PortAudioCallback) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	var err error
	if p.stream != nil {
		if p.running {
			p.running = false
			err = p.stream.Stop()
		}
		if closeErr := p.stream.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
		p.stream = nil
	}
	if p.ready {
		p.ready = false
		if termErr := portaudio.Terminate(); termErr != nil && err == nil {
			err = termErr
		}
	}
	return err
}
