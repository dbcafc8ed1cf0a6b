// ABOUTME: Sound server capture inputs using the native pulse protocol client
// ABOUTME: Blocking input via a ring buffer, callback input handing each record buffer to a relay callback
package input

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jfreymuth/pulse"
	"github.com/sirupsen/logrus"
	"github.com/sndrelay/sndrelay-go/internal/log"
	"github.com/sndrelay/sndrelay-go/pkg/audio"
	"github.com/sndrelay/sndrelay-go/pkg/audio/device"
	"github.com/sndrelay/sndrelay-go/pkg/audio/output"
	"github.com/sndrelay/sndrelay-go/pkg/relay"
)

// PulseOptions configures the sound server inputs
type PulseOptions struct {
	AppName string
	// SourceIndex selects an enumerated source. device.DefaultIndex uses the server default.
	SourceIndex int
	// Listing receives the source enumeration when set
	Listing io.Writer
	// Latency is the requested capture buffering. Zero leaves it to the server.
	Latency time.Duration
	// BufferFrames sizes the blocking input's ring buffer. Zero means one second.
	BufferFrames int
	Logger       logrus.FieldLogger
}

func (o PulseOptions) withDefaults() PulseOptions {
	if o.AppName == "" {
		o.AppName = output.DefaultAppName
	}
	if o.Logger == nil {
		o.Logger = log.Logger
	}
	return o
}

// openPulse connects to the server and resolves the configured source
func openPulse(opts PulseOptions) (*pulse.Client, *pulse.Source, error) {
	client, err := pulse.NewClient(pulse.ClientApplicationName(opts.AppName))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to sound server: %w", err)
	}

	sources, err := device.PulseSources(client)
	if err != nil {
		client.Close()
		return nil, nil, err
	}
	if opts.Listing != nil {
		device.Print(opts.Listing, "Source", sources)
	}
	if opts.SourceIndex == device.DefaultIndex {
		return client, nil, nil
	}

	source, err := device.SelectOrDefault(sources, opts.SourceIndex, opts.Logger)
	if err != nil {
		return client, nil, nil
	}
	opts.Logger.Infof("Using source %d: %s", source.Index, source.Name)
	return client, source.Source, nil
}

func recordOptions(format audio.Format, source *pulse.Source, target time.Duration) ([]pulse.RecordOption, error) {
	opts := []pulse.RecordOption{pulse.RecordSampleRate(format.SampleRate)}
	switch format.Channels {
	case 1:
		opts = append(opts, pulse.RecordMono)
	case 2:
		opts = append(opts, pulse.RecordStereo)
	default:
		return nil, fmt.Errorf("%w: %d", ErrChannels, format.Channels)
	}
	if source != nil {
		opts = append(opts, pulse.RecordSource(source))
	}
	if target > 0 {
		opts = append(opts, pulse.RecordLatency(target.Seconds()))
	}
	return opts, nil
}

// PulseBlocking is a blocking float32 input. Captured buffers queue in a ring
// buffer that Pull drains.
type PulseBlocking struct {
	opts    PulseOptions
	client  *pulse.Client
	stream  *pulse.RecordStream
	ring    *output.RingBuffer[float32]
	format  audio.Format
	dropped atomic.Int64
}

// NewPulseBlocking creates a blocking sound server input
func NewPulseBlocking(opts PulseOptions) *PulseBlocking {
	return &PulseBlocking{opts: opts.withDefaults()}
}

// Open connects and starts recording
func (p *PulseBlocking) Open(format audio.Format) error {
	if err := format.Validate(); err != nil {
		return err
	}

	client, source, err := openPulse(p.opts)
	if err != nil {
		return err
	}
	opts, err := recordOptions(format, source, p.opts.Latency)
	if err != nil {
		client.Close()
		return err
	}

	frames := p.opts.BufferFrames
	if frames <= 0 {
		frames = format.SampleRate
	}
	p.ring = output.NewRingBuffer[float32](frames * format.Channels)

	stream, err := client.NewRecord(pulse.Float32Writer(p.write), opts...)
	if err != nil {
		client.Close()
		return fmt.Errorf("failed to create record stream: %w", err)
	}
	stream.Start()

	p.client = client
	p.stream = stream
	p.format = format
	p.opts.Logger.Infof("Audio input initialized: %dHz, %d channels (pulse)", format.SampleRate, format.Channels)
	return nil
}

// write runs on the client's goroutine
func (p *PulseBlocking) write(buf []float32) (int, error) {
	if n := p.ring.Write(buf); n < len(buf) {
		p.dropped.Add(int64(len(buf) - n))
	}
	return len(buf), nil
}

// Pull waits for frames frames of captured audio
func (p *PulseBlocking) Pull(buf []float32, frames int) (int, error) {
	if p.stream == nil {
		return 0, ErrNotOpen
	}
	if err := p.stream.Error(); err != nil {
		return 0, fmt.Errorf("record stream failed: %w", err)
	}
	n, err := p.ring.ReadFull(buf[:frames*p.format.Channels])
	if err != nil && !errors.Is(err, io.EOF) {
		return 0, err
	}
	return n / p.format.Channels, nil
}

// Dropped returns the samples lost to a full ring buffer
func (p *PulseBlocking) Dropped() int64 {
	return p.dropped.Load()
}

// Close stops recording and disconnects
func (p *PulseBlocking) Close() error {
	if p.stream != nil {
		p.stream.Stop()
		p.stream.Close()
		p.stream = nil
	}
	if p.ring != nil {
		p.ring.Close()
		if d := p.dropped.Load(); d > 0 {
			p.opts.Logger.Warnf("dropped %d captured samples", d)
		}
	}
	if p.client != nil {
		p.client.Close()
		p.client = nil
	}
	return nil
}

// PulseCallback hands every captured float32 buffer to a relay callback
type PulseCallback struct {
	opts   PulseOptions
	client *pulse.Client
	source *pulse.Source
	format audio.Format
	cb     relay.Callback[float32]

	mu     sync.Mutex
	stream *pulse.RecordStream
	done   doneSignal
}

// NewPulseCallback creates a callback sound server input
func NewPulseCallback(opts PulseOptions) *PulseCallback {
	return &PulseCallback{
		opts: opts.withDefaults(),
		done: doneSignal{ch: make(chan struct{})},
	}
}

// Open connects to the server and resolves the source
func (p *PulseCallback) Open(format audio.Format) error {
	if err := format.Validate(); err != nil {
		return err
	}
	client, source, err := openPulse(p.opts)
	if err != nil {
		return err
	}
	p.client = client
	p.source = source
	p.format = format
	return nil
}

// Start begins recording
func (p *PulseCallback) Start(cb relay.Callback[float32]) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.client == nil {
		return ErrNotOpen
	}
	if p.stream != nil {
		return ErrStarted
	}
	opts, err := recordOptions(p.format, p.source, p.opts.Latency)
	if err != nil {
		return err
	}
	p.cb = cb

	stream, err := p.client.NewRecord(pulse.Float32Writer(p.write), opts...)
	if err != nil {
		return fmt.Errorf("failed to create record stream: %w", err)
	}
	stream.Start()
	p.stream = stream
	p.opts.Logger.Infof("Audio input started: %dHz, %d channels (pulse)", p.format.SampleRate, p.format.Channels)
	return nil
}

// write runs on the client's goroutine. Only whole frames reach the callback.
func (p *PulseCallback) write(buf []float32) (int, error) {
	if p.done.closed() {
		return len(buf), nil
	}
	ch := p.format.Channels
	n := len(buf) / ch * ch
	if n > 0 {
		if status := p.cb(buf[:n]); status != relay.Continue {
			p.done.close()
		}
	}
	return len(buf), nil
}

// Stop halts recording
func (p *PulseCallback) Stop() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.stream != nil {
		p.stream.Stop()
	}
	return nil
}

// Done is closed after the callback ends the stream
func (p *PulseCallback) Done() <-chan struct{} {
	return p.done.ch
}

// Close stops recording and disconnects
func (p *PulseCallback) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.stream != nil {
		p.stream.Stop()
		p.stream.Close()
		p.stream = nil
	}
	if p.client != nil {
		p.client.Close()
		p.client = nil
	}
	return nil
}
