// ABOUTME: Sound server playback outputs using the native pulse protocol client
// ABOUTME: Blocking output via a ring buffer, callback output with adaptive latency
package output

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/jfreymuth/pulse"
	"github.com/jfreymuth/pulse/proto"
	"github.com/sirupsen/logrus"
	"github.com/sndrelay/sndrelay-go/internal/log"
	"github.com/sndrelay/sndrelay-go/pkg/audio"
	"github.com/sndrelay/sndrelay-go/pkg/audio/device"
	"github.com/sndrelay/sndrelay-go/pkg/audio/latency"
	"github.com/sndrelay/sndrelay-go/pkg/relay"
)

const (
	// DefaultAppName is the client name shown by the sound server
	DefaultAppName = "sndrelay"

	// DefaultPollInterval is how often underflows are checked
	DefaultPollInterval = 10 * time.Millisecond

	// DefaultStreamLatency is the buffering requested when no controller sets one
	DefaultStreamLatency = 250 * time.Millisecond
)

// PulseOptions configures the sound server outputs
type PulseOptions struct {
	AppName string
	// SinkIndex selects an enumerated sink. device.DefaultIndex uses the server default.
	SinkIndex int
	// Listing receives the sink enumeration when set
	Listing io.Writer
	// BufferFrames sizes the blocking output's ring buffer. Zero means half a second.
	BufferFrames int
	// Latency adapts the callback output's buffering to underflows. May be
	// nil, in which case DefaultStreamLatency is requested.
	Latency      *latency.Controller
	PollInterval time.Duration
	Logger       logrus.FieldLogger
}

func (o PulseOptions) withDefaults() PulseOptions {
	if o.AppName == "" {
		o.AppName = DefaultAppName
	}
	if o.PollInterval <= 0 {
		o.PollInterval = DefaultPollInterval
	}
	if o.Logger == nil {
		o.Logger = log.Logger
	}
	return o
}

// openPulse connects to the server and resolves the configured sink
func openPulse(opts PulseOptions) (*pulse.Client, *pulse.Sink, error) {
	client, err := pulse.NewClient(pulse.ClientApplicationName(opts.AppName))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to sound server: %w", err)
	}

	sinks, err := device.PulseSinks(client)
	if err != nil {
		client.Close()
		return nil, nil, err
	}
	if opts.Listing != nil {
		device.Print(opts.Listing, "Sink", sinks)
	}
	if opts.SinkIndex == device.DefaultIndex {
		return client, nil, nil
	}

	sink, err := device.SelectOrDefault(sinks, opts.SinkIndex, opts.Logger)
	if err != nil {
		// the server picks its default sink
		return client, nil, nil
	}
	opts.Logger.Infof("Using sink %d: %s", sink.Index, sink.Name)
	return client, sink.Sink, nil
}

// playbackOptions builds stream options for format
func playbackOptions(format audio.Format, sink *pulse.Sink, target time.Duration) ([]pulse.PlaybackOption, error) {
	opts := []pulse.PlaybackOption{pulse.PlaybackSampleRate(format.SampleRate)}
	switch format.Channels {
	case 1:
		opts = append(opts, pulse.PlaybackMono)
	case 2:
		opts = append(opts, pulse.PlaybackStereo)
	default:
		return nil, fmt.Errorf("%w: %d", ErrChannels, format.Channels)
	}
	if sink != nil {
		opts = append(opts, pulse.PlaybackSink(sink))
	}
	if target > 0 {
		opts = append(opts, pulse.PlaybackLatency(target.Seconds()))
	}
	return opts, nil
}

// PulseBlocking is a blocking float32 output. Pushed blocks queue in a ring
// buffer that the server drains.
type PulseBlocking struct {
	opts   PulseOptions
	client *pulse.Client
	stream *pulse.PlaybackStream
	ring   *RingBuffer[float32]
	format audio.Format
}

// NewPulseBlocking creates a blocking sound server output
func NewPulseBlocking(opts PulseOptions) *PulseBlocking {
	return &PulseBlocking{opts: opts.withDefaults()}
}

// Open connects and starts an initially silent stream
func (p *PulseBlocking) Open(format audio.Format) error {
	if err := format.Validate(); err != nil {
		return err
	}

	client, sink, err := openPulse(p.opts)
	if err != nil {
		return err
	}
	opts, err := playbackOptions(format, sink, DefaultStreamLatency)
	if err != nil {
		client.Close()
		return err
	}

	frames := p.opts.BufferFrames
	if frames <= 0 {
		frames = format.SampleRate / 2
	}
	p.ring = NewRingBuffer[float32](frames * format.Channels)

	stream, err := client.NewPlayback(pulse.Float32Reader(p.read), opts...)
	if err != nil {
		client.Close()
		return fmt.Errorf("failed to create playback stream: %w", err)
	}
	stream.Start()

	p.client = client
	p.stream = stream
	p.format = format
	p.opts.Logger.Infof("Audio output initialized: %dHz, %d channels (pulse)", format.SampleRate, format.Channels)
	return nil
}

// read runs on the client's goroutine
func (p *PulseBlocking) read(buf []float32) (int, error) {
	n := p.ring.Read(buf)
	if n < len(buf) && p.ring.Drained() {
		return n, pulse.EndOfData
	}
	return len(buf), nil
}

// Push queues frames frames of buf, waiting while the ring is full
func (p *PulseBlocking) Push(buf []float32, frames int) (int, error) {
	if p.stream == nil {
		return 0, ErrNotOpen
	}
	if err := p.stream.Error(); err != nil {
		return 0, fmt.Errorf("playback stream failed: %w", err)
	}
	if err := p.ring.WriteAll(buf[:frames*p.format.Channels]); err != nil {
		return 0, err
	}
	return frames, nil
}

// Close plays out queued audio and disconnects
func (p *PulseBlocking) Close() error {
	if p.ring != nil {
		p.ring.Close()
	}
	if p.stream != nil {
		p.stream.Drain()
		// the server still holds up to one latency of audio
		time.Sleep(DefaultStreamLatency)
		p.stream.Close()
		p.stream = nil
	}
	if p.client != nil {
		p.client.Close()
		p.client = nil
	}
	return nil
}

// playbackStream is the part of a pulse playback stream the callback output drives
type playbackStream interface {
	Start()
	Stop()
	Pause()
	Resume()
	Close()
	// Underflow reports whether the server signalled an underflow since the
	// stream was last started or resumed
	Underflow() bool
	StreamIndex() uint32
}

// PulseCallback is a callback float32 output. Underflows reported by the
// server feed the latency controller, and a grown target is applied to the
// running stream's buffer attributes.
type PulseCallback struct {
	opts   PulseOptions
	client *pulse.Client
	format audio.Format

	newStream func(target time.Duration) (playbackStream, error)
	setAttr   func(index uint32, attr latency.BufferAttr) error

	// cbMu is held while the callback runs
	cbMu   sync.Mutex
	cb     relay.Callback[float32]
	halted bool

	mu          sync.Mutex
	stream      playbackStream
	target      time.Duration
	underflowed bool
	started     bool
	stopped     bool
	done        doneSignal
	quit        chan struct{}
	quitOnce    sync.Once
	wg          sync.WaitGroup
}

// NewPulseCallback creates a callback sound server output
func NewPulseCallback(opts PulseOptions) *PulseCallback {
	return &PulseCallback{
		opts: opts.withDefaults(),
		done: doneSignal{ch: make(chan struct{})},
		quit: make(chan struct{}),
	}
}

// Open connects to the server and resolves the sink
func (p *PulseCallback) Open(format audio.Format) error {
	if err := format.Validate(); err != nil {
		return err
	}
	if format.Channels < 1 || format.Channels > 2 {
		return fmt.Errorf("%w: %d", ErrChannels, format.Channels)
	}

	client, sink, err := openPulse(p.opts)
	if err != nil {
		return err
	}
	p.client = client
	p.format = format
	p.bind(
		func(target time.Duration) (playbackStream, error) {
			opts, err := playbackOptions(format, sink, target)
			if err != nil {
				return nil, err
			}
			stream, err := client.NewPlayback(pulse.Float32Reader(p.read), opts...)
			if err != nil {
				return nil, err
			}
			return stream, nil
		},
		func(index uint32, attr latency.BufferAttr) error {
			var reply proto.SetPlaybackStreamBufferAttrReply
			return client.RawRequest(&proto.SetPlaybackStreamBufferAttr{
				StreamIndex:           index,
				BufferMaxLength:       attrLength(attr.MaxLength),
				BufferTargetLength:    attrLength(attr.TargetLength),
				BufferPrebufferLength: attrLength(0),
				BufferMinimumRequest:  attrLength(attr.MinRequest),
				AdjustLatency:         true,
			}, &reply)
		},
	)
	return nil
}

// attrLength maps a byte length to the protocol value, where the server
// default is all ones
func attrLength(n int) uint32 {
	if n <= 0 {
		return ^uint32(0)
	}
	return uint32(n)
}

// bind sets how streams are created and buffer attributes changed
func (p *PulseCallback) bind(newStream func(time.Duration) (playbackStream, error), setAttr func(uint32, latency.BufferAttr) error) {
	p.newStream = newStream
	p.setAttr = setAttr
	if p.opts.Latency != nil {
		p.opts.Latency.SetApply(p.applyLatency)
	}
}

// streamFormat is the float32 format the stream carries
func (p *PulseCallback) streamFormat() audio.Format {
	return audio.Format{SampleRate: p.format.SampleRate, Channels: p.format.Channels, BitDepth: 32, Float: true}
}

// Start opens the stream at the current latency target and begins playback
func (p *PulseCallback) Start(cb relay.Callback[float32]) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.newStream == nil {
		return ErrNotOpen
	}
	if p.started {
		return ErrStarted
	}

	p.cbMu.Lock()
	p.cb = cb
	p.cbMu.Unlock()

	target := DefaultStreamLatency
	if p.opts.Latency != nil {
		target = p.opts.Latency.Target()
	}
	stream, err := p.newStream(target)
	if err != nil {
		return fmt.Errorf("failed to create playback stream: %w", err)
	}
	stream.Start()
	p.stream = stream
	p.target = target
	p.started = true

	attr := latency.Attr(target, p.streamFormat())
	p.opts.Logger.Debugf("playback stream started, latency %v (maxlength %d, tlength %d bytes)",
		target, attr.MaxLength, attr.TargetLength)

	if p.opts.Latency != nil {
		p.wg.Add(1)
		go p.watchUnderflows()
	}
	return nil
}

// applyLatency asks the server to buffer target from now on. Audio already
// queued is kept.
func (p *PulseCallback) applyLatency(target time.Duration) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.stream == nil || p.stopped {
		return nil
	}
	attr := latency.Attr(target, p.streamFormat())
	if err := p.setAttr(p.stream.StreamIndex(), attr); err != nil {
		return fmt.Errorf("failed to set buffer attributes: %w", err)
	}
	p.target = target
	p.opts.Logger.Debugf("playback latency %v (maxlength %d, tlength %d bytes)",
		target, attr.MaxLength, attr.TargetLength)
	return nil
}

// read runs on the client's goroutine
func (p *PulseCallback) read(buf []float32) (int, error) {
	p.cbMu.Lock()
	defer p.cbMu.Unlock()

	if p.halted || p.cb == nil || p.done.closed() {
		return 0, pulse.EndOfData
	}
	n := len(buf) / p.format.Channels * p.format.Channels
	if status := p.cb(buf[:n]); status != relay.Continue {
		p.done.close()
		return 0, pulse.EndOfData
	}
	return n, nil
}

// pollUnderflow reports a newly raised underflow flag. The flag stays raised
// until the stream resumes, so a counted underflow is re-armed with a
// pause and resume.
func (p *PulseCallback) pollUnderflow() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.stream == nil || p.stopped {
		return false
	}
	raised := p.stream.Underflow()
	edge := raised && !p.underflowed
	p.underflowed = raised
	if edge {
		p.stream.Pause()
		p.stream.Resume()
		p.underflowed = p.stream.Underflow()
	}
	return edge
}

func (p *PulseCallback) watchUnderflows() {
	defer p.wg.Done()

	ticker := time.NewTicker(p.opts.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-p.quit:
			return
		case <-p.done.ch:
			return
		case <-ticker.C:
			if p.pollUnderflow() {
				// apply failures are logged by the controller
				_, _ = p.opts.Latency.Underflow()
			}
		}
	}
}

// Drain waits for the callback to complete and for the audio the server had
// buffered by then to play
func (p *PulseCallback) Drain(ctx context.Context) error {
	p.mu.Lock()
	started, target := p.started, p.target
	p.mu.Unlock()
	if !started {
		return ErrNotOpen
	}

	select {
	case <-p.done.ch:
	case <-ctx.Done():
		return ctx.Err()
	}

	t := time.NewTimer(target)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stop halts playback immediately. No callback runs once it returns.
func (p *PulseCallback) Stop() error {
	p.quitOnce.Do(func() { close(p.quit) })
	p.wg.Wait()

	p.cbMu.Lock()
	p.halted = true
	p.cbMu.Unlock()

	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.stopped && p.stream != nil {
		p.stream.Stop()
	}
	p.stopped = true
	return nil
}

// Done is closed after the callback ends the stream
func (p *PulseCallback) Done() <-chan struct{} {
	return p.done.ch
}

// Close stops the stream and disconnects
func (p *PulseCallback) Close() error {
	if err := p.Stop(); err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.stream != nil {
		p.stream.Close()
		p.stream = nil
	}
	if p.client != nil {
		p.client.Close()
		p.client = nil
	}
	return nil
}
