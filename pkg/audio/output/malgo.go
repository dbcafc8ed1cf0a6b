// ABOUTME: Malgo-based callback audio output
// ABOUTME: Uses miniaudio via malgo, pulling 32-bit float or 16-bit samples from a relay callback
package output

import (
	"encoding/binary"
	"fmt"
	"math"
	"sync"
	"sync/atomic"

	"github.com/gen2brain/malgo"
	"github.com/sirupsen/logrus"
	"github.com/sndrelay/sndrelay-go/internal/log"
	"github.com/sndrelay/sndrelay-go/pkg/audio"
	"github.com/sndrelay/sndrelay-go/pkg/relay"
)

// DefaultMalgoFrames sizes the callback buffer when no period size is configured
const DefaultMalgoFrames = 4096

// Malgo output implementation using malgo/miniaudio library
type Malgo[S audio.Sample] struct {
	log             logrus.FieldLogger
	framesPerBuffer int

	malgoCtx *malgo.AllocatedContext
	device   *malgo.Device
	channels int
	ready    bool
	started  bool

	cb atomic.Pointer[relay.Callback[S]]
	// scratch is sized once in Open and touched only from the device callback
	scratch []S
	done    doneSignal
	mu      sync.Mutex
}

// NewMalgo creates a new Malgo output asking for framesPerBuffer frames per callback
func NewMalgo[S audio.Sample](framesPerBuffer int, logger logrus.FieldLogger) *Malgo[S] {
	if logger == nil {
		logger = log.Logger
	}
	return &Malgo[S]{
		log:             logger,
		framesPerBuffer: framesPerBuffer,
		done:            doneSignal{ch: make(chan struct{})},
	}
}

// Open initializes the playback device in the sample type's format
func (m *Malgo[S]) Open(format audio.Format) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := format.Validate(); err != nil {
		return err
	}
	if m.device != nil {
		return fmt.Errorf("device already initialized")
	}

	ctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, nil)
	if err != nil {
		return fmt.Errorf("failed to initialize malgo context: %w", err)
	}
	m.malgoCtx = ctx

	sampleFormat := malgoFormat[S]()

	// Configure device
	deviceConfig := malgo.DefaultDeviceConfig(malgo.Playback)
	deviceConfig.Playback.Format = sampleFormat
	deviceConfig.Playback.Channels = uint32(format.Channels)
	deviceConfig.SampleRate = uint32(format.SampleRate)
	if m.framesPerBuffer > 0 {
		deviceConfig.PeriodSizeInFrames = uint32(m.framesPerBuffer)
	}
	deviceConfig.Alsa.NoMMap = 1

	onSamples := func(pOutputSample, pInputSamples []byte, frameCount uint32) {
		m.dataCallback(pOutputSample, frameCount)
	}

	device, err := malgo.InitDevice(m.malgoCtx.Context, deviceConfig, malgo.DeviceCallbacks{
		Data: onSamples,
	})
	if err != nil {
		m.freeContext()
		return fmt.Errorf("failed to initialize playback device: %w", err)
	}

	m.device = device
	m.prepare(format.Channels)
	m.ready = true

	m.log.Infof("Audio output initialized: %dHz, %d channels (malgo/%s)",
		format.SampleRate, format.Channels, formatName(sampleFormat))
	return nil
}

// Start begins playback
func (m *Malgo[S]) Start(cb relay.Callback[S]) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.ready {
		return ErrNotOpen
	}
	if m.started {
		return ErrStarted
	}
	m.cb.Store(&cb)
	if err := m.device.Start(); err != nil {
		return fmt.Errorf("failed to start device: %w", err)
	}
	m.started = true
	return nil
}

// Stop halts the device
func (m *Malgo[S]) Stop() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.device == nil || !m.started {
		return nil
	}
	m.started = false
	if err := m.device.Stop(); err != nil {
		return fmt.Errorf("failed to stop device: %w", err)
	}
	return nil
}

// Done is closed after the callback ends the stream
func (m *Malgo[S]) Done() <-chan struct{} {
	return m.done.ch
}

// prepare sizes the callback buffer for channels
func (m *Malgo[S]) prepare(channels int) {
	frames := m.framesPerBuffer
	if frames <= 0 {
		frames = DefaultMalgoFrames
	}
	m.channels = channels
	m.scratch = make([]S, frames*channels)
}

// dataCallback is called by malgo to fill the audio output buffer. Requests
// larger than the configured period are filled in period-sized pieces.
func (m *Malgo[S]) dataCallback(pOutput []byte, frameCount uint32) {
	size := audio.SampleSize[S]()
	total := int(frameCount) * m.channels

	status := relay.Continue
	for off := 0; off < total; off += len(m.scratch) {
		samples := m.scratch[:min(len(m.scratch), total-off)]
		if status == relay.Continue {
			status = m.fill(samples)
		} else {
			clear(samples)
		}
		putSamples(pOutput[off*size:], samples)
	}

	if status != relay.Continue {
		m.done.close()
	}
}

func (m *Malgo[S]) fill(samples []S) relay.Status {
	cb := m.cb.Load()
	if cb == nil || m.done.closed() {
		clear(samples)
		return relay.Abort
	}
	return (*cb)(samples)
}

// Close releases output resources
func (m *Malgo[S]) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.device != nil {
		if m.started {
			if err := m.device.Stop(); err != nil {
				m.log.Warnf("device stop error: %v", err)
			}
			m.started = false
		}
		m.device.Uninit()
		m.device = nil
	}
	m.freeContext()
	m.ready = false
	return nil
}

func (m *Malgo[S]) freeContext() {
	if m.malgoCtx == nil {
		return
	}
	if err := m.malgoCtx.Uninit(); err != nil {
		m.log.Warnf("malgo context uninit error: %v", err)
	}
	m.malgoCtx.Free()
	m.malgoCtx = nil
}

// malgoFormat maps the sample type to a device format
func malgoFormat[S audio.Sample]() malgo.FormatType {
	if audio.SampleSize[S]() == 4 {
		return malgo.FormatF32
	}
	return malgo.FormatS16
}

// putSamples writes samples little-endian into dst
func putSamples[S audio.Sample](dst []byte, samples []S) {
	switch v := any(samples).(type) {
	case []float32:
		for i, s := range v {
			binary.LittleEndian.PutUint32(dst[i*4:], math.Float32bits(s))
		}
	case []int16:
		for i, s := range v {
			binary.LittleEndian.PutUint16(dst[i*2:], uint16(s))
		}
	}
}

// formatName returns human-readable format name
func formatName(format malgo.FormatType) string {
	switch format {
	case malgo.FormatS16:
		return "S16"
	case malgo.FormatF32:
		return "F32"
	default:
		return fmt.Sprintf("Unknown(%d)", format)
	}
}
