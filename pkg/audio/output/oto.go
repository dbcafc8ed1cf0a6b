// ABOUTME: Oto-based blocking audio output
// ABOUTME: Streams 16-bit blocks through a pipe into one persistent oto player
package output

import (
	"encoding/binary"
	"fmt"
	"io"
	"time"

	"github.com/ebitengine/oto/v3"
	"github.com/sirupsen/logrus"
	"github.com/sndrelay/sndrelay-go/internal/log"
	"github.com/sndrelay/sndrelay-go/pkg/audio"
)

// drainTimeout bounds the wait for the player to finish queued audio on Close
const drainTimeout = 5 * time.Second

// Oto output implementation using oto library
type Oto struct {
	log        logrus.FieldLogger
	otoCtx     *oto.Context
	player     *oto.Player
	pipeReader *io.PipeReader
	pipeWriter *io.PipeWriter
	channels   int
	bytes      []byte
	ready      bool
}

// NewOto creates a new Oto output
func NewOto(logger logrus.FieldLogger) *Oto {
	if logger == nil {
		logger = log.Logger
	}
	return &Oto{log: logger}
}

// Open initializes the output device. Oto allows one context per process.
func (o *Oto) Open(format audio.Format) error {
	if err := format.Validate(); err != nil {
		return err
	}
	if o.otoCtx != nil {
		return fmt.Errorf("oto context already created")
	}

	op := &oto.NewContextOptions{
		SampleRate:   format.SampleRate,
		ChannelCount: format.Channels,
		Format:       oto.FormatSignedInt16LE,
	}

	ctx, readyChan, err := oto.NewContext(op)
	if err != nil {
		return fmt.Errorf("failed to create oto context: %w", err)
	}

	<-readyChan

	o.otoCtx = ctx
	o.channels = format.Channels

	// Create pipe for continuous streaming
	o.pipeReader, o.pipeWriter = io.Pipe()

	// Create persistent player that reads from the pipe
	o.player = o.otoCtx.NewPlayer(o.pipeReader)
	o.player.Play()

	o.ready = true

	o.log.Infof("Audio output initialized: %dHz, %d channels (oto)", format.SampleRate, format.Channels)

	return nil
}

// Push plays frames frames of buf, blocking until the player has taken them
func (o *Oto) Push(buf []int16, frames int) (int, error) {
	if !o.ready {
		return 0, ErrNotOpen
	}

	n := frames * o.channels
	if cap(o.bytes) < n*2 {
		o.bytes = make([]byte, n*2)
	}
	out := o.bytes[:n*2]
	for i, sample := range buf[:n] {
		binary.LittleEndian.PutUint16(out[i*2:], uint16(sample))
	}

	// Write to pipe (which feeds the persistent player)
	if _, err := o.pipeWriter.Write(out); err != nil {
		return 0, fmt.Errorf("pipe write failed: %w", err)
	}
	return frames, nil
}

// Close lets queued audio finish and releases output resources
func (o *Oto) Close() error {
	if o.pipeWriter != nil {
		o.pipeWriter.Close()
		o.pipeWriter = nil
	}
	if o.player != nil {
		deadline := time.Now().Add(drainTimeout)
		for o.player.IsPlaying() && time.Now().Before(deadline) {
			time.Sleep(10 * time.Millisecond)
		}
		o.player.Close()
		o.player = nil
	}
	if o.pipeReader != nil {
		o.pipeReader.Close()
		o.pipeReader = nil
	}
	if o.otoCtx != nil {
		if err := o.otoCtx.Suspend(); err != nil {
			o.log.Warnf("oto suspend: %v", err)
		}
	}
	o.ready = false
	return nil
}
