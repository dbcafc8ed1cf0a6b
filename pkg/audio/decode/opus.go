// ABOUTME: Ogg Opus sound file decoder
// ABOUTME: Decodes Opus streams via libopusfile, always at 48kHz
package decode

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/sndrelay/sndrelay-go/pkg/audio"
	"gopkg.in/hraban/opus.v2"
)

// OpusSampleRate is the rate every Opus stream decodes at
const OpusSampleRate = 48000

// opusHeadOffset is where the identification header starts in a first Ogg
// page holding a single segment
const opusHeadOffset = 28

// opusChannels reads the channel count from the identification header at
// the start of an Ogg file. It reports false when the file is not Opus.
func opusChannels(header []byte) (int, bool) {
	head := opusHeadOffset
	if len(header) < head+10 || !bytes.Equal(header[head:head+8], []byte("OpusHead")) {
		return 0, false
	}
	return int(header[head+9]), true
}

// OpusDecoder decodes Ogg Opus files
type OpusDecoder struct {
	stream *opus.Stream
	format audio.Format
}

// NewOpus creates an Ogg Opus decoder for a stream of channels channels
func NewOpus(r io.Reader, channels int) (Decoder, error) {
	if channels < 1 || channels > 2 {
		return nil, fmt.Errorf("%w: %d Opus channels", ErrInvalidFile, channels)
	}

	// hide any Close method so the stream does not close the file
	stream, err := opus.NewStream(struct{ io.Reader }{r})
	if err != nil {
		return nil, fmt.Errorf("failed to decode Ogg Opus: %w", err)
	}

	return &OpusDecoder{
		stream: stream,
		format: audio.Format{
			Codec:      CodecOpus,
			SampleRate: OpusSampleRate,
			Channels:   channels,
			BitDepth:   32,
			Float:      true,
		},
	}, nil
}

// Format describes the decoded stream
func (d *OpusDecoder) Format() audio.Format {
	return d.format
}

// Read decodes up to len(samples) interleaved samples, rounded down to whole frames
func (d *OpusDecoder) Read(samples []float32) (int, error) {
	whole := len(samples) - len(samples)%d.format.Channels
	if whole == 0 {
		return 0, nil
	}

	// the stream counts frames, not samples
	frames, err := d.stream.ReadFloat32(samples[:whole])
	if frames > 0 {
		return frames * d.format.Channels, nil
	}
	if err != nil && !errors.Is(err, io.EOF) {
		return 0, fmt.Errorf("failed to read Opus samples: %w", err)
	}
	return 0, io.EOF
}

// Close releases decoder resources
func (d *OpusDecoder) Close() error {
	return d.stream.Close()
}
