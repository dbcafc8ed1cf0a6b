// ABOUTME: FLAC sound file decoder
// ABOUTME: Decodes FLAC frames via mewkiz/flac and interleaves subframe samples
package decode

import (
	"errors"
	"fmt"
	"io"

	"github.com/mewkiz/flac"
	"github.com/mewkiz/flac/frame"
	"github.com/sndrelay/sndrelay-go/pkg/audio"
)

// FLACDecoder decodes FLAC files
type FLACDecoder struct {
	stream *flac.Stream
	format audio.Format
	frame  *frame.Frame
	pos    int // next sample index within frame
}

// NewFLAC creates a FLAC decoder
func NewFLAC(r io.Reader) (Decoder, error) {
	stream, err := flac.New(r)
	if err != nil {
		return nil, fmt.Errorf("failed to decode FLAC: %w", err)
	}

	info := stream.Info
	format := audio.Format{
		Codec:      CodecFLAC,
		SampleRate: int(info.SampleRate),
		Channels:   int(info.NChannels),
		BitDepth:   int(info.BitsPerSample),
	}
	if format.BitDepth < 4 || format.BitDepth > 32 {
		return nil, fmt.Errorf("%w: %d-bit FLAC", ErrUnsupportedBitDepth, format.BitDepth)
	}

	return &FLACDecoder{
		stream: stream,
		format: format,
	}, nil
}

// Format describes the decoded stream
func (d *FLACDecoder) Format() audio.Format {
	return d.format
}

// Read decodes whole frames into samples, carrying partially consumed FLAC frames between calls
func (d *FLACDecoder) Read(samples []float32) (int, error) {
	channels := d.format.Channels
	n := 0

	for n+channels <= len(samples) {
		if d.frame == nil || d.pos >= int(d.frame.BlockSize) {
			f, err := d.stream.ParseNext()
			if err != nil {
				if errors.Is(err, io.EOF) {
					d.frame = nil
					if n > 0 {
						return n, nil
					}
					return 0, io.EOF
				}
				return n, fmt.Errorf("failed to parse FLAC frame: %w", err)
			}
			d.frame, d.pos = f, 0
			continue
		}

		for ch := 0; ch < channels; ch++ {
			samples[n] = scaleSigned(int(d.frame.Subframes[ch].Samples[d.pos]), d.format.BitDepth)
			n++
		}
		d.pos++
	}

	return n, nil
}

// Close releases decoder resources
func (d *FLACDecoder) Close() error {
	d.frame = nil
	return nil
}
