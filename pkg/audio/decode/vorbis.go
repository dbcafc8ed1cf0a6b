// ABOUTME: Ogg Vorbis sound file decoder
// ABOUTME: Decodes Vorbis streams via jfreymuth/oggvorbis
package decode

import (
	"errors"
	"fmt"
	"io"

	"github.com/jfreymuth/oggvorbis"
	"github.com/sndrelay/sndrelay-go/pkg/audio"
)

// VorbisDecoder decodes Ogg Vorbis files
type VorbisDecoder struct {
	reader *oggvorbis.Reader
	format audio.Format
}

// NewVorbis creates an Ogg Vorbis decoder
func NewVorbis(r io.Reader) (Decoder, error) {
	reader, err := oggvorbis.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to decode Ogg Vorbis: %w", err)
	}

	return &VorbisDecoder{
		reader: reader,
		format: audio.Format{
			Codec:      CodecVorbis,
			SampleRate: reader.SampleRate(),
			Channels:   reader.Channels(),
			BitDepth:   32,
			Float:      true,
		},
	}, nil
}

// Format describes the decoded stream
func (d *VorbisDecoder) Format() audio.Format {
	return d.format
}

// Read decodes up to len(samples) interleaved samples, rounded down to whole frames
func (d *VorbisDecoder) Read(samples []float32) (int, error) {
	whole := len(samples) - len(samples)%d.format.Channels
	if whole == 0 {
		return 0, nil
	}

	for {
		n, err := d.reader.Read(samples[:whole])
		if n > 0 {
			return n, nil
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return 0, io.EOF
			}
			return 0, fmt.Errorf("failed to read Vorbis samples: %w", err)
		}
	}
}

// Close releases decoder resources
func (d *VorbisDecoder) Close() error {
	return nil
}
