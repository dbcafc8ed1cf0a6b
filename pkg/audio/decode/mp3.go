// ABOUTME: MP3 sound file decoder
// ABOUTME: Decodes MPEG audio via go-mp3 into stereo float32 samples
package decode

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/hajimehoshi/go-mp3"
	"github.com/sndrelay/sndrelay-go/pkg/audio"
)

// MP3Decoder decodes MP3 files. go-mp3 always produces 16-bit stereo.
type MP3Decoder struct {
	decoder *mp3.Decoder
	format  audio.Format
	buf     []byte
}

// NewMP3 creates an MP3 decoder
func NewMP3(r io.Reader) (Decoder, error) {
	decoder, err := mp3.NewDecoder(r)
	if err != nil {
		return nil, fmt.Errorf("failed to decode MP3: %w", err)
	}

	return &MP3Decoder{
		decoder: decoder,
		format: audio.Format{
			Codec:      CodecMP3,
			SampleRate: decoder.SampleRate(),
			Channels:   2,
			BitDepth:   16,
		},
	}, nil
}

// Format describes the decoded stream
func (d *MP3Decoder) Format() audio.Format {
	return d.format
}

// Read decodes up to len(samples) interleaved samples
func (d *MP3Decoder) Read(samples []float32) (int, error) {
	if len(samples) == 0 {
		return 0, nil
	}

	need := len(samples) * 2
	if cap(d.buf) < need {
		d.buf = make([]byte, need)
	}
	d.buf = d.buf[:need]

	n, err := io.ReadAtLeast(d.decoder, d.buf, 2)
	if err != nil && n < 2 {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return 0, io.EOF
		}
		return 0, fmt.Errorf("failed to read MP3 samples: %w", err)
	}

	count := n / 2
	for i := 0; i < count; i++ {
		samples[i] = audio.Int16ToFloat32(int16(binary.LittleEndian.Uint16(d.buf[i*2:])))
	}
	return count, nil
}

// Close releases decoder resources
func (d *MP3Decoder) Close() error {
	return nil
}
