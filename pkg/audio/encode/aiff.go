// ABOUTME: AIFF sound file encoder
// ABOUTME: Writes big-endian integer PCM AIFF files via go-audio/aiff
package encode

import (
	"fmt"
	"io"

	"github.com/go-audio/aiff"
	goaudio "github.com/go-audio/audio"
	"github.com/sndrelay/sndrelay-go/pkg/audio"
)

// AIFFEncoder writes AIFF files
type AIFFEncoder struct {
	enc      *aiff.Encoder
	format   audio.Format
	quantize quantizer
	buf      *goaudio.IntBuffer
}

// NewAIFF creates an AIFF encoder writing to w. AIFF has no float variant.
func NewAIFF(w io.WriteSeeker, format audio.Format) (Encoder, error) {
	if err := format.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedFormat, err)
	}
	if format.Float {
		return nil, fmt.Errorf("%w: float AIFF", ErrUnsupportedFormat)
	}

	q, err := newQuantizer(format, false)
	if err != nil {
		return nil, err
	}
	format.Codec = "aiff"

	return &AIFFEncoder{
		enc:      aiff.NewEncoder(w, format.SampleRate, format.BitDepth, format.Channels),
		format:   format,
		quantize: q,
		buf: &goaudio.IntBuffer{
			Format:         &goaudio.Format{NumChannels: format.Channels, SampleRate: format.SampleRate},
			SourceBitDepth: format.BitDepth,
		},
	}, nil
}

// Format describes the file being written
func (e *AIFFEncoder) Format() audio.Format {
	return e.format
}

// Write appends whole frames from samples
func (e *AIFFEncoder) Write(samples []float32) error {
	if len(samples) == 0 {
		return nil
	}
	fillIntBuffer(e.buf, samples, e.quantize)
	if err := e.enc.Write(e.buf); err != nil {
		return fmt.Errorf("failed to write AIFF samples: %w", err)
	}
	return nil
}

// Close finalizes the FORM headers
func (e *AIFFEncoder) Close() error {
	if err := e.enc.Close(); err != nil {
		return fmt.Errorf("failed to finalize AIFF file: %w", err)
	}
	return nil
}
