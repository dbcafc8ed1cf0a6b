// ABOUTME: AIFF sound file decoder
// ABOUTME: Decodes big-endian integer PCM AIFF files via go-audio/aiff
package decode

import (
	"fmt"
	"io"

	"github.com/go-audio/aiff"
	"github.com/sndrelay/sndrelay-go/pkg/audio"
)

// AIFFDecoder decodes AIFF files
type AIFFDecoder struct {
	*pcmSource
}

// NewAIFF creates an AIFF decoder
func NewAIFF(r io.ReadSeeker) (Decoder, error) {
	d := aiff.NewDecoder(r)
	if !d.IsValidFile() {
		return nil, fmt.Errorf("%w: not a readable AIFF file", ErrInvalidFile)
	}
	d.ReadInfo()

	f := d.Format()
	if f == nil {
		return nil, fmt.Errorf("%w: missing AIFF common chunk", ErrInvalidFile)
	}

	bitDepth := int(d.BitDepth)
	if bitDepth < 8 || bitDepth > 32 {
		return nil, fmt.Errorf("%w: %d-bit AIFF", ErrUnsupportedBitDepth, bitDepth)
	}

	format := audio.Format{
		Codec:      CodecAIFF,
		SampleRate: f.SampleRate,
		Channels:   f.NumChannels,
		BitDepth:   bitDepth,
	}

	// AIFF samples are signed at every bit depth
	normalize := func(v int) float32 {
		return scaleSigned(v, bitDepth)
	}

	return &AIFFDecoder{pcmSource: newPCMSource(d, format, normalize)}, nil
}
