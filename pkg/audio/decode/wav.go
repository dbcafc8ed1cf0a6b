// ABOUTME: WAV sound file decoder
// ABOUTME: Decodes integer PCM and IEEE float WAV files via go-audio/wav
package decode

import (
	"fmt"
	"io"
	"math"

	"github.com/go-audio/wav"
	"github.com/sndrelay/sndrelay-go/pkg/audio"
)

// WAV format tag for IEEE float samples
const wavFormatFloat = 3

// WAVDecoder decodes WAV files
type WAVDecoder struct {
	*pcmSource
}

// NewWAV creates a WAV decoder positioned at the first sample
func NewWAV(r io.ReadSeeker) (Decoder, error) {
	d := wav.NewDecoder(r)
	if !d.IsValidFile() {
		return nil, fmt.Errorf("%w: not a readable WAV file", ErrInvalidFile)
	}
	if err := d.FwdToPCM(); err != nil {
		return nil, fmt.Errorf("failed to locate WAV sample data: %w", err)
	}

	format := audio.Format{
		Codec:      CodecWAV,
		SampleRate: int(d.SampleRate),
		Channels:   int(d.NumChans),
		BitDepth:   int(d.BitDepth),
		Float:      d.WavAudioFormat == wavFormatFloat,
	}

	normalize, err := wavNormalizer(format)
	if err != nil {
		return nil, err
	}

	return &WAVDecoder{pcmSource: newPCMSource(d, format, normalize)}, nil
}

func wavNormalizer(format audio.Format) (func(int) float32, error) {
	if format.Float {
		if format.BitDepth != 32 {
			return nil, fmt.Errorf("%w: %d-bit float WAV", ErrUnsupportedBitDepth, format.BitDepth)
		}
		return func(v int) float32 {
			return math.Float32frombits(uint32(int32(v)))
		}, nil
	}

	switch format.BitDepth {
	case 8, 16, 24, 32:
		bitDepth := format.BitDepth
		return func(v int) float32 {
			return audio.NormalizeInt(v, bitDepth)
		}, nil
	default:
		return nil, fmt.Errorf("%w: %d-bit PCM WAV", ErrUnsupportedBitDepth, format.BitDepth)
	}
}
