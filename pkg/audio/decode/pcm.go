// ABOUTME: Integer PCM sample source shared by the WAV and AIFF decoders
// ABOUTME: Normalizes go-audio IntBuffer samples to float32
package decode

import (
	"errors"
	"fmt"
	"io"

	goaudio "github.com/go-audio/audio"
	"github.com/sndrelay/sndrelay-go/pkg/audio"
)

// pcmReader is the part of the go-audio decoders used for sample reads
type pcmReader interface {
	PCMBuffer(buf *goaudio.IntBuffer) (int, error)
}

// pcmSource adapts a go-audio decoder to Decoder
type pcmSource struct {
	dec       pcmReader
	format    audio.Format
	normalize func(int) float32
	buf       *goaudio.IntBuffer
	eof       bool
}

func newPCMSource(dec pcmReader, format audio.Format, normalize func(int) float32) *pcmSource {
	return &pcmSource{
		dec:       dec,
		format:    format,
		normalize: normalize,
		buf: &goaudio.IntBuffer{
			Format:         &goaudio.Format{NumChannels: format.Channels, SampleRate: format.SampleRate},
			SourceBitDepth: format.BitDepth,
		},
	}
}

// Format describes the decoded stream
func (s *pcmSource) Format() audio.Format {
	return s.format
}

// Read decodes up to len(samples) interleaved samples
func (s *pcmSource) Read(samples []float32) (int, error) {
	if s.eof {
		return 0, io.EOF
	}
	if len(samples) == 0 {
		return 0, nil
	}

	if cap(s.buf.Data) < len(samples) {
		s.buf.Data = make([]int, len(samples))
	}
	s.buf.Data = s.buf.Data[:len(samples)]

	n, err := s.dec.PCMBuffer(s.buf)
	if err != nil {
		if !errors.Is(err, io.EOF) {
			return 0, fmt.Errorf("failed to read PCM samples: %w", err)
		}
		s.eof = true
	}
	if n <= 0 {
		s.eof = true
		return 0, io.EOF
	}
	n = min(n, len(samples))

	for i := 0; i < n; i++ {
		samples[i] = s.normalize(s.buf.Data[i])
	}
	return n, nil
}

// Close releases decoder resources
func (s *pcmSource) Close() error {
	return nil
}

// scaleSigned normalizes a signed integer sample of any bit depth
func scaleSigned(v int, bitDepth int) float32 {
	return float32(float64(v) / float64(int64(1)<<(bitDepth-1)))
}
