// ABOUTME: WAV sound file encoder
// ABOUTME: Writes integer PCM or IEEE float WAV files via go-audio/wav
package encode

import (
	"fmt"
	"io"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/sndrelay/sndrelay-go/pkg/audio"
)

// WAV format tags
const (
	wavFormatPCM   = 1
	wavFormatFloat = 3
)

// WAVEncoder writes WAV files
type WAVEncoder struct {
	enc      *wav.Encoder
	format   audio.Format
	quantize quantizer
	buf      *goaudio.IntBuffer
}

// NewWAV creates a WAV encoder writing to w
func NewWAV(w io.WriteSeeker, format audio.Format) (Encoder, error) {
	if err := format.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedFormat, err)
	}

	q, err := newQuantizer(format, true)
	if err != nil {
		return nil, err
	}

	tag := wavFormatPCM
	if format.Float {
		tag = wavFormatFloat
	}
	format.Codec = "wav"

	return &WAVEncoder{
		enc:      wav.NewEncoder(w, format.SampleRate, format.BitDepth, format.Channels, tag),
		format:   format,
		quantize: q,
		buf: &goaudio.IntBuffer{
			Format:         &goaudio.Format{NumChannels: format.Channels, SampleRate: format.SampleRate},
			SourceBitDepth: format.BitDepth,
		},
	}, nil
}

// Format describes the file being written
func (e *WAVEncoder) Format() audio.Format {
	return e.format
}

// Write appends whole frames from samples
func (e *WAVEncoder) Write(samples []float32) error {
	if len(samples) == 0 {
		return nil
	}
	fillIntBuffer(e.buf, samples, e.quantize)
	if err := e.enc.Write(e.buf); err != nil {
		return fmt.Errorf("failed to write WAV samples: %w", err)
	}
	return nil
}

// Close finalizes the RIFF headers
func (e *WAVEncoder) Close() error {
	if err := e.enc.Close(); err != nil {
		return fmt.Errorf("failed to finalize WAV file: %w", err)
	}
	return nil
}

// fillIntBuffer quantizes samples into buf, reusing its storage
func fillIntBuffer(buf *goaudio.IntBuffer, samples []float32, q quantizer) {
	if cap(buf.Data) < len(samples) {
		buf.Data = make([]int, len(samples))
	}
	buf.Data = buf.Data[:len(samples)]
	for i, v := range samples {
		buf.Data[i] = q(v)
	}
}
