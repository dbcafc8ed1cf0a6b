// ABOUTME: Tests for container sniffing and decoder selection
// ABOUTME: Covers magic byte detection and error paths for malformed files
package decode

import (
	"bytes"
	"errors"
	"io"
	"testing"

	goaudio "github.com/go-audio/audio"
	"github.com/sndrelay/sndrelay-go/pkg/audio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// oggOpusHeader is the start of an Ogg Opus file with channels channels
func oggOpusHeader(channels byte) []byte {
	header := append([]byte("OggS"), make([]byte, 24)...)
	header = append(header, "OpusHead"...)
	return append(header, 1, channels)
}

func TestSniff(t *testing.T) {
	tests := []struct {
		name   string
		header []byte
		codec  string
	}{
		{"wav", []byte("RIFF\x24\x00\x00\x00WAVE"), CodecWAV},
		{"aiff", []byte("FORM\x00\x00\x00\x00AIFF"), CodecAIFF},
		{"aifc", []byte("FORM\x00\x00\x00\x00AIFC"), CodecAIFF},
		{"flac", []byte("fLaC\x00\x00\x00\x22"), CodecFLAC},
		{"ogg", []byte("OggS\x00\x02"), CodecVorbis},
		{"ogg opus", oggOpusHeader(2), CodecOpus},
		{"mp3 with id3", []byte("ID3\x04\x00"), CodecMP3},
		{"mp3 frame sync", []byte{0xFF, 0xFB, 0x90, 0x64}, CodecMP3},
		{"riff but not wave", []byte("RIFF\x24\x00\x00\x00AVI "), ""},
		{"text", []byte("hello world!"), ""},
		{"empty", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.codec, Sniff(tt.header))
		})
	}
}

func TestOpenUnknownFormat(t *testing.T) {
	_, err := Open(bytes.NewReader([]byte("This is not audio data")))
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestOpenShortFile(t *testing.T) {
	_, err := Open(bytes.NewReader([]byte("RIF")))
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestOpusChannels(t *testing.T) {
	channels, ok := opusChannels(oggOpusHeader(2))
	assert.True(t, ok)
	assert.Equal(t, 2, channels)

	_, ok = opusChannels([]byte("OggS\x00\x02"))
	assert.False(t, ok, "too short for an identification header")
}

func TestOpenOpusRejectsChannelCount(t *testing.T) {
	dec, err := Open(bytes.NewReader(oggOpusHeader(6)))
	assert.ErrorIs(t, err, ErrInvalidFile)
	assert.Nil(t, dec)
}

func TestOpenMalformed(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"wav", []byte("RIFF\x04\x00\x00\x00WAVEjunk")},
		{"flac", []byte("fLaC\x00\x00")},
		{"ogg", []byte("OggS\x00\x02garbage")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dec, err := Open(bytes.NewReader(tt.data))
			assert.Error(t, err)
			assert.Nil(t, dec)
		})
	}
}

// mockPCMReader serves fixed integer samples, optionally returning io.EOF with the last batch
type mockPCMReader struct {
	samples     []int
	offset      int
	eofWithData bool
	err         error
}

func pcmFormat(bitDepth int) audio.Format {
	return audio.Format{SampleRate: 44100, Channels: 2, BitDepth: bitDepth}
}

func (m *mockPCMReader) PCMBuffer(buf *goaudio.IntBuffer) (int, error) {
	if m.err != nil {
		return 0, m.err
	}
	if m.offset >= len(m.samples) {
		return 0, io.EOF
	}
	n := copy(buf.Data, m.samples[m.offset:])
	m.offset += n
	if m.eofWithData && m.offset >= len(m.samples) {
		return n, io.EOF
	}
	return n, nil
}

func TestPCMSourceNormalizes(t *testing.T) {
	src := newPCMSource(&mockPCMReader{samples: []int{16384, -16384, 0, 32767}},
		pcmFormat(16), func(v int) float32 { return scaleSigned(v, 16) })

	out := make([]float32, 8)
	n, err := src.Read(out)
	require.NoError(t, err)
	require.Equal(t, 4, n)
	assert.Equal(t, []float32{0.5, -0.5, 0}, out[:3])

	n, err = src.Read(out)
	assert.Equal(t, 0, n)
	assert.ErrorIs(t, err, io.EOF)
}

func TestPCMSourceEOFWithData(t *testing.T) {
	src := newPCMSource(&mockPCMReader{samples: []int{1, 2}, eofWithData: true},
		pcmFormat(16), func(v int) float32 { return float32(v) })

	out := make([]float32, 4)
	n, err := src.Read(out)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = src.Read(out)
	assert.Equal(t, 0, n)
	assert.ErrorIs(t, err, io.EOF)
}

func TestPCMSourceReadError(t *testing.T) {
	boom := errors.New("disk on fire")
	src := newPCMSource(&mockPCMReader{err: boom}, pcmFormat(16), func(v int) float32 { return 0 })

	_, err := src.Read(make([]float32, 4))
	assert.ErrorIs(t, err, boom)
}

func TestScaleSigned(t *testing.T) {
	assert.Equal(t, float32(-1), scaleSigned(-128, 8))
	assert.Equal(t, float32(0.5), scaleSigned(1<<22, 24))
	assert.Equal(t, float32(-1), scaleSigned(-2048, 12))
}
