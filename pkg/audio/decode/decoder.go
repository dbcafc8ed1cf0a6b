// ABOUTME: Decoder interface definition and container sniffing
// ABOUTME: Opens WAV, AIFF, FLAC, MP3, Ogg Vorbis and Ogg Opus streams behind one interface
package decode

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/sndrelay/sndrelay-go/pkg/audio"
)

// Decoder decodes a sound file into normalized interleaved float32 samples
type Decoder interface {
	// Format describes the decoded stream
	Format() audio.Format

	// Read decodes up to len(samples) interleaved samples.
	// It returns 0 and io.EOF once the stream is exhausted.
	Read(samples []float32) (int, error)

	// Close releases decoder resources. The underlying reader is not closed.
	Close() error
}

// Codec names returned by Sniff
const (
	CodecWAV    = "wav"
	CodecAIFF   = "aiff"
	CodecFLAC   = "flac"
	CodecMP3    = "mp3"
	CodecVorbis = "vorbis"
	CodecOpus   = "opus"
)

// sniffLength is how much of a file Sniff needs to tell every container apart
const sniffLength = 64

// Sniff identifies a container from the first bytes of a file.
// It returns an empty string when the header is not recognized.
func Sniff(header []byte) string {
	switch {
	case len(header) >= 12 && bytes.Equal(header[0:4], []byte("RIFF")) && bytes.Equal(header[8:12], []byte("WAVE")):
		return CodecWAV
	case len(header) >= 12 && bytes.Equal(header[0:4], []byte("FORM")) &&
		(bytes.Equal(header[8:12], []byte("AIFF")) || bytes.Equal(header[8:12], []byte("AIFC"))):
		return CodecAIFF
	case bytes.HasPrefix(header, []byte("fLaC")):
		return CodecFLAC
	case bytes.HasPrefix(header, []byte("OggS")):
		if _, ok := opusChannels(header); ok {
			return CodecOpus
		}
		return CodecVorbis
	case bytes.HasPrefix(header, []byte("ID3")):
		return CodecMP3
	case len(header) >= 2 && header[0] == 0xFF && header[1]&0xE0 == 0xE0:
		return CodecMP3
	}
	return ""
}

// Open sniffs the container of r and returns a matching decoder
func Open(r io.ReadSeeker) (Decoder, error) {
	var header [sniffLength]byte
	n, err := io.ReadFull(r, header[:])
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to read file header: %w", err)
	}
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("failed to rewind file: %w", err)
	}

	switch codec := Sniff(header[:n]); codec {
	case CodecOpus:
		channels, _ := opusChannels(header[:n])
		return NewOpus(r, channels)
	case CodecWAV:
		return NewWAV(r)
	case CodecAIFF:
		return NewAIFF(r)
	case CodecFLAC:
		return NewFLAC(r)
	case CodecMP3:
		return NewMP3(r)
	case CodecVorbis:
		return NewVorbis(r)
	default:
		return nil, ErrUnknownFormat
	}
}
