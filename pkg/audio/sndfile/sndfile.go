// ABOUTME: Frame-oriented sound file access for the block relay
// ABOUTME: Wraps the decoders and encoders with fixed-size float32 and int16 transfers
package sndfile

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sndrelay/sndrelay-go/pkg/audio"
	"github.com/sndrelay/sndrelay-go/pkg/audio/decode"
	"github.com/sndrelay/sndrelay-go/pkg/audio/encode"
)

// File is an open sound file
type File struct {
	path    string
	file    *os.File
	dec     decode.Decoder
	enc     encode.Encoder
	format  audio.Format
	scratch []float32
	frames  int64
	closed  bool
}

// Open opens path for reading and detects its container
func Open(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sound file: %w", err)
	}

	dec, err := decode.Open(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to read %s: %w", filepath.Base(path), err)
	}

	format := dec.Format()
	if err := format.Validate(); err != nil {
		dec.Close()
		f.Close()
		return nil, fmt.Errorf("failed to read %s: %w", filepath.Base(path), err)
	}

	return &File{
		path:   path,
		file:   f,
		dec:    dec,
		format: format,
	}, nil
}

// Create creates path for writing. Files ending in .aif or .aiff are written
// as AIFF, everything else as WAV.
func Create(path string, format audio.Format) (*File, error) {
	newEncoder := encode.NewWAV
	switch strings.ToLower(filepath.Ext(path)) {
	case ".aif", ".aiff":
		newEncoder = encode.NewAIFF
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create sound file: %w", err)
	}

	enc, err := newEncoder(f, format)
	if err != nil {
		f.Close()
		os.Remove(path)
		return nil, fmt.Errorf("failed to create %s: %w", filepath.Base(path), err)
	}

	return &File{
		path:   path,
		file:   f,
		enc:    enc,
		format: enc.Format(),
	}, nil
}

// Path returns the file's path
func (f *File) Path() string {
	return f.path
}

// Format describes the file's samples
func (f *File) Format() audio.Format {
	return f.format
}

// Frames returns the number of frames transferred so far
func (f *File) Frames() int64 {
	return f.frames
}

// ReadFloat32 reads up to frames frames into buf. It returns 0 at end of file.
func (f *File) ReadFloat32(buf []float32, frames int) (int, error) {
	if err := f.readable(); err != nil {
		return 0, err
	}

	channels := f.format.Channels
	want := min(frames, len(buf)/channels) * channels
	got := 0
	for got < want {
		n, err := f.dec.Read(buf[got:want])
		got += n
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return got / channels, fmt.Errorf("failed to read %s: %w", filepath.Base(f.path), err)
		}
		if n == 0 {
			break
		}
	}

	n := got / channels
	f.frames += int64(n)
	return n, nil
}

// ReadInt16 reads up to frames frames into buf as 16-bit samples
func (f *File) ReadInt16(buf []int16, frames int) (int, error) {
	frames = min(frames, len(buf)/f.format.Channels)
	scratch := f.scratchFor(frames)

	n, err := f.ReadFloat32(scratch, frames)
	audio.Float32ToInt16Slice(buf, scratch[:n*f.format.Channels])
	return n, err
}

// WriteFloat32 writes frames frames from buf
func (f *File) WriteFloat32(buf []float32, frames int) (int, error) {
	if err := f.writable(); err != nil {
		return 0, err
	}

	frames = min(frames, len(buf)/f.format.Channels)
	if frames <= 0 {
		return 0, nil
	}
	if err := f.enc.Write(buf[:frames*f.format.Channels]); err != nil {
		return 0, fmt.Errorf("failed to write %s: %w", filepath.Base(f.path), err)
	}

	f.frames += int64(frames)
	return frames, nil
}

// WriteInt16 writes frames frames of 16-bit samples from buf
func (f *File) WriteInt16(buf []int16, frames int) (int, error) {
	frames = min(frames, len(buf)/f.format.Channels)
	scratch := f.scratchFor(frames)
	audio.Int16ToFloat32Slice(scratch, buf[:frames*f.format.Channels])
	return f.WriteFloat32(scratch, frames)
}

// Close finalizes and closes the file. A second call returns ErrClosed.
func (f *File) Close() error {
	if f.closed {
		return ErrClosed
	}
	f.closed = true

	var errs []error
	if f.dec != nil {
		errs = append(errs, f.dec.Close())
	}
	if f.enc != nil {
		errs = append(errs, f.enc.Close())
	}
	if err := f.file.Close(); err != nil {
		errs = append(errs, fmt.Errorf("failed to close %s: %w", filepath.Base(f.path), err))
	}
	return errors.Join(errs...)
}

func (f *File) readable() error {
	if f.closed {
		return ErrClosed
	}
	if f.dec == nil {
		return ErrWriteOnly
	}
	return nil
}

func (f *File) writable() error {
	if f.closed {
		return ErrClosed
	}
	if f.enc == nil {
		return ErrReadOnly
	}
	return nil
}

// scratchFor returns a float buffer holding frames frames, grown only when needed
func (f *File) scratchFor(frames int) []float32 {
	n := max(frames, 0) * f.format.Channels
	if cap(f.scratch) < n {
		f.scratch = make([]float32, n)
	}
	return f.scratch[:n]
}
