// ABOUTME: Audio type definitions
// ABOUTME: Defines stream formats, the sample constraint and sample conversions
package audio

import (
	"fmt"
	"time"
)

const (
	// Int16 full-scale constants
	MaxInt16 = 32767
	MinInt16 = -32768
)

// Sample is the set of interleaved sample types moved between files and devices
type Sample interface {
	~int16 | ~float32
}

// Format describes an audio stream format
type Format struct {
	Codec      string // Container or codec name: wav, aiff, flac, mp3, vorbis
	SampleRate int
	Channels   int
	BitDepth   int
	Float      bool // IEEE float samples (BitDepth is 32)
}

// Validate reports whether the format can describe a stream
func (f Format) Validate() error {
	if f.SampleRate <= 0 {
		return fmt.Errorf("invalid sample rate: %d", f.SampleRate)
	}
	if f.Channels <= 0 {
		return fmt.Errorf("invalid channel count: %d", f.Channels)
	}
	return nil
}

// BytesPerSample returns the size of one sample in bytes
func (f Format) BytesPerSample() int {
	if f.Float {
		return 4
	}
	return (f.BitDepth + 7) / 8
}

// FrameSize returns the size of one interleaved frame in bytes
func (f Format) FrameSize() int {
	return f.BytesPerSample() * f.Channels
}

// DurationToFrames converts a duration to whole frames at the format's rate
func (f Format) DurationToFrames(d time.Duration) int {
	return int(int64(d) * int64(f.SampleRate) / int64(time.Second))
}

// DurationToBytes converts a duration to a byte length rounded down to whole frames
func (f Format) DurationToBytes(d time.Duration) int {
	return f.DurationToFrames(d) * f.FrameSize()
}

func (f Format) String() string {
	kind := "int"
	if f.Float {
		kind = "float"
	}
	return fmt.Sprintf("%s %dHz %dch %d-bit %s", f.Codec, f.SampleRate, f.Channels, f.BitDepth, kind)
}

// SampleSize returns the in-memory size of S in bytes
func SampleSize[S Sample]() int {
	var zero S
	switch any(zero).(type) {
	case float32:
		return 4
	default:
		return 2
	}
}

// Int16ToFloat32 converts a 16-bit sample to the [-1, 1) float range
func Int16ToFloat32(s int16) float32 {
	return float32(s) / 32768
}

// Float32ToInt16 converts a float sample to 16-bit with clipping.
// It is the exact inverse of Int16ToFloat32.
func Float32ToInt16(s float32) int16 {
	v := s * 32768
	if v >= MaxInt16 {
		return MaxInt16
	}
	if v <= MinInt16 {
		return MinInt16
	}
	return int16(v)
}

// NormalizeInt scales an integer sample of the given bit depth to [-1, 1)
func NormalizeInt(v int, bitDepth int) float32 {
	switch bitDepth {
	case 8:
		// 8-bit PCM in WAV is unsigned
		return float32(v-128) / 128
	case 16:
		return float32(v) / 32768
	case 24:
		return float32(v) / 8388608
	case 32:
		return float32(float64(v) / 2147483648)
	default:
		if bitDepth <= 0 {
			return 0
		}
		return float32(float64(v) / float64(int64(1)<<(bitDepth-1)))
	}
}

// Int16ToFloat32Slice converts src into dst and returns the number converted
func Int16ToFloat32Slice(dst []float32, src []int16) int {
	n := min(len(dst), len(src))
	for i := 0; i < n; i++ {
		dst[i] = Int16ToFloat32(src[i])
	}
	return n
}

// Float32ToInt16Slice converts src into dst and returns the number converted
func Float32ToInt16Slice(dst []int16, src []float32) int {
	n := min(len(dst), len(src))
	for i := 0; i < n; i++ {
		dst[i] = Float32ToInt16(src[i])
	}
	return n
}
