// ABOUTME: Audio fundamentals package providing core types and utilities
// ABOUTME: Defines Format, the Sample constraint and sample conversion functions
// Package audio provides the audio types shared by the file and device adapters.
//
// This package defines:
//   - Format: describes a stream (codec, sample rate, channels, bit depth, float)
//   - Sample: the int16 | float32 constraint used by generic block transfers
//
// It also provides conversions between 16-bit and float samples and
// duration to frame/byte arithmetic used when sizing device buffers.
//
// Example:
//
//	format := audio.Format{
//	    Codec:      "wav",
//	    SampleRate: 44100,
//	    Channels:   2,
//	    BitDepth:   16,
//	}
//
//	bytes := format.DurationToBytes(20 * time.Millisecond)
package audio
