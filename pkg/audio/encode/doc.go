// ABOUTME: Sound file encoder package for writing recorded audio
// ABOUTME: Provides Encoder interface and implementations for WAV and AIFF
// Package encode provides sound file encoders.
//
// Supports: WAV (PCM 8/16/24/32-bit and 32-bit IEEE float), AIFF (PCM)
//
// All encoders accept interleaved float32 samples in [-1, 1) and
// quantize them to the file's sample format.
//
// Example:
//
//	enc, err := encode.NewWAV(file, audio.Format{SampleRate: 44100, Channels: 2, BitDepth: 16})
//	err = enc.Write(samples)
//	err = enc.Close()
package encode
