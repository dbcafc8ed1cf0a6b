// ABOUTME: Sound file decoder package for multiple container support
// ABOUTME: Provides Decoder interface and implementations for WAV, AIFF, FLAC, MP3, Vorbis
// Package decode provides sound file decoders.
//
// Supports: WAV (PCM 8/16/24/32-bit and IEEE float), AIFF, FLAC, MP3, Ogg Vorbis
//
// All decoders implement the Decoder interface and output interleaved
// float32 samples normalized to [-1, 1).
//
// Example:
//
//	dec, err := decode.Open(file)
//	n, err := dec.Read(samples)
package decode
