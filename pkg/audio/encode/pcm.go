// ABOUTME: PCM sample quantization
// ABOUTME: Converts normalized float32 samples to integer PCM at a given bit depth
package encode

import (
	"fmt"
	"math"

	"github.com/sndrelay/sndrelay-go/pkg/audio"
)

// quantizer converts a normalized sample to the integer stored in a file
type quantizer func(float32) int

// newQuantizer returns the quantizer for a format.
// unsigned8 selects WAV's unsigned 8-bit encoding.
func newQuantizer(format audio.Format, unsigned8 bool) (quantizer, error) {
	if format.Float {
		if format.BitDepth != 32 {
			return nil, fmt.Errorf("%w: %d-bit float", ErrUnsupportedFormat, format.BitDepth)
		}
		return func(v float32) int {
			return int(int32(math.Float32bits(v)))
		}, nil
	}

	switch format.BitDepth {
	case 16:
		return func(v float32) int {
			return int(audio.Float32ToInt16(v))
		}, nil
	case 8, 24, 32:
		bitDepth := format.BitDepth
		offset := 0
		if bitDepth == 8 && unsigned8 {
			offset = 128
		}
		return func(v float32) int {
			return quantize(v, bitDepth) + offset
		}, nil
	default:
		return nil, fmt.Errorf("%w: %d-bit PCM", ErrUnsupportedFormat, format.BitDepth)
	}
}

// quantize scales v to a signed integer of bitDepth bits with clipping
func quantize(v float32, bitDepth int) int {
	scale := float64(int64(1) << (bitDepth - 1))
	x := float64(v) * scale
	if x >= scale-1 {
		return int(scale - 1)
	}
	if x <= -scale {
		return int(-scale)
	}
	return int(x)
}
