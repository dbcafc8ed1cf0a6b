// ABOUTME: Tests for audio types
// ABOUTME: Tests format arithmetic and sample conversion functions
package audio

import (
	"testing"
	"time"
)

func TestInt16ToFloat32(t *testing.T) {
	tests := []struct {
		name     string
		input    int16
		expected float32
	}{
		{"zero", 0, 0},
		{"half", 16384, 0.5},
		{"negative half", -16384, -0.5},
		{"min", -32768, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Int16ToFloat32(tt.input)
			if result != tt.expected {
				t.Errorf("expected %v, got %v", tt.expected, result)
			}
		})
	}
}

func TestFloat32ToInt16(t *testing.T) {
	tests := []struct {
		name     string
		input    float32
		expected int16
	}{
		{"zero", 0, 0},
		{"full scale", 1, MaxInt16},
		{"clip positive", 1.5, MaxInt16},
		{"clip negative", -2, MinInt16},
		{"half", 0.5, 16384},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Float32ToInt16(tt.input)
			if result != tt.expected {
				t.Errorf("expected %d, got %d", tt.expected, result)
			}
		})
	}
}

func TestInt16RoundTrip(t *testing.T) {
	for _, v := range []int16{MinInt16, -1, 0, 1, 12345, MaxInt16} {
		if got := Float32ToInt16(Int16ToFloat32(v)); got != v {
			t.Errorf("round trip of %d gave %d", v, got)
		}
	}
}

func TestNormalizeInt(t *testing.T) {
	if v := NormalizeInt(128, 8); v != 0 {
		t.Errorf("8-bit midpoint should be 0, got %v", v)
	}
	if v := NormalizeInt(-8388608, 24); v != -1 {
		t.Errorf("24-bit min should be -1, got %v", v)
	}
	if v := NormalizeInt(1<<19, 20); v != 1 {
		t.Errorf("20-bit overflow value should scale to 1, got %v", v)
	}
}

func TestFormatSizes(t *testing.T) {
	f := Format{SampleRate: 44100, Channels: 2, BitDepth: 16}
	if f.FrameSize() != 4 {
		t.Errorf("expected frame size 4, got %d", f.FrameSize())
	}

	f.Float = true
	f.BitDepth = 32
	if f.FrameSize() != 8 {
		t.Errorf("expected float frame size 8, got %d", f.FrameSize())
	}

	// 20ms of 44.1kHz stereo float
	if got := f.DurationToBytes(20 * time.Millisecond); got != 882*8 {
		t.Errorf("expected %d bytes, got %d", 882*8, got)
	}
}

func TestFormatValidate(t *testing.T) {
	if err := (Format{SampleRate: 44100, Channels: 2}).Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := (Format{SampleRate: 0, Channels: 2}).Validate(); err == nil {
		t.Error("expected error for zero sample rate")
	}
	if err := (Format{SampleRate: 44100}).Validate(); err == nil {
		t.Error("expected error for zero channels")
	}
}

func TestSampleSize(t *testing.T) {
	if SampleSize[int16]() != 2 {
		t.Error("int16 should be 2 bytes")
	}
	if SampleSize[float32]() != 4 {
		t.Error("float32 should be 4 bytes")
	}
}

func TestSliceConversionsStopAtShorter(t *testing.T) {
	dst := make([]float32, 2)
	n := Int16ToFloat32Slice(dst, []int16{16384, -16384, 1})
	if n != 2 || dst[0] != 0.5 || dst[1] != -0.5 {
		t.Errorf("unexpected conversion: n=%d dst=%v", n, dst)
	}

	out := make([]int16, 3)
	n = Float32ToInt16Slice(out, []float32{1})
	if n != 1 || out[0] != MaxInt16 {
		t.Errorf("unexpected conversion: n=%d out=%v", n, out)
	}
}
