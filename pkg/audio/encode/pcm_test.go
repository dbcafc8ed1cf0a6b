// ABOUTME: Unit tests for PCM quantization
// ABOUTME: Tests bit depth selection, clipping and float passthrough
package encode

import (
	"math"
	"testing"

	"github.com/sndrelay/sndrelay-go/pkg/audio"
)

func TestNewQuantizer(t *testing.T) {
	tests := []struct {
		name    string
		format  audio.Format
		wantErr bool
	}{
		{"16-bit PCM", audio.Format{BitDepth: 16}, false},
		{"24-bit PCM", audio.Format{BitDepth: 24}, false},
		{"8-bit PCM", audio.Format{BitDepth: 8}, false},
		{"32-bit float", audio.Format{BitDepth: 32, Float: true}, false},
		{"64-bit float", audio.Format{BitDepth: 64, Float: true}, true},
		{"12-bit PCM", audio.Format{BitDepth: 12}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := newQuantizer(tt.format, true)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if q == nil {
				t.Fatal("expected quantizer")
			}
		})
	}
}

func TestQuantizeClips(t *testing.T) {
	if got := quantize(2, 24); got != 8388607 {
		t.Errorf("expected 24-bit max, got %d", got)
	}
	if got := quantize(-2, 24); got != -8388608 {
		t.Errorf("expected 24-bit min, got %d", got)
	}
	if got := quantize(0.5, 8); got != 64 {
		t.Errorf("expected 64, got %d", got)
	}
}

func TestQuantizerWAV8IsUnsigned(t *testing.T) {
	q, err := newQuantizer(audio.Format{BitDepth: 8}, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := q(0); got != 128 {
		t.Errorf("expected silence at 128, got %d", got)
	}

	q, err = newQuantizer(audio.Format{BitDepth: 8}, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := q(0); got != 0 {
		t.Errorf("expected signed silence at 0, got %d", got)
	}
}

func TestQuantizerFloatKeepsBits(t *testing.T) {
	q, err := newQuantizer(audio.Format{BitDepth: 32, Float: true}, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	v := float32(-0.25)
	if got := math.Float32frombits(uint32(int32(q(v)))); got != v {
		t.Errorf("expected %v, got %v", v, got)
	}
}
