//go:build !portaudio

package input

import (
	"testing"

	"github.com/sndrelay/sndrelay-go/pkg/audio"
	"github.com/stretchr/testify/assert"
)

func TestPortAudioStubs(t *testing.T) {
	format := audio.Format{SampleRate: 44100, Channels: 2, BitDepth: 16}

	b := NewPortAudioBlocking(PortAudioOptions{FramesPerBuffer: 44100})
	assert.ErrorIs(t, b.Open(format), ErrNotEnabled)
	_, err := b.Pull(make([]int16, 8), 4)
	assert.ErrorIs(t, err, ErrNotEnabled)
	assert.NoError(t, b.Close())

	c := NewPortAudioCallback(PortAudioOptions{ClipOff: true})
	assert.ErrorIs(t, c.Open(format), ErrNotEnabled)
	assert.ErrorIs(t, c.Start(nil), ErrNotEnabled)
	assert.NoError(t, c.Close())
}
