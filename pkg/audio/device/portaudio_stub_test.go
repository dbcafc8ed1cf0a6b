//go:build !portaudio

package device

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPortAudioStub(t *testing.T) {
	_, err := PortAudioHostAPIs()
	assert.ErrorIs(t, err, ErrNotEnabled)

	_, err = PortAudioDevices(nil, true)
	assert.ErrorIs(t, err, ErrNotEnabled)

	_, err = DefaultPortAudioDevice(false)
	assert.ErrorIs(t, err, ErrNotEnabled)

	_, err = ResolvePortAudio("PulseAudio", 5, true, nil, nil)
	assert.ErrorIs(t, err, ErrNotEnabled)
}
