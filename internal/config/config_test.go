package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sndrelay.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefaultsAreValid(t *testing.T) {
	assert.Len(t, defaults, 13)
	for name := range defaults {
		p, err := Default(name)
		require.NoError(t, err, name)
		assert.NoError(t, p.Validate(), name)
	}
}

func TestDefaultValues(t *testing.T) {
	p, err := Default("port-blockrec")
	require.NoError(t, err)
	assert.Equal(t, 44100, p.BlockFrames)
	assert.Equal(t, 40, p.MaxBlocks)
	assert.Equal(t, 40*time.Second, p.TimeLimit)
	assert.Equal(t, 16, p.Record.BitDepth)

	p, err = Default("port-rec")
	require.NoError(t, err)
	assert.Equal(t, "PulseAudio", p.HostAPI)
	assert.Equal(t, 5, p.DeviceIndex)

	p, err = Default("pulse-play")
	require.NoError(t, err)
	assert.True(t, p.Latency.Enabled)
	assert.Equal(t, 20*time.Millisecond, p.Latency.Initial)
	assert.Equal(t, 6, p.Latency.Threshold)

	p, err = Default("pulse-write")
	require.NoError(t, err)
	assert.True(t, p.Record.Format().Float)
}

func TestDefaultUnknown(t *testing.T) {
	_, err := Default("cd-burn")
	assert.ErrorIs(t, err, ErrUnknownProgram)
}

func TestLoadOverlaysSection(t *testing.T) {
	path := writeConfig(t, `
port-blockplay:
  block_frames: 1024
  time_limit: 5s
pulse-play:
  device_index: -1
`)

	p, err := Load("port-blockplay", path)
	require.NoError(t, err)
	assert.Equal(t, 1024, p.BlockFrames)
	assert.Equal(t, 5*time.Second, p.TimeLimit)
	assert.Equal(t, -1, p.DeviceIndex, "unset fields keep defaults")

	p, err = Load("pulse-play", path)
	require.NoError(t, err)
	assert.Equal(t, -1, p.DeviceIndex)
	assert.True(t, p.Latency.Enabled)

	p, err = Load("sdl-play", path)
	require.NoError(t, err)
	assert.Equal(t, 1024, p.BlockFrames)
}

func TestLoadMissingFileKeepsDefaults(t *testing.T) {
	p, err := Load("ao-blockplay", filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 44100, p.BlockFrames)

	p, err = Load("sdl-read", "")
	require.NoError(t, err)
	assert.Equal(t, Int16, p.SampleFormat)
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"malformed", "port-write: [unclosed"},
		{"negative block", "port-write:\n  block_frames: -4\n"},
		{"bad sample format", "port-write:\n  sample_format: int24\n"},
		{"fixed sample format", "port-write:\n  sample_format: float32\n"},
		{"bad duration", "port-write:\n  time_limit: soon\n"},
		{"bad device index", "port-write:\n  device_index: -7\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load("port-write", writeConfig(t, tt.body))
			assert.Error(t, err)
		})
	}
}

func TestLoadSampleFormatOverride(t *testing.T) {
	path := writeConfig(t, "sdl-play:\n  sample_format: int16\nsdl-read:\n  sample_format: int8\n")

	p, err := Load("sdl-play", path)
	require.NoError(t, err)
	assert.Equal(t, Int16, p.SampleFormat)

	_, err = Load("sdl-read", path)
	assert.Error(t, err)
}

func TestFromEnv(t *testing.T) {
	t.Setenv(PathEnv, writeConfig(t, "sdl-read:\n  block_frames: 512\n"))
	p, err := FromEnv("sdl-read")
	require.NoError(t, err)
	assert.Equal(t, 512, p.BlockFrames)
}
