package app

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"syscall"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sndrelay/sndrelay-go/internal/config"
	"github.com/sndrelay/sndrelay-go/pkg/audio"
	"github.com/sndrelay/sndrelay-go/pkg/audio/sndfile"
)

func testOptions() Options {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return Options{
		Stdout:  io.Discard,
		Stderr:  io.Discard,
		Logger:  logger,
		Signals: []os.Signal{syscall.SIGUSR1},
	}
}

// writeTone writes a mono 16-bit WAV of frames frames counting up from 1
func writeTone(t *testing.T, frames int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tone.wav")
	f, err := sndfile.Create(path, audio.Format{SampleRate: 44100, Channels: 1, BitDepth: 16})
	require.NoError(t, err)
	buf := make([]int16, frames)
	for i := range buf {
		buf[i] = int16(i%1000 + 1)
	}
	_, err = f.WriteInt16(buf, frames)
	require.NoError(t, err)
	require.NoError(t, f.Close())
	return path
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"success", nil, ExitOK},
		{"open failure", ErrOpenFile, ExitOpenFile},
		{"wrapped open failure", errors.Join(errors.New("x"), ErrOpenFile), ExitOpenFile},
		{"backend", ErrBackend, ExitFailure},
		{"usage", ErrUsage, ExitFailure},
		{"other", errors.New("boom"), ExitFailure},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExitCode(tt.err))
		})
	}
}

func TestMainUsage(t *testing.T) {
	run := func(ctx context.Context, env *Env) error {
		t.Fatal("run must not be called")
		return nil
	}

	var stderr bytes.Buffer
	opts := testOptions()
	opts.Stderr = &stderr

	assert.Equal(t, ExitFailure, MainWithOptions("ao-blockplay", nil, run, opts))
	assert.Contains(t, stderr.String(), "usage: ao-blockplay")

	assert.Equal(t, ExitFailure, MainWithOptions("ao-blockplay", []string{"a.wav", "b.wav"}, run, opts))
	assert.Equal(t, ExitFailure, MainWithOptions("ao-blockplay", []string{"-bogus", "a.wav"}, run, opts))
}

func TestMainUnknownProgram(t *testing.T) {
	code := MainWithOptions("tape-deck", []string{"a.wav"}, func(ctx context.Context, env *Env) error {
		return nil
	}, testOptions())
	assert.Equal(t, ExitFailure, code)
}

func TestMainMissingFile(t *testing.T) {
	out := &fakeOutput[int16]{}
	code := MainWithOptions("ao-blockplay", []string{filepath.Join(t.TempDir(), "missing.wav")},
		func(ctx context.Context, env *Env) error {
			return PlayBlocking[int16](ctx, env, out)
		}, testOptions())

	assert.Equal(t, ExitOpenFile, code)
	assert.Equal(t, 0, out.Closed(), "device is never opened")
}

func TestMainPlaysFile(t *testing.T) {
	path := writeTone(t, 44100+300)
	out := &fakeOutput[int16]{}

	var env *Env
	code := MainWithOptions("ao-blockplay", []string{path}, func(ctx context.Context, e *Env) error {
		env = e
		return PlayBlocking[int16](ctx, e, out)
	}, testOptions())

	assert.Equal(t, ExitOK, code)
	assert.Equal(t, path, env.Path)
	assert.Equal(t, 1, out.Closed())
	assert.Equal(t, []int{44100, 300}, out.Writes())
	assert.Equal(t, audio.Format{Codec: "pcm", SampleRate: 44100, Channels: 1, BitDepth: 16}, out.format)
}

func TestMainBackendFailure(t *testing.T) {
	path := writeTone(t, 100)
	out := &fakeOutput[int16]{OpenErr: errors.New("no device")}

	code := MainWithOptions("ao-blockplay", []string{path}, func(ctx context.Context, env *Env) error {
		return PlayBlocking[int16](ctx, env, out)
	}, testOptions())

	assert.Equal(t, ExitFailure, code)
	assert.Equal(t, 0, out.Closed(), "a device that failed to open is not closed")
}

func TestMainWriteFailureExitsCleanly(t *testing.T) {
	path := writeTone(t, 100)
	out := &fakeOutput[int16]{}
	out.ErrorOnCall = errors.New("device unplugged")

	code := MainWithOptions("ao-blockplay", []string{path}, func(ctx context.Context, env *Env) error {
		return PlayBlocking[int16](ctx, env, out)
	}, testOptions())

	assert.Equal(t, ExitOK, code)
	assert.Equal(t, 1, out.Closed())
}

func TestMainInterrupt(t *testing.T) {
	var interrupted bool
	code := MainWithOptions("pulse-read", []string{"unused.wav"}, func(ctx context.Context, env *Env) error {
		if err := syscall.Kill(syscall.Getpid(), syscall.SIGUSR1); err != nil {
			return err
		}
		select {
		case <-ctx.Done():
		case <-time.After(5 * time.Second):
			return errors.New("signal not delivered")
		}
		interrupted = env.Interrupt.IsSet()
		return nil
	}, testOptions())

	assert.Equal(t, ExitOK, code)
	assert.True(t, interrupted)
}

func TestMainTimeLimitFromConfig(t *testing.T) {
	cfg := filepath.Join(t.TempDir(), "sndrelay.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("pulse-read:\n  time_limit: 20ms\n"), 0o644))
	t.Setenv(config.PathEnv, cfg)

	start := time.Now()
	code := MainWithOptions("pulse-read", []string{"unused.wav"}, func(ctx context.Context, env *Env) error {
		assert.Equal(t, 20*time.Millisecond, env.Config.TimeLimit)
		<-ctx.Done()
		return nil
	}, testOptions())

	assert.Equal(t, ExitOK, code)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestMainListDevicesFromConfig(t *testing.T) {
	cfg := filepath.Join(t.TempDir(), "sndrelay.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("sdl-play:\n  list_devices: true\n"), 0o644))
	t.Setenv(config.PathEnv, cfg)

	var listing io.Writer
	opts := testOptions()
	code := MainWithOptions("sdl-play", []string{"x.wav"}, func(ctx context.Context, env *Env) error {
		listing = env.Listing()
		return nil
	}, opts)

	assert.Equal(t, ExitOK, code)
	assert.Equal(t, opts.Stdout, listing)
}

func TestMainTakesNoOptions(t *testing.T) {
	run := func(ctx context.Context, env *Env) error {
		t.Fatal("run must not be called")
		return nil
	}
	assert.Equal(t, ExitFailure, MainWithOptions("sdl-play", []string{"-list", "x.wav"}, run, testOptions()))
	assert.Equal(t, ExitFailure, MainWithOptions("sdl-play", []string{"-config", "c.yaml", "x.wav"}, run, testOptions()))
}

func TestMainBadConfig(t *testing.T) {
	cfg := filepath.Join(t.TempDir(), "sndrelay.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("sdl-play:\n  sample_format: int8\n"), 0o644))
	t.Setenv(config.PathEnv, cfg)

	code := MainWithOptions("sdl-play", []string{"x.wav"}, func(ctx context.Context, env *Env) error {
		return nil
	}, testOptions())
	assert.Equal(t, ExitFailure, code)
}
