// ABOUTME: File to device and device to file pipelines
// ABOUTME: Blocking pipelines run the relay loop, callback pipelines wait on the device
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/sndrelay/sndrelay-go/pkg/audio"
	"github.com/sndrelay/sndrelay-go/pkg/audio/input"
	"github.com/sndrelay/sndrelay-go/pkg/audio/output"
	"github.com/sndrelay/sndrelay-go/pkg/audio/sndfile"
	"github.com/sndrelay/sndrelay-go/pkg/relay"
)

// deviceFormat is format carried in the sample type S
func deviceFormat[S audio.Sample](format audio.Format) audio.Format {
	return audio.Format{
		Codec:      "pcm",
		SampleRate: format.SampleRate,
		Channels:   format.Channels,
		BitDepth:   audio.SampleSize[S]() * 8,
		Float:      audio.SampleSize[S]() == 4,
	}
}

// filePuller reads S samples from f
func filePuller[S audio.Sample](f *sndfile.File) relay.Puller[S] {
	var zero S
	switch any(zero).(type) {
	case float32:
		return any(relay.PullFunc[float32](f.ReadFloat32)).(relay.Puller[S])
	default:
		return any(relay.PullFunc[int16](f.ReadInt16)).(relay.Puller[S])
	}
}

// filePusher writes S samples to f
func filePusher[S audio.Sample](f *sndfile.File) relay.Pusher[S] {
	var zero S
	switch any(zero).(type) {
	case float32:
		return any(relay.PushFunc[float32](f.WriteFloat32)).(relay.Pusher[S])
	default:
		return any(relay.PushFunc[int16](f.WriteInt16)).(relay.Pusher[S])
	}
}

func openFile(path string) (*sndfile.File, error) {
	f, err := sndfile.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOpenFile, err)
	}
	return f, nil
}

func createFile(path string, format audio.Format) (*sndfile.File, error) {
	f, err := sndfile.Create(path, format)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOpenFile, err)
	}
	return f, nil
}

// closeSession closes the session, logging failures
func closeSession[S audio.Sample](sess *relay.Session[S]) {
	if err := sess.Close(); err != nil {
		sess.Log().Warnf("Close failed: %v", err)
	}
}

func logStats[S audio.Sample](sess *relay.Session[S], stats relay.Stats, err error) {
	entry := sess.Log().WithField("blocks", stats.Blocks).WithField("frames", stats.Frames)
	if err != nil {
		// a mid-stream failure ends the stream but not the program
		entry.Warnf("Stream ended (%s): %v", stats.Reason, err)
		return
	}
	entry.Infof("Stream ended (%s)", stats.Reason)
}

// PlayBlocking plays the file at env.Path through out with the relay loop
func PlayBlocking[S audio.Sample](ctx context.Context, env *Env, out output.Blocking[S]) error {
	f, err := openFile(env.Path)
	if err != nil {
		return err
	}
	format := f.Format()
	sess := relay.NewSession[S](f, env.Config.BlockFrames, format.Channels)
	defer closeSession(sess)

	sess.Log().Infof("Playing %s: %s", env.Path, format)

	if err := out.Open(deviceFormat[S](format)); err != nil {
		return fmt.Errorf("%w: %w", ErrBackend, err)
	}
	sess.AttachDevice(out)

	stats, err := relay.Copy(ctx, out, filePuller[S](f), sess.Buffer(), format.Channels, relay.Options{
		Interrupt: env.Interrupt,
		MaxBlocks: env.Config.MaxBlocks,
		Logger:    sess.Log(),
	})
	logStats(sess, stats, err)
	return nil
}

// RecordBlocking records from in into a new file at env.Path with the relay loop
func RecordBlocking[S audio.Sample](ctx context.Context, env *Env, in input.Blocking[S]) error {
	format := env.Config.Record.Format()
	f, err := createFile(env.Path, format)
	if err != nil {
		return err
	}
	sess := relay.NewSession[S](f, env.Config.BlockFrames, format.Channels)
	defer closeSession(sess)

	sess.Log().Infof("Recording %s: %s", env.Path, format)

	if err := in.Open(deviceFormat[S](format)); err != nil {
		return fmt.Errorf("%w: %w", ErrBackend, err)
	}
	sess.AttachDevice(in)

	stats, err := relay.Copy(ctx, filePusher[S](f), in, sess.Buffer(), format.Channels, relay.Options{
		Interrupt: env.Interrupt,
		MaxBlocks: env.Config.MaxBlocks,
		Logger:    sess.Log(),
	})
	logStats(sess, stats, err)
	return nil
}

// PlayCallback plays the file at env.Path through a callback output fed by a Filler
func PlayCallback[S audio.Sample](ctx context.Context, env *Env, out output.Callback[S]) error {
	f, err := openFile(env.Path)
	if err != nil {
		return err
	}
	format := f.Format()
	sess := relay.NewSession[S](f, 0, format.Channels)
	defer closeSession(sess)

	sess.Log().Infof("Playing %s: %s", env.Path, format)

	if err := out.Open(deviceFormat[S](format)); err != nil {
		return fmt.Errorf("%w: %w", ErrBackend, err)
	}
	sess.AttachDevice(out)

	filler := relay.NewFiller(filePuller[S](f), format.Channels)
	if err := out.Start(filler.Fill); err != nil {
		return fmt.Errorf("%w: %w", ErrBackend, err)
	}

	if waitCallback(ctx, env, filler.Done(), out.Done()) {
		drainOutput(ctx, sess, out, env.Config.BlockFrames, format.SampleRate)
	}
	filler.Stop()
	if err := out.Stop(); err != nil {
		sess.Log().Warnf("Stop failed: %v", err)
	}

	logCallback(sess, filler.Frames(), filler.Calls(), filler.Err())
	return nil
}

// drainOutput lets queued audio play before the device stops. Outputs that
// do not track their queue hold up to two device buffers.
func drainOutput[S audio.Sample](ctx context.Context, sess *relay.Session[S], out output.Callback[S], frames, rate int) {
	if d, ok := out.(output.Drainable); ok {
		if err := d.Drain(ctx); err != nil && ctx.Err() == nil {
			sess.Log().Warnf("Drain failed: %v", err)
		}
		return
	}
	sleepContext(ctx, time.Duration(2*frames)*time.Second/time.Duration(rate))
}

// RecordCallback records from a callback input into a new file at env.Path through a Drainer
func RecordCallback[S audio.Sample](ctx context.Context, env *Env, in input.Callback[S]) error {
	format := env.Config.Record.Format()
	f, err := createFile(env.Path, format)
	if err != nil {
		return err
	}
	sess := relay.NewSession[S](f, 0, format.Channels)
	defer closeSession(sess)

	sess.Log().Infof("Recording %s: %s", env.Path, format)

	if err := in.Open(deviceFormat[S](format)); err != nil {
		return fmt.Errorf("%w: %w", ErrBackend, err)
	}
	sess.AttachDevice(in)

	drainer := relay.NewDrainer(filePusher[S](f), format.Channels)
	if err := in.Start(drainer.Drain); err != nil {
		return fmt.Errorf("%w: %w", ErrBackend, err)
	}

	waitCallback(ctx, env, drainer.Done(), in.Done())
	drainer.Stop()
	if err := in.Stop(); err != nil {
		sess.Log().Warnf("Stop failed: %v", err)
	}

	logCallback(sess, drainer.Frames(), drainer.Calls(), drainer.Err())
	return nil
}

// waitCallback blocks until the stream ends on its own, reporting true, or
// ctx ends it.
func waitCallback(ctx context.Context, env *Env, streamDone, deviceDone <-chan struct{}) bool {
	select {
	case <-streamDone:
		return true
	case <-deviceDone:
		return true
	case <-ctx.Done():
		if env.Interrupt.IsSet() {
			env.Log.Infof("Interrupted")
		} else {
			env.Log.Infof("Stopping: %v", context.Cause(ctx))
		}
		return false
	}
}

func sleepContext(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
	case <-ctx.Done():
	}
}

func logCallback[S audio.Sample](sess *relay.Session[S], frames, calls int64, err error) {
	entry := sess.Log().WithField("frames", frames).WithField("callbacks", calls)
	if err != nil {
		entry.Warnf("Stream aborted: %v", err)
		return
	}
	entry.Infof("Stream ended")
}
