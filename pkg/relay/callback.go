// ABOUTME: Device callback adapters for playback and capture
// ABOUTME: Filler satisfies output requests with zero padding, Drainer stores captured blocks
package relay

import (
	"sync"
	"sync/atomic"

	"github.com/sndrelay/sndrelay-go/pkg/audio"
)

// completion tracks the terminal status of a callback-driven stream
type completion struct {
	status atomic.Int32
	frames atomic.Int64
	calls  atomic.Int64
	once   sync.Once
	done   chan struct{}
	err    error
}

// finish records the first terminal status and closes done
func (c *completion) finish(status Status, err error) {
	c.once.Do(func() {
		c.err = err
		c.status.Store(int32(status))
		close(c.done)
	})
}

// Done is closed once the stream has completed or aborted
func (c *completion) Done() <-chan struct{} {
	return c.done
}

// Status returns the current status
func (c *completion) Status() Status {
	return Status(c.status.Load())
}

// Err returns the error that aborted the stream, valid after Done is closed
func (c *completion) Err() error {
	select {
	case <-c.done:
		return c.err
	default:
		return nil
	}
}

// Frames returns the number of frames transferred so far
func (c *completion) Frames() int64 {
	return c.frames.Load()
}

// Calls returns the number of callback invocations so far
func (c *completion) Calls() int64 {
	return c.calls.Load()
}

// Stop ends the stream from outside the callback, e.g. on interrupt
func (c *completion) Stop() {
	c.finish(Complete, nil)
}

// Filler answers output callbacks from a Puller
type Filler[S audio.Sample] struct {
	completion
	src      Puller[S]
	channels int
	drained  bool // touched only from the callback
}

// NewFiller returns a Filler reading channels-interleaved frames from src
func NewFiller[S audio.Sample](src Puller[S], channels int) *Filler[S] {
	return &Filler[S]{
		completion: completion{done: make(chan struct{})},
		src:        src,
		channels:   max(channels, 1),
	}
}

// Fill fills buf with the next frames from the source. Any shortfall is zero
// padded so exactly len(buf) samples are written and nothing beyond. It
// returns Complete on the first call after the source is exhausted and Abort
// when the source fails.
func (f *Filler[S]) Fill(buf []S) Status {
	f.calls.Add(1)
	if st := f.Status(); st != Continue {
		clear(buf)
		return st
	}

	ch := f.channels
	frames := len(buf) / ch
	want := frames * ch

	got := 0
	for got < frames && !f.drained {
		n, err := f.src.Pull(buf[got*ch:want:want], frames-got)
		if err != nil {
			clear(buf)
			f.finish(Abort, err)
			return Abort
		}
		if n <= 0 {
			f.drained = true
			break
		}
		got += min(n, frames-got)
	}
	clear(buf[got*ch:])

	if got == 0 && f.drained {
		f.finish(Complete, nil)
		return Complete
	}
	f.frames.Add(int64(got))
	return Continue
}

// Drainer answers capture callbacks by pushing to a Pusher
type Drainer[S audio.Sample] struct {
	completion
	dst      Pusher[S]
	channels int
}

// NewDrainer returns a Drainer writing channels-interleaved frames to dst
func NewDrainer[S audio.Sample](dst Pusher[S], channels int) *Drainer[S] {
	return &Drainer[S]{
		completion: completion{done: make(chan struct{})},
		dst:        dst,
		channels:   max(channels, 1),
	}
}

// Drain pushes the whole frames of buf. A failed or short push aborts the stream.
func (d *Drainer[S]) Drain(buf []S) Status {
	d.calls.Add(1)
	if st := d.Status(); st != Continue {
		return st
	}

	frames := len(buf) / d.channels
	if frames == 0 {
		return Continue
	}

	n, err := d.dst.Push(buf[:frames*d.channels], frames)
	if err != nil {
		d.finish(Abort, err)
		return Abort
	}
	if n < frames {
		d.finish(Abort, ErrShortWrite)
		return Abort
	}
	d.frames.Add(int64(n))
	return Continue
}
