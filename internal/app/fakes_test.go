package app

import (
	"context"
	"sync"
	"time"

	"github.com/sndrelay/sndrelay-go/internal/mock"
	"github.com/sndrelay/sndrelay-go/pkg/audio"
	"github.com/sndrelay/sndrelay-go/pkg/relay"
)

// fakeOutput is a blocking output recording what it was given
type fakeOutput[S audio.Sample] struct {
	mock.Sink[S]
	mock.Closer
	OpenErr error
	format  audio.Format
}

func (f *fakeOutput[S]) Open(format audio.Format) error {
	f.format = format
	return f.OpenErr
}

// fakeInput is a blocking input replaying fixed samples
type fakeInput[S audio.Sample] struct {
	mock.Source[S]
	mock.Closer
	OpenErr error
}

func (f *fakeInput[S]) Open(format audio.Format) error {
	return f.OpenErr
}

// fakeDevice drives a relay callback from its own goroutine, like an audio thread
type fakeDevice[S audio.Sample] struct {
	mock.Closer
	frames   int
	channels int
	// Fill prepares each buffer before the callback, for capture devices
	Fill     func(buf []S)
	StartErr error
	// Delay paces the callbacks
	Delay time.Duration

	mu      sync.Mutex
	data    []S
	calls   int
	done    chan struct{}
	quit    chan struct{}
	wg      sync.WaitGroup
	stopped bool
}

func newFakeDevice[S audio.Sample](frames int) *fakeDevice[S] {
	return &fakeDevice[S]{
		frames: frames,
		done:   make(chan struct{}),
		quit:   make(chan struct{}),
	}
}

func (d *fakeDevice[S]) Open(format audio.Format) error {
	d.channels = format.Channels
	return nil
}

func (d *fakeDevice[S]) Start(cb relay.Callback[S]) error {
	if d.StartErr != nil {
		return d.StartErr
	}
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		buf := make([]S, d.frames*d.channels)
		for {
			select {
			case <-d.quit:
				return
			default:
			}
			if d.Delay > 0 {
				time.Sleep(d.Delay)
			}
			if d.Fill != nil {
				d.Fill(buf)
			}
			status := cb(buf)

			d.mu.Lock()
			d.calls++
			if status == relay.Continue {
				d.data = append(d.data, buf...)
			}
			d.mu.Unlock()

			if status != relay.Continue {
				close(d.done)
				return
			}
		}
	}()
	return nil
}

func (d *fakeDevice[S]) Stop() error {
	d.mu.Lock()
	if !d.stopped {
		d.stopped = true
		close(d.quit)
	}
	d.mu.Unlock()
	d.wg.Wait()
	return nil
}

func (d *fakeDevice[S]) Done() <-chan struct{} {
	return d.done
}

func (d *fakeDevice[S]) Data() []S {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]S(nil), d.data...)
}

// drainingDevice is a fakeDevice that tracks its own queue, recording the
// order of Drain and Stop
type drainingDevice[S audio.Sample] struct {
	*fakeDevice[S]
	evMu   sync.Mutex
	events []string
}

func (d *drainingDevice[S]) record(event string) {
	d.evMu.Lock()
	defer d.evMu.Unlock()
	d.events = append(d.events, event)
}

func (d *drainingDevice[S]) Drain(ctx context.Context) error {
	d.record("drain")
	return nil
}

func (d *drainingDevice[S]) Stop() error {
	d.record("stop")
	return d.fakeDevice.Stop()
}

func (d *drainingDevice[S]) Events() []string {
	d.evMu.Lock()
	defer d.evMu.Unlock()
	return append([]string(nil), d.events...)
}
