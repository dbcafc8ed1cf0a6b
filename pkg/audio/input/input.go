// ABOUTME: Audio capture interface definitions
// ABOUTME: Blocking inputs are pulled one block at a time, callback inputs push through a relay callback
package input

import (
	"sync"

	"github.com/sndrelay/sndrelay-go/pkg/audio"
	"github.com/sndrelay/sndrelay-go/pkg/relay"
)

// Input represents an audio capture device
type Input interface {
	// Open initializes the capture device for format
	Open(format audio.Format) error

	// Close releases capture resources
	Close() error
}

// Blocking is an input read by the caller
type Blocking[S audio.Sample] interface {
	Input
	relay.Puller[S]
}

// Callback is an input that hands captured buffers to a relay callback
type Callback[S audio.Sample] interface {
	Input
	Start(cb relay.Callback[S]) error
	Stop() error
	// Done is closed once cb has returned Complete or Abort
	Done() <-chan struct{}
}

type doneSignal struct {
	once sync.Once
	ch   chan struct{}
}

func (d *doneSignal) close() {
	d.once.Do(func() { close(d.ch) })
}

func (d *doneSignal) closed() bool {
	select {
	case <-d.ch:
		return true
	default:
		return false
	}
}
