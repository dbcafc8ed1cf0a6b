// ABOUTME: Adaptive playback latency controller
// ABOUTME: Grows the buffering target by half after repeated underflows, up to a ceiling
package latency

import (
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sndrelay/sndrelay-go/internal/log"
	"github.com/sndrelay/sndrelay-go/pkg/audio"
)

const (
	DefaultInitial   = 20 * time.Millisecond
	DefaultCeiling   = 2 * time.Second
	DefaultThreshold = 6
)

// ApplyFunc pushes a new latency target to the device
type ApplyFunc func(target time.Duration) error

// Options configures a Controller. Zero fields take the defaults.
type Options struct {
	Initial   time.Duration
	Ceiling   time.Duration
	Threshold int
	Apply     ApplyFunc
	Logger    logrus.FieldLogger
}

// Controller tracks underflows and the current latency target.
// The target never decreases and never exceeds the ceiling.
type Controller struct {
	mu         sync.Mutex
	target     time.Duration
	ceiling    time.Duration
	threshold  int
	underflows int
	apply      ApplyFunc
	log        logrus.FieldLogger
}

// New creates a controller
func New(opts Options) *Controller {
	c := &Controller{
		target:    opts.Initial,
		ceiling:   opts.Ceiling,
		threshold: opts.Threshold,
		apply:     opts.Apply,
		log:       opts.Logger,
	}
	if c.target <= 0 {
		c.target = DefaultInitial
	}
	if c.ceiling <= 0 {
		c.ceiling = DefaultCeiling
	}
	if c.threshold <= 0 {
		c.threshold = DefaultThreshold
	}
	if c.log == nil {
		c.log = log.Logger
	}
	c.target = min(c.target, c.ceiling)
	return c
}

// SetApply replaces the hook called when the target grows
func (c *Controller) SetApply(apply ApplyFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.apply = apply
}

// Target returns the current latency target
func (c *Controller) Target() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.target
}

// Underflows returns the underflows counted since the last change
func (c *Controller) Underflows() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.underflows
}

// Underflow records one underflow notification. When the count reaches the
// threshold and the target is below the ceiling the target grows by half,
// the count resets and the apply hook runs. An apply failure is logged and
// returned; the new target stays in effect.
func (c *Controller) Underflow() (bool, error) {
	c.mu.Lock()
	c.underflows++
	if c.underflows < c.threshold || c.target >= c.ceiling {
		c.mu.Unlock()
		return false, nil
	}

	// microsecond arithmetic matches the sound server's usec buffer attributes
	usec := c.target.Microseconds() * 3 / 2
	c.target = min(time.Duration(usec)*time.Microsecond, c.ceiling)
	c.underflows = 0
	target, apply := c.target, c.apply
	c.mu.Unlock()

	c.log.Infof("latency increased to %v", target)
	if apply == nil {
		return true, nil
	}
	if err := apply(target); err != nil {
		c.log.Warnf("failed to apply latency %v: %v", target, err)
		return true, fmt.Errorf("failed to apply latency %v: %w", target, err)
	}
	return true, nil
}

// BufferAttr is a byte-sized buffering request derived from a latency target
type BufferAttr struct {
	MaxLength    int
	TargetLength int
	MinRequest   int
}

// Attr converts a target to buffer lengths for format
func Attr(target time.Duration, format audio.Format) BufferAttr {
	n := format.DurationToBytes(target)
	return BufferAttr{
		MaxLength:    n,
		TargetLength: n,
		MinRequest:   0,
	}
}
