package latency

import (
	"errors"
	"testing"
	"time"

	"github.com/sndrelay/sndrelay-go/pkg/audio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	c := New(Options{})
	assert.Equal(t, 20*time.Millisecond, c.Target())
	assert.Zero(t, c.Underflows())
}

func TestGrowsAfterSixUnderflows(t *testing.T) {
	var applied []time.Duration
	c := New(Options{Apply: func(d time.Duration) error {
		applied = append(applied, d)
		return nil
	}})

	for i := 0; i < 5; i++ {
		changed, err := c.Underflow()
		require.NoError(t, err)
		assert.False(t, changed)
	}
	assert.Equal(t, 20*time.Millisecond, c.Target())

	changed, err := c.Underflow()
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, 30*time.Millisecond, c.Target())
	assert.Zero(t, c.Underflows())
	assert.Equal(t, []time.Duration{30 * time.Millisecond}, applied)
}

func TestTargetIsMonotonicAndCapped(t *testing.T) {
	c := New(Options{})
	prev := c.Target()
	sinceChange := 0

	for i := 0; i < 200; i++ {
		changed, err := c.Underflow()
		require.NoError(t, err)
		sinceChange++

		cur := c.Target()
		assert.GreaterOrEqual(t, cur, prev)
		assert.LessOrEqual(t, cur, DefaultCeiling)
		if changed {
			assert.Equal(t, DefaultThreshold, sinceChange)
			if cur < DefaultCeiling {
				assert.Equal(t, prev.Microseconds()*3/2, cur.Microseconds())
			}
			sinceChange = 0
		} else {
			assert.Equal(t, prev, cur)
		}
		prev = cur
	}
	assert.Equal(t, DefaultCeiling, c.Target())
}

func TestStepSequence(t *testing.T) {
	c := New(Options{})
	var targets []time.Duration
	for i := 0; i < 6*4; i++ {
		if changed, _ := c.Underflow(); changed {
			targets = append(targets, c.Target())
		}
	}
	assert.Equal(t, []time.Duration{
		30 * time.Millisecond,
		45 * time.Millisecond,
		67500 * time.Microsecond,
		101250 * time.Microsecond,
	}, targets)
}

func TestNoChangeAtCeiling(t *testing.T) {
	calls := 0
	c := New(Options{Initial: DefaultCeiling, Apply: func(time.Duration) error {
		calls++
		return nil
	}})
	for i := 0; i < 20; i++ {
		changed, _ := c.Underflow()
		assert.False(t, changed)
	}
	assert.Equal(t, DefaultCeiling, c.Target())
	assert.Zero(t, calls)
}

func TestApplyFailureKeepsTarget(t *testing.T) {
	boom := errors.New("server refused")
	c := New(Options{Threshold: 1, Apply: func(time.Duration) error { return boom }})

	changed, err := c.Underflow()
	assert.True(t, changed)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 30*time.Millisecond, c.Target())
}

func TestAttr(t *testing.T) {
	format := audio.Format{SampleRate: 44100, Channels: 2, BitDepth: 32, Float: true}
	a := Attr(20*time.Millisecond, format)
	assert.Equal(t, 882*8, a.MaxLength)
	assert.Equal(t, a.MaxLength, a.TargetLength)
	assert.Zero(t, a.MinRequest)
}
