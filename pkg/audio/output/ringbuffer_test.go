package output

import (
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRingBufferWriteRead(t *testing.T) {
	rb := NewRingBuffer[int16](4)

	assert.Equal(t, 3, rb.Write([]int16{1, 2, 3}))
	assert.Equal(t, 1, rb.Write([]int16{4, 5}))
	assert.Equal(t, 0, rb.Write([]int16{9}), "full buffer takes nothing")

	out := make([]int16, 3)
	assert.Equal(t, 3, rb.Read(out))
	assert.Equal(t, []int16{1, 2, 3}, out)

	// wraps around
	assert.Equal(t, 2, rb.Write([]int16{6, 7}))
	out = make([]int16, 5)
	for i := range out {
		out[i] = -1
	}
	assert.Equal(t, 3, rb.Read(out))
	assert.Equal(t, []int16{4, 6, 7, 0, 0}, out, "underrun is zero filled")
}

func TestRingBufferWriteAllWaitsForSpace(t *testing.T) {
	rb := NewRingBuffer[float32](2)
	done := make(chan error, 1)

	go func() {
		done <- rb.WriteAll([]float32{1, 2, 3, 4, 5})
	}()

	var got []float32
	buf := make([]float32, 2)
	deadline := time.After(2 * time.Second)
	for len(got) < 5 {
		select {
		case <-deadline:
			t.Fatalf("writer stalled, got %v", got)
		default:
		}
		n, err := rb.ReadFull(buf[:min(2, 5-len(got))])
		require.NoError(t, err)
		got = append(got, buf[:n]...)
	}

	require.NoError(t, <-done)
	assert.Equal(t, []float32{1, 2, 3, 4, 5}, got)
}

func TestRingBufferCloseWakesReader(t *testing.T) {
	rb := NewRingBuffer[int16](8)
	rb.Write([]int16{1, 2})

	type result struct {
		n   int
		err error
	}
	res := make(chan result, 1)
	go func() {
		buf := make([]int16, 4)
		n, err := rb.ReadFull(buf)
		res <- result{n, err}
	}()

	time.Sleep(10 * time.Millisecond)
	rb.Close()

	r := <-res
	assert.Equal(t, 2, r.n)
	assert.ErrorIs(t, r.err, io.EOF)
	assert.True(t, rb.Drained())
}

func TestRingBufferCloseWakesWriter(t *testing.T) {
	rb := NewRingBuffer[int16](1)
	done := make(chan error, 1)
	go func() {
		done <- rb.WriteAll([]int16{1, 2, 3})
	}()

	time.Sleep(10 * time.Millisecond)
	rb.Close()

	assert.ErrorIs(t, <-done, ErrRingClosed)
	assert.Equal(t, 0, rb.Write([]int16{9}))
	assert.False(t, rb.Drained(), "buffered sample is still readable")
}
