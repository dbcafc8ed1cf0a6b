// ABOUTME: Thread-safe circular sample buffer between a caller and an audio thread
// ABOUTME: Offers non-blocking access for callbacks and blocking access for callers
package output

import (
	"io"
	"sync"

	"github.com/sndrelay/sndrelay-go/pkg/audio"
)

// RingBuffer provides thread-safe circular buffer for audio samples
type RingBuffer[S audio.Sample] struct {
	buffer   []S
	readPos  int
	writePos int
	size     int
	count    int // Number of samples currently in buffer
	closed   bool
	mu       sync.Mutex
	cond     *sync.Cond
}

// NewRingBuffer creates a ring buffer with given capacity (in samples)
func NewRingBuffer[S audio.Sample](capacity int) *RingBuffer[S] {
	capacity = max(capacity, 1)
	rb := &RingBuffer[S]{
		buffer: make([]S, capacity),
		size:   capacity,
	}
	rb.cond = sync.NewCond(&rb.mu)
	return rb
}

// Write adds as many samples as fit and returns the count. It never blocks.
func (rb *RingBuffer[S]) Write(samples []S) int {
	rb.mu.Lock()
	defer rb.mu.Unlock()
	if rb.closed {
		return 0
	}
	n := rb.put(samples)
	if n > 0 {
		rb.cond.Broadcast()
	}
	return n
}

// WriteAll adds every sample, waiting for space. It fails once the buffer is closed.
func (rb *RingBuffer[S]) WriteAll(samples []S) error {
	rb.mu.Lock()
	defer rb.mu.Unlock()

	for len(samples) > 0 {
		if rb.closed {
			return ErrRingClosed
		}
		n := rb.put(samples)
		samples = samples[n:]
		if n > 0 {
			rb.cond.Broadcast()
		}
		if len(samples) > 0 {
			rb.cond.Wait()
		}
	}
	return nil
}

// Read retrieves available samples without blocking and zero-fills the rest
func (rb *RingBuffer[S]) Read(samples []S) int {
	rb.mu.Lock()
	defer rb.mu.Unlock()

	read := rb.take(samples)
	if read > 0 {
		rb.cond.Broadcast()
	}

	// Zero-fill remaining if underrun
	clear(samples[read:])
	return read
}

// ReadFull waits until samples is full or the buffer is closed and empty.
// A short read returns io.EOF.
func (rb *RingBuffer[S]) ReadFull(samples []S) (int, error) {
	rb.mu.Lock()
	defer rb.mu.Unlock()

	read := 0
	for read < len(samples) {
		n := rb.take(samples[read:])
		read += n
		if n > 0 {
			rb.cond.Broadcast()
			continue
		}
		if rb.closed {
			return read, io.EOF
		}
		rb.cond.Wait()
	}
	return read, nil
}

// Close wakes all waiters. Buffered samples stay readable.
func (rb *RingBuffer[S]) Close() {
	rb.mu.Lock()
	defer rb.mu.Unlock()
	rb.closed = true
	rb.cond.Broadcast()
}

// Drained reports whether the buffer is closed and empty
func (rb *RingBuffer[S]) Drained() bool {
	rb.mu.Lock()
	defer rb.mu.Unlock()
	return rb.closed && rb.count == 0
}

func (rb *RingBuffer[S]) put(samples []S) int {
	written := 0
	for written < len(samples) && rb.count < rb.size {
		rb.buffer[rb.writePos] = samples[written]
		rb.writePos = (rb.writePos + 1) % rb.size
		rb.count++
		written++
	}
	return written
}

func (rb *RingBuffer[S]) take(samples []S) int {
	read := 0
	for read < len(samples) && rb.count > 0 {
		samples[read] = rb.buffer[rb.readPos]
		rb.readPos = (rb.readPos + 1) % rb.size
		rb.count--
		read++
	}
	return read
}
