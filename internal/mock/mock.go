// Package mock provides counting mocks for relay sources, sinks and closers.
package mock

import (
	"sync"

	"github.com/sndrelay/sndrelay-go/pkg/audio"
)

// Source mocks a relay.Puller over a fixed slice of interleaved samples.
type Source[S audio.Sample] struct {
	counter
	Samples     []S
	Channels    int
	ErrorOnCall error
	// FailOnCall makes only that call (1-based) return ErrorOnCall when positive.
	FailOnCall int
	// OnPull runs after every call with its 1-based number.
	OnPull func(call int)
	pos    int
}

// Pull copies up to frames frames into buf.
func (m *Source[S]) Pull(buf []S, frames int) (int, error) {
	m.mu.Lock()
	call := m.messages + 1
	if m.ErrorOnCall != nil && (m.FailOnCall <= 0 || m.FailOnCall == call) {
		m.advance(0)
		m.mu.Unlock()
		return 0, m.ErrorOnCall
	}

	ch := max(m.Channels, 1)
	frames = min(frames, len(buf)/ch, (len(m.Samples)-m.pos)/ch)
	frames = max(frames, 0)
	copy(buf, m.Samples[m.pos:m.pos+frames*ch])
	m.pos += frames * ch
	m.advance(frames)
	m.reads = append(m.reads, frames)
	hook := m.OnPull
	m.mu.Unlock()

	if hook != nil {
		hook(call)
	}
	return frames, nil
}

// Reads returns the frame count returned by each call.
func (m *Source[S]) Reads() []int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]int(nil), m.reads...)
}

// Sink mocks a relay.Pusher and keeps everything pushed.
// Buffer is not thread-safe, so should not be checked while a stream is running.
type Sink[S audio.Sample] struct {
	counter
	Discard     bool
	ErrorOnCall error
	// Limit accepts at most Limit frames per call when positive.
	Limit  int
	buffer []S
	writes []int
}

// Push records buf and returns the number of frames accepted.
func (m *Sink[S]) Push(buf []S, frames int) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.ErrorOnCall != nil {
		m.advance(0)
		return 0, m.ErrorOnCall
	}
	m.writes = append(m.writes, len(buf))
	if !m.Discard {
		m.buffer = append(m.buffer, buf...)
	}
	if m.Limit > 0 && frames > m.Limit {
		frames = m.Limit
	}
	m.advance(frames)
	return frames, nil
}

// Buffer returns sink's buffer.
func (m *Sink[S]) Buffer() []S {
	return m.buffer
}

// Writes returns the sample count of each push.
func (m *Sink[S]) Writes() []int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]int(nil), m.writes...)
}

// Closer counts Close calls.
type Closer struct {
	mu           sync.Mutex
	closed       int
	ErrorOnClose error
}

// Close implements io.Closer.
func (c *Closer) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed++
	return c.ErrorOnClose
}

// Closed returns the number of Close calls.
func (c *Closer) Closed() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// counter counts calls and frames.
type counter struct {
	mu       sync.Mutex
	messages int
	frames   int
	reads    []int
}

// advance counter's metrics. Caller holds mu.
func (c *counter) advance(frames int) {
	c.messages++
	c.frames += frames
}

// Count returns calls and frames metrics.
func (c *counter) Count() (int, int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.messages, c.frames
}
