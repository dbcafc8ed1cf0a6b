// ABOUTME: Manual pull/push block loop
// ABOUTME: Reads one block, writes exactly what was read, checks for interrupts after each block
package relay

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/sndrelay/sndrelay-go/internal/log"
	"github.com/sndrelay/sndrelay-go/pkg/audio"
)

// StopReason records why a loop ended
type StopReason int

const (
	EndOfStream StopReason = iota
	Interrupted
	Canceled
	BlockLimit
	ReadFailed
	WriteFailed
)

func (r StopReason) String() string {
	switch r {
	case EndOfStream:
		return "end of stream"
	case Interrupted:
		return "interrupted"
	case Canceled:
		return "canceled"
	case BlockLimit:
		return "block limit"
	case ReadFailed:
		return "read failed"
	case WriteFailed:
		return "write failed"
	default:
		return "unknown"
	}
}

// Stats summarizes one relay run
type Stats struct {
	Blocks int
	Frames int64
	Reason StopReason
}

// Options tunes Copy
type Options struct {
	// Interrupt is polled after every block. May be nil.
	Interrupt *Interrupt
	// MaxBlocks stops the loop after that many blocks when positive
	MaxBlocks int
	// Logger receives per-block debug lines. Defaults to the shared logger.
	Logger logrus.FieldLogger
}

// Copy moves blocks of len(buf)/channels frames from src to dst.
// A read of zero or fewer frames ends the stream without error. A read error,
// a failed push or a short push ends it with an error. Partial final blocks
// are pushed as read.
func Copy[S audio.Sample](ctx context.Context, dst Pusher[S], src Puller[S], buf []S, channels int, opts Options) (Stats, error) {
	var stats Stats
	if channels <= 0 {
		return stats, ErrBadChannels
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.Logger
	}

	frames := len(buf) / channels
	for {
		n, err := src.Pull(buf, frames)
		if err != nil {
			stats.Reason = ReadFailed
			return stats, fmt.Errorf("failed to read block %d: %w", stats.Blocks, err)
		}
		if n <= 0 {
			stats.Reason = EndOfStream
			return stats, nil
		}
		n = min(n, frames)

		written, err := dst.Push(buf[:n*channels], n)
		if err != nil {
			stats.Reason = WriteFailed
			return stats, fmt.Errorf("failed to write block %d: %w", stats.Blocks, err)
		}
		if written < n {
			stats.Reason = WriteFailed
			return stats, fmt.Errorf("block %d: %d of %d frames: %w", stats.Blocks, written, n, ErrShortWrite)
		}

		stats.Blocks++
		stats.Frames += int64(n)
		logger.Debugf("block %d: %d frames", stats.Blocks, n)

		if opts.MaxBlocks > 0 && stats.Blocks >= opts.MaxBlocks {
			stats.Reason = BlockLimit
			return stats, nil
		}
		if opts.Interrupt.IsSet() {
			stats.Reason = Interrupted
			return stats, nil
		}
		if ctx.Err() != nil {
			stats.Reason = Canceled
			return stats, nil
		}
	}
}
