// ABOUTME: Process interrupt flag driven by terminal signals
// ABOUTME: Sets an atomic flag and cancels a context on the first SIGINT or SIGHUP
package relay

import (
	"context"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/sndrelay/sndrelay-go/internal/log"
)

// TerminalSignals are the signals that interrupt a run
var TerminalSignals = []os.Signal{os.Interrupt, syscall.SIGHUP}

// Interrupt is a flag set once by a signal and polled by relay loops.
// A nil Interrupt is never set.
type Interrupt struct {
	flag atomic.Bool
}

// Set raises the flag
func (i *Interrupt) Set() {
	i.flag.Store(true)
}

// IsSet reports whether the flag was raised
func (i *Interrupt) IsSet() bool {
	return i != nil && i.flag.Load()
}

// Watch raises the flag and cancels the returned context when one of sigs
// arrives. The watcher exits when the returned context is canceled.
func (i *Interrupt) Watch(ctx context.Context, logger logrus.FieldLogger, sigs ...os.Signal) (context.Context, context.CancelFunc, error) {
	if len(sigs) == 0 {
		return nil, nil, ErrNoSignals
	}
	if logger == nil {
		logger = log.Logger
	}

	ctx, cancel := context.WithCancel(ctx)
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, sigs...)

	go func() {
		defer signal.Stop(ch)
		select {
		case sig := <-ch:
			logger.Infof("received %v, stopping", sig)
			i.Set()
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, cancel, nil
}
