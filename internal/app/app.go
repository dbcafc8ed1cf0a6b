// ABOUTME: Program runner shared by every relay command
// ABOUTME: Checks the file argument, loads config, wires interrupts and maps errors to exit codes
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/sndrelay/sndrelay-go/internal/config"
	"github.com/sndrelay/sndrelay-go/internal/log"
	"github.com/sndrelay/sndrelay-go/internal/version"
	"github.com/sndrelay/sndrelay-go/pkg/relay"
)

// Exit codes
const (
	ExitOK       = 0
	ExitOpenFile = 1
	ExitFailure  = -1
)

// Env is what a program's run function works with
type Env struct {
	Name      string
	Path      string
	Config    config.Program
	Interrupt *relay.Interrupt
	Log       logrus.FieldLogger
	// Stdout receives device listings
	Stdout io.Writer
}

// Listing returns Stdout when the program lists devices, else nil
func (e *Env) Listing() io.Writer {
	if !e.Config.ListDevices {
		return nil
	}
	return e.Stdout
}

// RunFunc streams between the file at env.Path and a device
type RunFunc func(ctx context.Context, env *Env) error

// Options adjusts Main for tests
type Options struct {
	Stdout  io.Writer
	Stderr  io.Writer
	Logger  *logrus.Logger
	Signals []os.Signal
}

// Main runs one program and returns its exit code
func Main(name string, args []string, run RunFunc) int {
	return MainWithOptions(name, args, run, Options{})
}

// MainWithOptions is Main with overridable streams, logger and signals
func MainWithOptions(name string, args []string, run RunFunc, opts Options) int {
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}
	if opts.Logger == nil {
		opts.Logger = log.Logger
	}
	if opts.Signals == nil {
		opts.Signals = relay.TerminalSignals
	}

	if len(args) != 1 {
		fmt.Fprintf(opts.Stderr, "usage: %s <file>\n", name)
		return ExitCode(fmt.Errorf("%w: expected one file argument, got %d", ErrUsage, len(args)))
	}

	logger := opts.Logger.WithField("program", name)

	cfg, err := config.FromEnv(name)
	if err != nil {
		logger.Errorf("Failed to load config: %v", err)
		return ExitFailure
	}

	interrupt := &relay.Interrupt{}
	ctx, cancel, err := interrupt.Watch(context.Background(), logger, opts.Signals...)
	if err != nil {
		logger.Errorf("Failed to install signal handler: %v", err)
		return ExitFailure
	}
	defer cancel()

	if cfg.TimeLimit > 0 {
		var stop context.CancelFunc
		ctx, stop = context.WithTimeout(ctx, cfg.TimeLimit)
		defer stop()
	}

	logger.Infof("Starting %s (%s)", name, version.String())

	env := &Env{
		Name:      name,
		Path:      args[0],
		Config:    cfg,
		Interrupt: interrupt,
		Log:       logger,
		Stdout:    opts.Stdout,
	}

	err = run(ctx, env)
	code := ExitCode(err)
	if err != nil {
		logger.Errorf("%v", err)
	} else {
		logger.Infof("Finished")
	}
	return code
}

// ExitCode maps a run error to the process exit code
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, ErrOpenFile):
		return ExitOpenFile
	default:
		return ExitFailure
	}
}
