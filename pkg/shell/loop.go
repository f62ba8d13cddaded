package shell

import (
	"context"
	"fmt"
	"log/slog"
)

type request struct {
	fn   func(*Shell) error
	done chan error
}

// Loop owns a Shell and runs every command against it on one goroutine.
type Loop struct {
	shell  *Shell
	reqs   chan request
	logger *slog.Logger
}

// NewLoop creates a loop for s. Nothing runs until Serve is called.
func NewLoop(s *Shell, logger *slog.Logger) *Loop {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loop{
		shell:  s,
		reqs:   make(chan request),
		logger: logger,
	}
}

// Serve processes commands until ctx is cancelled.
func (l *Loop) Serve(ctx context.Context) error {
	l.logger.Info("shell loop started")
	for {
		select {
		case <-ctx.Done():
			l.logger.Info("shell loop stopped")
			return ctx.Err()
		case r := <-l.reqs:
			r.done <- l.run(r.fn)
		}
	}
}

// run executes fn, turning a panic into an error so one bad command cannot
// take the loop down.
func (l *Loop) run(fn func(*Shell) error) (err error) {
	defer func() {
		if p := recover(); p != nil {
			l.logger.Error("shell loop panic recovered", "error", p)
			err = fmt.Errorf("shell: panic: %v", p)
		}
	}()
	return fn(l.shell)
}

// Do runs fn on the loop goroutine and waits for it.
func (l *Loop) Do(ctx context.Context, fn func(*Shell) error) error {
	r := request{fn: fn, done: make(chan error, 1)}
	select {
	case l.reqs <- r:
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case err := <-r.done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// String names the service in supervisor logs.
func (l *Loop) String() string {
	return "shell-loop"
}
