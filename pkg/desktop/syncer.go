package desktop

import (
	"context"
	"log/slog"
	"time"
)

// SaveFunc persists one item.
type SaveFunc func(ctx context.Context, req SaveRequest) error

// SyncerConfig holds configuration for a Syncer.
type SyncerConfig struct {
	QueueSize int
	Timeout   time.Duration
	Logger    *slog.Logger
}

// Syncer writes desktop item changes in the background. Saves are
// fire-and-forget: failures are logged and never reach the Store.
type Syncer struct {
	save    SaveFunc
	queue   chan SaveRequest
	timeout time.Duration
	logger  *slog.Logger
}

// NewSyncer creates a syncer that hands queued saves to save.
func NewSyncer(cfg SyncerConfig, save SaveFunc) *Syncer {
	size := cfg.QueueSize
	if size <= 0 {
		size = 64
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Syncer{
		save:    save,
		queue:   make(chan SaveRequest, size),
		timeout: timeout,
		logger:  logger,
	}
}

// Enqueue queues a save. It reports false if the queue is full.
func (s *Syncer) Enqueue(req SaveRequest) bool {
	select {
	case s.queue <- req:
		return true
	default:
		return false
	}
}

// Serve drains the queue until ctx is cancelled.
func (s *Syncer) Serve(ctx context.Context) error {
	s.logger.Info("syncer started")
	for {
		select {
		case <-ctx.Done():
			s.logger.Info("syncer stopped", "pending", len(s.queue))
			return ctx.Err()
		case req := <-s.queue:
			s.flush(ctx, req)
		}
	}
}

func (s *Syncer) flush(ctx context.Context, req SaveRequest) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	if err := s.save(ctx, req); err != nil {
		s.logger.Warn("syncer: save failed", "type", req.Type, "name", req.Name, "error", err)
	}
}

// String names the service in supervisor logs.
func (s *Syncer) String() string {
	return "desktop-syncer"
}
