package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/spf13/viper"
)

type reaper interface {
	ReapIdle(ctx context.Context) int
}

// Worker closes idle sessions at a fixed interval.
type Worker struct {
	reaper       reaper
	reapInterval time.Duration
	stopCh       chan struct{}
	stopOnce     sync.Once
}

// NewWorker creates a new session reaper.
func NewWorker(reaper reaper) *Worker {
	reapInterval := viper.GetDuration("session.reap_interval")
	if reapInterval <= 0 {
		reapInterval = time.Minute
	}

	return &Worker{
		reaper:       reaper,
		reapInterval: reapInterval,
		stopCh:       make(chan struct{}),
	}
}

// WithReapInterval overrides the configured interval.
func (w *Worker) WithReapInterval(d time.Duration) *Worker {
	w.reapInterval = d
	return w
}

// Start runs the reaper until ctx is done or Stop is called.
func (w *Worker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.reapInterval)
	defer ticker.Stop()

	slog.Info("Session reaper started", "reap_interval", w.reapInterval)

	for {
		select {
		case <-ctx.Done():
			slog.Info("Session reaper shutting down")

			return
		case <-w.stopCh:
			slog.Info("Session reaper stopped")

			return
		case <-ticker.C:
			w.reaper.ReapIdle(ctx)
		}
	}
}

// Stop stops the worker. It is safe to call more than once.
func (w *Worker) Stop() {
	w.stopOnce.Do(func() {
		close(w.stopCh)
	})
}
