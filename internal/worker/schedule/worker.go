package schedule

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/corray333/atlas-cafe/internal/service/models/match"
	"github.com/spf13/viper"
)

type fetcher interface {
	FetchMatches(ctx context.Context) []match.Match
}

type sink interface {
	PublishMatches(ctx context.Context, matches []match.Match)
}

// Worker refreshes the match schedule on start and then at a fixed interval.
type Worker struct {
	fetcher      fetcher
	sink         sink
	pollInterval time.Duration
	stopCh       chan struct{}
	stopOnce     sync.Once
}

// NewWorker creates a new schedule poller.
func NewWorker(fetcher fetcher, sink sink) *Worker {
	pollInterval := viper.GetDuration("schedule.poll_interval")
	if pollInterval <= 0 {
		pollInterval = 30 * time.Second
	}

	return &Worker{
		fetcher:      fetcher,
		sink:         sink,
		pollInterval: pollInterval,
		stopCh:       make(chan struct{}),
	}
}

// WithPollInterval overrides the configured interval.
func (w *Worker) WithPollInterval(d time.Duration) *Worker {
	w.pollInterval = d
	return w
}

// Start runs the poller until ctx is done or Stop is called.
func (w *Worker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	slog.Info("Schedule worker started", "poll_interval", w.pollInterval)

	w.refresh(ctx)

	for {
		select {
		case <-ctx.Done():
			slog.Info("Schedule worker shutting down")

			return
		case <-w.stopCh:
			slog.Info("Schedule worker stopped")

			return
		case <-ticker.C:
			w.refresh(ctx)
		}
	}
}

// Stop stops the worker. It is safe to call more than once.
func (w *Worker) Stop() {
	w.stopOnce.Do(func() {
		close(w.stopCh)
	})
}

func (w *Worker) refresh(ctx context.Context) {
	matches := w.fetcher.FetchMatches(ctx)
	if ctx.Err() != nil {
		return
	}
	w.sink.PublishMatches(ctx, matches)
}
