package workers

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// StaleCleaner bulk-deletes stale pending challenges.
type StaleCleaner interface {
	CleanupStale(ctx context.Context) (int64, error)
}

// CleanupWorker periodically sweeps expired challenges. Deletion is
// idempotent and best-effort, so an overlapping or failed sweep just leaves
// work for the next tick.
type CleanupWorker struct {
	cleaner  StaleCleaner
	interval time.Duration
	logger   *zap.Logger
}

func NewCleanupWorker(cleaner StaleCleaner, interval time.Duration, logger *zap.Logger) *CleanupWorker {
	if interval <= 0 {
		interval = 15 * time.Minute
	}
	return &CleanupWorker{
		cleaner:  cleaner,
		interval: interval,
		logger:   logger,
	}
}

func (w *CleanupWorker) Start(ctx context.Context) {
	go func() {
		w.logger.Info("cleanup worker started", zap.Duration("interval", w.interval))
		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				w.sweep(ctx)
			case <-ctx.Done():
				w.logger.Info("cleanup worker shutting down")
				return
			}
		}
	}()
}

func (w *CleanupWorker) sweep(ctx context.Context) {
	deleted, err := w.cleaner.CleanupStale(ctx)
	if err != nil {
		w.logger.Error("cleanup sweep failed", zap.Error(err))
		return
	}
	if deleted > 0 {
		w.logger.Info("cleanup sweep finished", zap.Int64("deleted", deleted))
	}
}
