package worker

import (
	"context"
	"time"

	"github.com/xavierca1/leadboard/internal/logger"
)

// Refresher reloads the reference collections (agents and tags).
type Refresher interface {
	LoadReference(ctx context.Context) error
}

type ReferenceRefreshWorker struct {
	refresher    Refresher
	tickInterval time.Duration
	log          logger.Logger
}

func NewReferenceRefreshWorker(r Refresher, interval time.Duration, log logger.Logger) *ReferenceRefreshWorker {
	return &ReferenceRefreshWorker{
		refresher:    r,
		tickInterval: interval,
		log:          log,
	}
}

// Start refreshes once immediately, then on every tick until ctx is done.
func (w *ReferenceRefreshWorker) Start(ctx context.Context) {
	w.log.Info("reference refresh worker started", logger.Duration("interval", w.tickInterval))

	w.refresh(ctx)
	if w.tickInterval <= 0 {
		return
	}

	ticker := time.NewTicker(w.tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info("reference refresh worker stopped")
			return
		case <-ticker.C:
			w.refresh(ctx)
		}
	}
}

func (w *ReferenceRefreshWorker) refresh(ctx context.Context) {
	start := time.Now()
	if err := w.refresher.LoadReference(ctx); err != nil {
		w.log.Warn("reference refresh failed", logger.Error(err))
		return
	}
	w.log.Debug("reference data refreshed", logger.Duration("took", time.Since(start)))
}
