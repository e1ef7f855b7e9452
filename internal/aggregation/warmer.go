package aggregation

import (
	"context"
	"log/slog"
	"time"
)

// CatalogRefresher recomputes the cached full catalog.
type CatalogRefresher interface {
	RefreshCatalog(ctx context.Context) error
}

// Warmer keeps the catalog cache entry warm by refreshing it periodically.
type Warmer struct {
	interval time.Duration
	target   CatalogRefresher
}

// NewWarmer creates a warmer that refreshes target every interval.
func NewWarmer(interval time.Duration, target CatalogRefresher) *Warmer {
	return &Warmer{
		interval: interval,
		target:   target,
	}
}

// Start refreshes once immediately, then on every tick.
// Runs until context is cancelled.
func (w *Warmer) Start(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	slog.Info("[Warmer] Starting catalog warmer", "interval", w.interval)

	w.refresh(ctx)

	for {
		select {
		case <-ticker.C:
			w.refresh(ctx)
		case <-ctx.Done():
			slog.Info("[Warmer] Stopping (context cancelled)")
			return nil
		}
	}
}

// refresh failures are logged and retried on the next tick; readers fall
// back to on-demand computation meanwhile.
func (w *Warmer) refresh(ctx context.Context) {
	start := time.Now()
	if err := w.target.RefreshCatalog(ctx); err != nil {
		if ctx.Err() != nil {
			return
		}
		slog.Error("[Warmer] Catalog refresh failed", "error", err)
		return
	}
	slog.Debug("[Warmer] Catalog refreshed", "duration", time.Since(start))
}
