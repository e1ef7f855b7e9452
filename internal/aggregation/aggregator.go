package aggregation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aevon-lab/stockpulse/internal/core/inventory"
	"github.com/aevon-lab/stockpulse/internal/core/storage"
	"github.com/aevon-lab/stockpulse/internal/metrics"
)

// Aggregator derives stock snapshots from the aggregation source.
//
// It never retries: a failing source surfaces as inventory.ErrSourceUnavailable
// and the caller decides what to do with it.
type Aggregator struct {
	source storage.Source
	nowFn  func() time.Time
}

// NewAggregator creates an aggregator reading from source.
func NewAggregator(source storage.Source) *Aggregator {
	return &Aggregator{
		source: source,
		nowFn: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// ResolveOne returns the snapshot of the product with the given SKU,
// evaluated at the moment of the call.
func (a *Aggregator) ResolveOne(ctx context.Context, sku string) (inventory.Snapshot, error) {
	if err := inventory.ValidateSKU(sku); err != nil {
		return inventory.Snapshot{}, err
	}

	now := a.nowFn()
	start := time.Now()
	snap, err := a.source.StockBySKU(ctx, sku, now)
	metrics.SourceQueryDuration.WithLabelValues("stock_by_sku", metrics.Outcome(err)).Observe(time.Since(start).Seconds())
	if err != nil {
		return inventory.Snapshot{}, normalizeErr("resolve stock for "+sku, err)
	}

	return dropPastDelivery(snap, now), nil
}

// ResolveAll returns one snapshot per product ordered by stock quantity
// descending, SKU ascending on ties.
func (a *Aggregator) ResolveAll(ctx context.Context) ([]inventory.Snapshot, error) {
	now := a.nowFn()
	start := time.Now()
	snaps, err := a.source.StockAll(ctx, now)
	metrics.SourceQueryDuration.WithLabelValues("stock_all", metrics.Outcome(err)).Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, normalizeErr("resolve catalog stock", err)
	}

	out := make([]inventory.Snapshot, len(snaps))
	for i, snap := range snaps {
		out[i] = dropPastDelivery(snap, now)
	}
	inventory.SortSnapshots(out)

	slog.Debug("[Aggregator] Resolved catalog", "products", len(out), "evaluated_at", now)
	return out, nil
}

// Outstanding returns the qualifying purchase-order lines for one SKU.
func (a *Aggregator) Outstanding(ctx context.Context, sku string) ([]inventory.OutstandingLine, error) {
	if err := inventory.ValidateSKU(sku); err != nil {
		return nil, err
	}

	now := a.nowFn()
	start := time.Now()
	lines, err := a.source.OutstandingOrders(ctx, sku, now)
	metrics.SourceQueryDuration.WithLabelValues("outstanding_orders", metrics.Outcome(err)).Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, normalizeErr("resolve outstanding orders for "+sku, err)
	}

	kept := make([]inventory.OutstandingLine, 0, len(lines))
	for _, line := range lines {
		if !line.ExpectedDeliveryDate.Before(now) && line.Status.Outstanding() {
			kept = append(kept, line)
		}
	}
	inventory.SortOutstanding(kept)
	return kept, nil
}

// dropPastDelivery enforces the non-past rule on whatever the source returned.
func dropPastDelivery(snap inventory.Snapshot, now time.Time) inventory.Snapshot {
	if snap.ExpectedDeliveryDate != nil && snap.ExpectedDeliveryDate.Before(now) {
		snap.ExpectedDeliveryDate = nil
	}
	return snap
}

// normalizeErr keeps the domain sentinels intact and maps bare context
// failures to inventory.ErrSourceUnavailable.
func normalizeErr(op string, err error) error {
	switch {
	case errors.Is(err, inventory.ErrNotFound),
		errors.Is(err, inventory.ErrSourceUnavailable),
		errors.Is(err, inventory.ErrInvalidInput):
		return err
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return fmt.Errorf("%w: %s: %w", inventory.ErrSourceUnavailable, op, err)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}
