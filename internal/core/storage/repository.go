package storage

import (
	"context"
	"time"

	"github.com/aevon-lab/stockpulse/internal/core/inventory"
)

// Source is the read side of the inventory store.
//
// Every method takes the evaluation instant explicitly: a purchase order only
// contributes a delivery hint while its expected delivery is not before now.
// Implementations return inventory.ErrNotFound for unknown SKUs and wrap
// transport failures with inventory.ErrSourceUnavailable.
type Source interface {
	// StockBySKU aggregates one product with its earliest qualifying delivery.
	StockBySKU(ctx context.Context, sku string, now time.Time) (inventory.Snapshot, error)

	// StockAll aggregates every product, ordered by stock quantity desc, SKU asc.
	StockAll(ctx context.Context, now time.Time) ([]inventory.Snapshot, error)

	// OutstandingOrders lists the qualifying purchase-order lines for one product.
	OutstandingOrders(ctx context.Context, sku string, now time.Time) ([]inventory.OutstandingLine, error)
}
