package postgres

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"

	"github.com/aevon-lab/stockpulse/internal/core/inventory"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

type scanner interface {
	Scan(dest ...interface{}) error
}

// scanSnapshotRow scans (sku, stock_quantity, expected_delivery_date).
// A NULL delivery date leaves ExpectedDeliveryDate nil.
func scanSnapshotRow(row scanner) (inventory.Snapshot, error) {
	var (
		snap     inventory.Snapshot
		expected sql.NullTime
	)

	if err := row.Scan(&snap.SKU, &snap.StockQuantity, &expected); err != nil {
		return inventory.Snapshot{}, err
	}

	if expected.Valid {
		t := expected.Time.UTC()
		snap.ExpectedDeliveryDate = &t
	}
	return snap, nil
}

// scanOutstandingRow scans one row of queryOutstandingOrders.
// ok is false for the placeholder row of a product without qualifying lines.
func scanOutstandingRow(row scanner) (line inventory.OutstandingLine, ok bool, err error) {
	var (
		productID int64
		poID      sql.NullInt64
		status    sql.NullString
		expected  sql.NullTime
		quantity  sql.NullInt64
		subtotal  decimal.NullDecimal
	)

	if err := row.Scan(&productID, &poID, &status, &expected, &quantity, &subtotal); err != nil {
		return inventory.OutstandingLine{}, false, fmt.Errorf("failed to scan outstanding order row: %w", err)
	}
	if !poID.Valid {
		return inventory.OutstandingLine{}, false, nil
	}

	return inventory.OutstandingLine{
		PurchaseOrderID:      poID.Int64,
		Status:               inventory.OrderStatus(status.String),
		ExpectedDeliveryDate: expected.Time.UTC(),
		Quantity:             quantity.Int64,
		Subtotal:             subtotal.Decimal,
	}, true, nil
}

// classify wraps transport-level failures with inventory.ErrSourceUnavailable.
// Anything else (bad SQL, scan mismatches) stays an internal error.
func classify(op string, err error) error {
	if isUnavailable(err) {
		return fmt.Errorf("%w: %s: %w", inventory.ErrSourceUnavailable, op, err)
	}
	return fmt.Errorf("failed to %s: %w", op, err)
}

func isUnavailable(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, driver.ErrBadConn) ||
		errors.Is(err, sql.ErrConnDone) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code.Class() {
		case "08", // connection exception
			"53", // insufficient resources
			"57": // operator intervention (admin shutdown, query canceled)
			return true
		}
	}
	return false
}
