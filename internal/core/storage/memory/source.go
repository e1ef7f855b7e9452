package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/aevon-lab/stockpulse/internal/core/inventory"
)

// Source is an in-memory storage.Source.
//
// The product/purchase-order association is kept as two one-to-many indexes
// (product -> lines, purchase order -> lines) instead of back-references.
type Source struct {
	mu sync.RWMutex

	products       map[int64]inventory.Product
	skuIndex       map[string]int64
	purchaseOrders map[int64]inventory.PurchaseOrder
	linesByProduct map[int64][]inventory.OrderLine
	linesByOrder   map[int64][]inventory.OrderLine
}

// NewSource creates an empty in-memory source.
func NewSource() *Source {
	return &Source{
		products:       make(map[int64]inventory.Product),
		skuIndex:       make(map[string]int64),
		purchaseOrders: make(map[int64]inventory.PurchaseOrder),
		linesByProduct: make(map[int64][]inventory.OrderLine),
		linesByOrder:   make(map[int64][]inventory.OrderLine),
	}
}

// PutProduct inserts or replaces a product. SKUs must stay unique.
func (s *Source) PutProduct(p inventory.Product) error {
	if err := inventory.ValidateSKU(p.SKU); err != nil {
		return err
	}
	if p.StockQuantity < 0 {
		return fmt.Errorf("product %d: stock quantity must be >= 0", p.ID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if owner, exists := s.skuIndex[p.SKU]; exists && owner != p.ID {
		return fmt.Errorf("sku %q already belongs to product %d", p.SKU, owner)
	}
	if prev, exists := s.products[p.ID]; exists {
		delete(s.skuIndex, prev.SKU)
	}

	s.products[p.ID] = p
	s.skuIndex[p.SKU] = p.ID
	return nil
}

// PutPurchaseOrder inserts or replaces a purchase order.
func (s *Source) PutPurchaseOrder(po inventory.PurchaseOrder) error {
	if !po.Status.Valid() {
		return fmt.Errorf("purchase order %d: unknown status %q", po.ID, po.Status)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.purchaseOrders[po.ID] = po
	return nil
}

// AddLine associates a product with a purchase order. Both must exist.
func (s *Source) AddLine(line inventory.OrderLine) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.products[line.ProductID]; !ok {
		return fmt.Errorf("line references unknown product %d", line.ProductID)
	}
	if _, ok := s.purchaseOrders[line.PurchaseOrderID]; !ok {
		return fmt.Errorf("line references unknown purchase order %d", line.PurchaseOrderID)
	}
	for _, existing := range s.linesByProduct[line.ProductID] {
		if existing.PurchaseOrderID == line.PurchaseOrderID {
			return fmt.Errorf("product %d already linked to purchase order %d", line.ProductID, line.PurchaseOrderID)
		}
	}

	s.linesByProduct[line.ProductID] = append(s.linesByProduct[line.ProductID], line)
	s.linesByOrder[line.PurchaseOrderID] = append(s.linesByOrder[line.PurchaseOrderID], line)
	return nil
}

// LinesForOrder returns the lines of one purchase order.
func (s *Source) LinesForOrder(purchaseOrderID int64) []inventory.OrderLine {
	s.mu.RLock()
	defer s.mu.RUnlock()

	lines := s.linesByOrder[purchaseOrderID]
	out := make([]inventory.OrderLine, len(lines))
	copy(out, lines)
	return out
}

// StockBySKU implements storage.Source.
func (s *Source) StockBySKU(ctx context.Context, sku string, now time.Time) (inventory.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return inventory.Snapshot{}, fmt.Errorf("%w: %w", inventory.ErrSourceUnavailable, err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.skuIndex[sku]
	if !ok {
		return inventory.Snapshot{}, fmt.Errorf("%w: sku %q", inventory.ErrNotFound, sku)
	}
	return s.snapshotLocked(s.products[id], now), nil
}

// StockAll implements storage.Source.
func (s *Source) StockAll(ctx context.Context, now time.Time) ([]inventory.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", inventory.ErrSourceUnavailable, err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	snapshots := make([]inventory.Snapshot, 0, len(s.products))
	for _, p := range s.products {
		snapshots = append(snapshots, s.snapshotLocked(p, now))
	}
	inventory.SortSnapshots(snapshots)
	return snapshots, nil
}

// OutstandingOrders implements storage.Source.
func (s *Source) OutstandingOrders(ctx context.Context, sku string, now time.Time) ([]inventory.OutstandingLine, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", inventory.ErrSourceUnavailable, err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.skuIndex[sku]
	if !ok {
		return nil, fmt.Errorf("%w: sku %q", inventory.ErrNotFound, sku)
	}

	lines := make([]inventory.OutstandingLine, 0)
	for _, line := range s.linesByProduct[id] {
		po := s.purchaseOrders[line.PurchaseOrderID]
		if !inventory.Qualifies(po, now) {
			continue
		}
		lines = append(lines, inventory.OutstandingLine{
			PurchaseOrderID:      po.ID,
			Status:               po.Status,
			ExpectedDeliveryDate: po.ExpectedDeliveryDate.UTC(),
			Quantity:             line.Quantity,
			Subtotal:             line.Subtotal,
		})
	}
	inventory.SortOutstanding(lines)
	return lines, nil
}

// Ping always succeeds.
func (s *Source) Ping(context.Context) error { return nil }

func (s *Source) snapshotLocked(p inventory.Product, now time.Time) inventory.Snapshot {
	lines := s.linesByProduct[p.ID]
	orders := make([]inventory.PurchaseOrder, 0, len(lines))
	for _, line := range lines {
		orders = append(orders, s.purchaseOrders[line.PurchaseOrderID])
	}

	return inventory.Snapshot{
		SKU:                  p.SKU,
		StockQuantity:        p.StockQuantity,
		ExpectedDeliveryDate: inventory.EarliestDelivery(orders, now),
	}
}
