package inventory

import (
	"sort"
	"time"
)

// Qualifies reports whether po contributes a delivery hint at now: it must be
// outstanding and its expected delivery must not be before now.
func Qualifies(po PurchaseOrder, now time.Time) bool {
	if !po.Status.Outstanding() || po.ExpectedDeliveryDate == nil {
		return false
	}
	return !po.ExpectedDeliveryDate.Before(now)
}

// EarliestDelivery returns the minimum expected delivery among qualifying
// orders, or nil if none qualify.
func EarliestDelivery(orders []PurchaseOrder, now time.Time) *time.Time {
	var earliest *time.Time
	for _, po := range orders {
		if !Qualifies(po, now) {
			continue
		}
		if earliest == nil || po.ExpectedDeliveryDate.Before(*earliest) {
			t := po.ExpectedDeliveryDate.UTC()
			earliest = &t
		}
	}
	return earliest
}

// SortSnapshots orders snapshots by stock quantity descending, SKU ascending.
func SortSnapshots(items []Snapshot) {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].StockQuantity != items[j].StockQuantity {
			return items[i].StockQuantity > items[j].StockQuantity
		}
		return items[i].SKU < items[j].SKU
	})
}

// SortOutstanding orders lines by expected delivery ascending, then purchase order id.
func SortOutstanding(lines []OutstandingLine) {
	sort.SliceStable(lines, func(i, j int) bool {
		if !lines[i].ExpectedDeliveryDate.Equal(lines[j].ExpectedDeliveryDate) {
			return lines[i].ExpectedDeliveryDate.Before(lines[j].ExpectedDeliveryDate)
		}
		return lines[i].PurchaseOrderID < lines[j].PurchaseOrderID
	})
}
