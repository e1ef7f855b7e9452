package inventory

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus is the lifecycle state of a purchase order.
type OrderStatus string

const (
	StatusCreated         OrderStatus = "CREATED"
	StatusConfirmed       OrderStatus = "CONFIRMED"
	StatusPendingDelivery OrderStatus = "PENDING_DELIVERY"
	StatusDone            OrderStatus = "DONE"
	StatusCancelled       OrderStatus = "CANCELLED"
)

// Outstanding reports whether orders in this status can still deliver stock.
func (s OrderStatus) Outstanding() bool {
	return s == StatusConfirmed || s == StatusPendingDelivery
}

// Valid reports whether s is a known status.
func (s OrderStatus) Valid() bool {
	switch s {
	case StatusCreated, StatusConfirmed, StatusPendingDelivery, StatusDone, StatusCancelled:
		return true
	}
	return false
}

// Product is the base inventory record.
type Product struct {
	ID            int64  `yaml:"id"`
	SKU           string `yaml:"sku"`
	StockQuantity int64  `yaml:"stock_quantity"`
}

// PurchaseOrder is an order placed with a supplier.
type PurchaseOrder struct {
	ID                   int64       `yaml:"id"`
	CreatedAt            time.Time   `yaml:"created_at"`
	ExpectedDeliveryDate *time.Time  `yaml:"expected_delivery_date"`
	ActualDeliveryDate   *time.Time  `yaml:"actual_delivery_date"`
	Status               OrderStatus `yaml:"status"`
}

// OrderLine associates a product with a purchase order.
type OrderLine struct {
	ProductID       int64           `yaml:"product_id"`
	PurchaseOrderID int64           `yaml:"purchase_order_id"`
	Quantity        int64           `yaml:"quantity"`
	Subtotal        decimal.Decimal `yaml:"subtotal"`
}

// Snapshot is the derived stock view of one product.
// ExpectedDeliveryDate is nil when no qualifying purchase order exists.
type Snapshot struct {
	SKU                  string     `json:"sku"`
	StockQuantity        int64      `json:"stock_quantity"`
	ExpectedDeliveryDate *time.Time `json:"expected_delivery_date,omitempty"`
}

// OutstandingLine is one qualifying purchase-order line for a product.
type OutstandingLine struct {
	PurchaseOrderID      int64           `json:"purchase_order_id"`
	Status               OrderStatus     `json:"status"`
	ExpectedDeliveryDate time.Time       `json:"expected_delivery_date"`
	Quantity             int64           `json:"quantity"`
	Subtotal             decimal.Decimal `json:"subtotal"`
}
