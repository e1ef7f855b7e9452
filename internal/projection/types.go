package projection

import (
	"github.com/aevon-lab/stockpulse/internal/core/inventory"
	"github.com/shopspring/decimal"
)

// StockResponse is the body of GET /v1/stock/:sku.
type StockResponse = inventory.Snapshot

// CatalogResponse is the body of GET /v1/stock.
type CatalogResponse struct {
	Items []inventory.Snapshot `json:"items"`
	Count int                  `json:"count"`
}

// OutstandingResponse is the body of GET /v1/stock/:sku/purchase-orders.
// Incoming totals are informational; they never change stock_quantity.
type OutstandingResponse struct {
	SKU              string                      `json:"sku"`
	Lines            []inventory.OutstandingLine `json:"lines"`
	IncomingQuantity int64                       `json:"incoming_quantity"`
	IncomingValue    decimal.Decimal             `json:"incoming_value"`
}

func newOutstandingResponse(sku string, lines []inventory.OutstandingLine) OutstandingResponse {
	resp := OutstandingResponse{SKU: sku, Lines: lines, IncomingValue: decimal.Zero}
	for _, line := range lines {
		resp.IncomingQuantity += line.Quantity
		resp.IncomingValue = resp.IncomingValue.Add(line.Subtotal)
	}
	return resp
}
