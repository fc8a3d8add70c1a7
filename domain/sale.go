package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleStatus is the lifecycle state of a sale. The only transition is COMPLETED -> REFUNDED.
type SaleStatus string

const (
	SaleCompleted SaleStatus = "COMPLETED"
	SaleRefunded  SaleStatus = "REFUNDED"
)

// Valid reports whether s is a known status.
func (s SaleStatus) Valid() bool {
	return s == SaleCompleted || s == SaleRefunded
}

// Sale is a single ledger entry against one product.
// Everything except Status and RefundedAt is fixed at creation.
type Sale struct {
	ID          string          `json:"id"`
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Total       decimal.Decimal `json:"total"`
	Status      SaleStatus      `json:"status"`
	Timestamp   time.Time       `json:"timestamp"`
	RefundedAt  *time.Time      `json:"refunded_at,omitempty"`
}

// NewSale builds a COMPLETED sale, snapshotting the product's name and price.
func NewSale(id string, p Product, quantity int, at time.Time) Sale {
	return Sale{
		ID:          id,
		ProductID:   p.ID,
		ProductName: p.Name,
		Quantity:    quantity,
		UnitPrice:   p.Price,
		Total:       p.Price.Mul(decimal.NewFromInt(int64(quantity))),
		Status:      SaleCompleted,
		Timestamp:   at,
	}
}

// Completed reports whether the sale still counts towards revenue and holds stock.
func (s Sale) Completed() bool {
	return s.Status == SaleCompleted
}
