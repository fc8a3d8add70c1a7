// Package domain defines core business types and interfaces.
package domain

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"
)

// Product represents a catalog product
type Product struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
	Stock int             `json:"stock"`
}

// Value returns price × stock for the product.
func (p Product) Value() decimal.Decimal {
	return p.Price.Mul(decimal.NewFromInt(int64(p.Stock)))
}

// ProductUpdate carries the mutable catalog fields. Nil fields are left as they are.
// Stock is deliberately absent: it only moves through sales, refunds and restocks.
type ProductUpdate struct {
	Name  *string
	Price *decimal.Decimal
}

// NormalizeProduct trims the identifying text fields of p.
func NormalizeProduct(p Product) Product {
	p.ID = strings.TrimSpace(p.ID)
	p.Name = strings.TrimSpace(p.Name)
	return p
}

// ValidateProduct checks the catalog invariants for a single product.
func ValidateProduct(p Product) error {
	if strings.TrimSpace(p.ID) == "" {
		return NewInvalidProductError("id", "cannot be empty", p.ID)
	}
	if err := ValidateName(p.Name); err != nil {
		return err
	}
	if err := ValidatePrice(p.Price); err != nil {
		return err
	}
	if p.Stock < 0 {
		return NewInvalidProductError("stock", "must be non-negative", p.Stock)
	}
	return nil
}

// ValidateName rejects empty and whitespace-only names.
func ValidateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return NewInvalidProductError("name", "cannot be empty", name)
	}
	return nil
}

// ValidatePrice rejects negative prices.
func ValidatePrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return NewInvalidProductError("price", "must be non-negative", price)
	}
	return nil
}

// Storage is the persistence adapter for the catalog and the ledger.
// Implementations must not apply business rules; they only move snapshots.
type Storage interface {
	LoadProducts(ctx context.Context) ([]Product, error)
	SaveProducts(ctx context.Context, products []Product) error
	LoadSales(ctx context.Context) ([]Sale, error)
	SaveSales(ctx context.Context, sales []Sale) error
}
