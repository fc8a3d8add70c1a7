// Package store provides storage adapters for the catalog and the sale ledger.
package store

import (
	"context"
	"slices"
	"sync"

	"stockledger/domain"
)

// InMemoryStore keeps snapshots for the lifetime of the process.
type InMemoryStore struct {
	mu       sync.RWMutex
	products []domain.Product
	sales    []domain.Sale
}

// NewInMemoryStore constructs a new InMemoryStore
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{}
}

// compile-time assertion that InMemoryStore implements domain.Storage
var _ domain.Storage = (*InMemoryStore)(nil)

func (s *InMemoryStore) LoadProducts(ctx context.Context) ([]domain.Product, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.products), nil
}

func (s *InMemoryStore) SaveProducts(ctx context.Context, products []domain.Product) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.products = slices.Clone(products)
	return nil
}

func (s *InMemoryStore) LoadSales(ctx context.Context) ([]domain.Sale, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneSales(s.sales), nil
}

func (s *InMemoryStore) SaveSales(ctx context.Context, sales []domain.Sale) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sales = cloneSales(sales)
	return nil
}

// cloneSales copies the slice and the refund timestamps it points to.
func cloneSales(in []domain.Sale) []domain.Sale {
	if in == nil {
		return nil
	}
	out := make([]domain.Sale, len(in))
	for i, s := range in {
		if s.RefundedAt != nil {
			at := *s.RefundedAt
			s.RefundedAt = &at
		}
		out[i] = s
	}
	return out
}
