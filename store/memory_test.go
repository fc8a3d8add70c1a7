package store

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"stockledger/domain"
)

func sampleProducts() []domain.Product {
	return []domain.Product{
		{ID: "b2", Name: "Beta", Price: decimal.RequireFromString("20.00"), Stock: 2},
		{ID: "a1", Name: "Alpha", Price: decimal.RequireFromString("4.99"), Stock: 0},
	}
}

func sampleSales() []domain.Sale {
	at := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	refunded := at.Add(time.Hour)
	return []domain.Sale{
		{ID: "s2", ProductID: "b2", ProductName: "Beta", Quantity: 1, UnitPrice: decimal.RequireFromString("20"), Total: decimal.RequireFromString("20"), Status: domain.SaleCompleted, Timestamp: at},
		{ID: "s1", ProductID: "a1", ProductName: "Alpha", Quantity: 3, UnitPrice: decimal.RequireFromString("4.99"), Total: decimal.RequireFromString("14.97"), Status: domain.SaleRefunded, Timestamp: at, RefundedAt: &refunded},
	}
}

func TestInMemoryStore_RoundTrip(t *testing.T) {
	s := NewInMemoryStore()
	ctx := context.Background()

	products, err := s.LoadProducts(ctx)
	if err != nil || len(products) != 0 {
		t.Fatalf("expected empty store, got %v, %v", products, err)
	}

	if err := s.SaveProducts(ctx, sampleProducts()); err != nil {
		t.Fatalf("save products failed: %v", err)
	}
	if err := s.SaveSales(ctx, sampleSales()); err != nil {
		t.Fatalf("save sales failed: %v", err)
	}

	products, err = s.LoadProducts(ctx)
	if err != nil {
		t.Fatalf("load products failed: %v", err)
	}
	if len(products) != 2 || products[0].ID != "b2" {
		t.Fatalf("unexpected products %+v", products)
	}

	sales, err := s.LoadSales(ctx)
	if err != nil {
		t.Fatalf("load sales failed: %v", err)
	}
	if len(sales) != 2 || sales[0].ID != "s2" || sales[1].Status != domain.SaleRefunded {
		t.Fatalf("unexpected sales %+v", sales)
	}
}

func TestInMemoryStore_SnapshotsAreCopies(t *testing.T) {
	s := NewInMemoryStore()
	ctx := context.Background()

	in := sampleSales()
	if err := s.SaveSales(ctx, in); err != nil {
		t.Fatal(err)
	}
	in[0].Quantity = 99
	*in[1].RefundedAt = time.Time{}

	out, _ := s.LoadSales(ctx)
	if out[0].Quantity != 1 {
		t.Fatalf("store must not alias the caller's slice")
	}
	if out[1].RefundedAt.IsZero() {
		t.Fatalf("store must not alias refund timestamps")
	}

	out[0].Quantity = 42
	again, _ := s.LoadSales(ctx)
	if again[0].Quantity != 1 {
		t.Fatalf("loaded snapshots must not alias the store")
	}
}

func TestInMemoryStore_Cancelled(t *testing.T) {
	s := NewInMemoryStore()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := s.LoadProducts(ctx); err == nil {
		t.Fatal("expected context error from LoadProducts")
	}
	if err := s.SaveProducts(ctx, nil); err == nil {
		t.Fatal("expected context error from SaveProducts")
	}
	if _, err := s.LoadSales(ctx); err == nil {
		t.Fatal("expected context error from LoadSales")
	}
	if err := s.SaveSales(ctx, nil); err == nil {
		t.Fatal("expected context error from SaveSales")
	}
}
