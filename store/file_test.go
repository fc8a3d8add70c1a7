package store

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"stockledger/domain"
)

func TestFileStore_RoundTrip(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data")
	s, err := NewFileStore(dir)
	if err != nil {
		t.Fatalf("NewFileStore failed: %v", err)
	}
	ctx := context.Background()

	// nothing on disk yet
	products, err := s.LoadProducts(ctx)
	if err != nil || len(products) != 0 {
		t.Fatalf("expected no products, got %v, %v", products, err)
	}

	if err := s.SaveProducts(ctx, sampleProducts()); err != nil {
		t.Fatalf("SaveProducts failed: %v", err)
	}
	if err := s.SaveSales(ctx, sampleSales()); err != nil {
		t.Fatalf("SaveSales failed: %v", err)
	}

	// a fresh store over the same directory sees the saved state
	s2, err := NewFileStore(dir)
	if err != nil {
		t.Fatalf("NewFileStore (load) failed: %v", err)
	}
	products, err = s2.LoadProducts(ctx)
	if err != nil {
		t.Fatalf("LoadProducts failed: %v", err)
	}
	if len(products) != 2 || products[0].ID != "a1" {
		t.Fatalf("expected products sorted by id, got %+v", products)
	}
	if products[0].Price.String() != "4.99" {
		t.Fatalf("price not preserved: %s", products[0].Price)
	}

	sales, err := s2.LoadSales(ctx)
	if err != nil {
		t.Fatalf("LoadSales failed: %v", err)
	}
	if len(sales) != 2 || sales[0].ID != "s2" {
		t.Fatalf("expected sales in ledger order, got %+v", sales)
	}
	if sales[1].RefundedAt == nil || !sales[1].Total.Equal(sampleSales()[1].Total) {
		t.Fatalf("refunded sale not preserved: %+v", sales[1])
	}

	// Ensure file contains JSON array
	b, err := os.ReadFile(filepath.Join(dir, "products.json"))
	if err != nil {
		t.Fatalf("failed to read file: %v", err)
	}
	var arr []domain.Product
	if err := json.Unmarshal(b, &arr); err != nil {
		t.Fatalf("file content is not JSON array: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "products.json.tmp")); !os.IsNotExist(err) {
		t.Fatalf("temporary file left behind")
	}
}

func TestFileStore_EmptySnapshots(t *testing.T) {
	dir := t.TempDir()
	s, _ := NewFileStore(dir)
	ctx := context.Background()

	if err := s.SaveSales(ctx, nil); err != nil {
		t.Fatalf("SaveSales failed: %v", err)
	}
	b, _ := os.ReadFile(filepath.Join(dir, "sales.json"))
	if string(b) != "[]" {
		t.Fatalf("expected empty JSON array, got %q", b)
	}

	// empty file is treated as no data
	if err := os.WriteFile(filepath.Join(dir, "products.json"), nil, 0o644); err != nil {
		t.Fatal(err)
	}
	products, err := s.LoadProducts(ctx)
	if err != nil || len(products) != 0 {
		t.Fatalf("expected no products from empty file, got %v, %v", products, err)
	}
}

func TestFileStore_CorruptFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "sales.json"), []byte("this is not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	s, _ := NewFileStore(dir)
	if _, err := s.LoadSales(context.Background()); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestNewFileStore_InvalidPath(t *testing.T) {
	if _, err := NewFileStore(""); err == nil {
		t.Fatal("expected error for empty directory")
	}
	f := filepath.Join(t.TempDir(), "plain.json")
	if err := os.WriteFile(f, []byte("[]"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := NewFileStore(f); err == nil {
		t.Fatal("expected error when path is a regular file")
	}
}
