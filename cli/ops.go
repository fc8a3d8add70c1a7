package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"stockledger/domain"
	"stockledger/util"
)

// commit persists state after a successful mutation and logs it.
func (s *session) commit(ctx context.Context, start time.Time, msg string, attrs ...any) error {
	if err := s.save(ctx); err != nil {
		return err
	}
	slog.Info(msg, append(attrs, "duration_ms", time.Since(start).Milliseconds())...)
	return nil
}

func (s *session) addProduct(ctx context.Context, id, name string, price decimal.Decimal, stock int) (domain.Product, error) {
	id = orNewID(id)
	start := time.Now()
	p, err := s.inv.AddProduct(id, name, price, stock)
	if err != nil {
		slog.Error("add failed", "product_id", id, "error", err)
		return domain.Product{}, err
	}
	return p, s.commit(ctx, start, "product added", "product_id", p.ID)
}

func (s *session) updateProduct(ctx context.Context, id string, upd domain.ProductUpdate) (domain.Product, error) {
	start := time.Now()
	p, err := s.inv.UpdateProduct(id, upd)
	if err != nil {
		slog.Error("update failed", "product_id", id, "error", err)
		return domain.Product{}, err
	}
	return p, s.commit(ctx, start, "product updated", "product_id", id)
}

func (s *session) removeProduct(ctx context.Context, id string) error {
	start := time.Now()
	if err := s.inv.RemoveProduct(id); err != nil {
		slog.Error("remove failed", "product_id", id, "error", err)
		return err
	}
	return s.commit(ctx, start, "product removed", "product_id", id)
}

func (s *session) restock(ctx context.Context, id string, qty int) (domain.Product, error) {
	start := time.Now()
	p, err := s.inv.Restock(id, qty)
	if err != nil {
		slog.Error("restock failed", "product_id", id, "quantity", qty, "error", err)
		return domain.Product{}, err
	}
	return p, s.commit(ctx, start, "product restocked", "product_id", id, "quantity", qty, "stock", p.Stock)
}

func (s *session) recordSale(ctx context.Context, productID string, qty int) (domain.Sale, error) {
	start := time.Now()
	sale, err := s.ledger.RecordSale(productID, qty)
	if err != nil {
		slog.Error("sale failed", "product_id", productID, "quantity", qty, "error", err)
		return domain.Sale{}, err
	}
	return sale, s.commit(ctx, start, "sale recorded", "sale_id", sale.ID, "product_id", productID, "total", sale.Total.String())
}

func (s *session) cancelSale(ctx context.Context, saleID string) (domain.Sale, error) {
	start := time.Now()
	sale, err := s.ledger.CancelSale(saleID)
	if err != nil {
		slog.Error("cancel failed", "sale_id", saleID, "error", err)
		return domain.Sale{}, err
	}
	return sale, s.commit(ctx, start, "sale refunded", "sale_id", saleID, "product_id", sale.ProductID)
}

// importProducts adds each product in turn. Rejected records are reported
// together; accepted ones stay in the catalog.
func (s *session) importProducts(ctx context.Context, products []domain.Product) (int, error) {
	start := time.Now()
	var errs []error
	added := 0
	for i, p := range products {
		if _, err := s.inv.AddProduct(orNewID(p.ID), p.Name, p.Price, p.Stock); err != nil {
			errs = append(errs, fmt.Errorf("record %d: %w", i+1, err))
			continue
		}
		added++
	}
	if added > 0 {
		if err := s.commit(ctx, start, "products imported", "count", added, "rejected", len(errs)); err != nil {
			return added, err
		}
	}
	if err := errors.Join(errs...); err != nil {
		slog.Error("import incomplete", "rejected", len(errs), "error", err)
		return added, err
	}
	return added, nil
}

func orNewID(id string) string {
	if strings.TrimSpace(id) == "" {
		return util.NewProductID()
	}
	return id
}
