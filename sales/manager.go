// Package sales keeps the sale ledger and drives stock changes in the catalog.
package sales

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"stockledger/domain"
	"stockledger/inventory"
	"stockledger/util"
)

// Manager owns the ledger. Sales are kept in creation order.
type Manager struct {
	inv   *inventory.Manager
	sales []*domain.Sale
	byID  map[string]*domain.Sale
	now   func() time.Time
	newID func() string
}

// Option configures a Manager.
type Option func(*Manager)

// WithClock overrides the time source used for sale and refund timestamps.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// WithIDGenerator overrides how sale ids are produced.
func WithIDGenerator(gen func() string) Option {
	return func(m *Manager) { m.newID = gen }
}

// NewManager builds a ledger over inv and registers itself as the catalog's
// usage checker, so products with completed sales cannot be removed.
func NewManager(inv *inventory.Manager, opts ...Option) *Manager {
	m := &Manager{
		inv:   inv,
		byID:  make(map[string]*domain.Sale),
		now:   time.Now,
		newID: util.NewSaleID,
	}
	for _, opt := range opts {
		opt(m)
	}
	inv.SetUsageChecker(m)
	return m
}

// RecordSale sells qty units of a product. Nothing is written to the catalog
// or the ledger unless the whole sale succeeds.
func (m *Manager) RecordSale(productID string, qty int) (domain.Sale, error) {
	p, err := m.inv.GetProduct(productID)
	if err != nil {
		return domain.Sale{}, err
	}
	if qty <= 0 {
		return domain.Sale{}, domain.NewInvalidQuantityError(qty)
	}
	id, err := m.nextID()
	if err != nil {
		return domain.Sale{}, err
	}
	if err := m.inv.DecreaseStock(p.ID, qty); err != nil {
		return domain.Sale{}, err
	}

	s := domain.NewSale(id, p, qty, m.now())
	m.append(&s)
	return s, nil
}

// CancelSale refunds a completed sale and puts its units back in stock.
func (m *Manager) CancelSale(saleID string) (domain.Sale, error) {
	s, ok := m.byID[saleID]
	if !ok {
		return domain.Sale{}, domain.NewSaleNotFoundError(saleID)
	}
	if !s.Completed() {
		return domain.Sale{}, domain.NewAlreadyRefundedError(saleID)
	}
	if err := m.inv.IncreaseStock(s.ProductID, s.Quantity); err != nil {
		return domain.Sale{}, err
	}

	at := m.now()
	s.Status = domain.SaleRefunded
	s.RefundedAt = &at
	return *s, nil
}

// RefundSale is CancelSale.
func (m *Manager) RefundSale(saleID string) (domain.Sale, error) {
	return m.CancelSale(saleID)
}

// GetSale returns a copy of the sale.
func (m *Manager) GetSale(saleID string) (domain.Sale, error) {
	s, ok := m.byID[saleID]
	if !ok {
		return domain.Sale{}, domain.NewSaleNotFoundError(saleID)
	}
	return *s, nil
}

// ListSales returns the ledger in creation order.
func (m *Manager) ListSales() []domain.Sale {
	out := make([]domain.Sale, 0, len(m.sales))
	for _, s := range m.sales {
		out = append(out, *s)
	}
	return out
}

// SalesForProduct returns every sale of a product, refunded ones included.
func (m *Manager) SalesForProduct(productID string) []domain.Sale {
	var out []domain.Sale
	for _, s := range m.sales {
		if s.ProductID == productID {
			out = append(out, *s)
		}
	}
	return out
}

// OpenSales counts the completed sales of a product.
func (m *Manager) OpenSales(productID string) int {
	n := 0
	for _, s := range m.sales {
		if s.ProductID == productID && s.Completed() {
			n++
		}
	}
	return n
}

var (
	// ErrCorruptLedger is returned by Restore when saved sales cannot form a valid ledger.
	ErrCorruptLedger = errors.New("corrupt ledger")
	// ErrNoFreeID is returned when the id generator keeps producing taken or empty ids.
	ErrNoFreeID = errors.New("no free sale id")
)

// maxIDAttempts bounds how many ids RecordSale draws before giving up.
const maxIDAttempts = 100

// Restore appends previously saved sales to the ledger, keeping their order.
// Stock is not touched: the saved catalog already reflects these sales.
func (m *Manager) Restore(sales []domain.Sale) error {
	seen := make(map[string]struct{}, len(sales))
	for i, s := range sales {
		if s.ID == "" {
			return fmt.Errorf("%w: sale #%d has no id", ErrCorruptLedger, i)
		}
		_, inBatch := seen[s.ID]
		_, inLedger := m.byID[s.ID]
		if inBatch || inLedger {
			return fmt.Errorf("%w: duplicate sale id %s", ErrCorruptLedger, s.ID)
		}
		if s.ProductID == "" {
			return fmt.Errorf("%w: sale %s has no product id", ErrCorruptLedger, s.ID)
		}
		if s.Quantity <= 0 {
			return fmt.Errorf("%w: sale %s: %w", ErrCorruptLedger, s.ID, domain.NewInvalidQuantityError(s.Quantity))
		}
		if !s.Status.Valid() {
			return fmt.Errorf("%w: sale %s has unknown status %q", ErrCorruptLedger, s.ID, s.Status)
		}
		if want := s.UnitPrice.Mul(decimal.NewFromInt(int64(s.Quantity))); !s.Total.Equal(want) {
			return fmt.Errorf("%w: sale %s total %s, want %s", ErrCorruptLedger, s.ID, s.Total, want)
		}
		seen[s.ID] = struct{}{}
	}
	for _, s := range sales {
		m.append(&s)
	}
	return nil
}

func (m *Manager) append(s *domain.Sale) {
	m.sales = append(m.sales, s)
	m.byID[s.ID] = s
}

// nextID draws ids until one is free; generators are not required to be
// collision free.
func (m *Manager) nextID() (string, error) {
	for range maxIDAttempts {
		id := m.newID()
		if _, taken := m.byID[id]; !taken && id != "" {
			return id, nil
		}
	}
	return "", fmt.Errorf("%w after %d attempts", ErrNoFreeID, maxIDAttempts)
}
