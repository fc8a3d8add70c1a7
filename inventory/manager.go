// Package inventory owns the product catalog and its stock invariants.
package inventory

import (
	"iter"
	"math"
	"slices"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"

	"stockledger/domain"
)

// UsageChecker reports whether completed sales still reference a product.
type UsageChecker interface {
	OpenSales(productID string) int
}

// Manager is the catalog. It is not safe for concurrent use: the ledger
// assumes a single actor drives it.
type Manager struct {
	products map[string]*domain.Product
	usage    UsageChecker
}

// NewManager constructs an empty catalog
func NewManager() *Manager {
	return &Manager{
		products: make(map[string]*domain.Product),
	}
}

// SetUsageChecker installs the guard consulted by RemoveProduct.
func (m *Manager) SetUsageChecker(c UsageChecker) {
	m.usage = c
}

// AddProduct validates and inserts a new product.
func (m *Manager) AddProduct(id, name string, price decimal.Decimal, stock int) (domain.Product, error) {
	p := domain.NormalizeProduct(domain.Product{ID: id, Name: name, Price: price, Stock: stock})
	if err := domain.ValidateProduct(p); err != nil {
		return domain.Product{}, err
	}
	if _, exists := m.products[p.ID]; exists {
		return domain.Product{}, domain.NewDuplicateProductError(p.ID)
	}
	m.products[p.ID] = &p
	return p, nil
}

// UpdateProduct changes name and/or price. Both values are validated before
// either is written.
func (m *Manager) UpdateProduct(id string, upd domain.ProductUpdate) (domain.Product, error) {
	id = strings.TrimSpace(id)
	p, ok := m.products[id]
	if !ok {
		return domain.Product{}, domain.NewProductNotFoundError(id)
	}
	if upd.Name != nil {
		if err := domain.ValidateName(*upd.Name); err != nil {
			return domain.Product{}, err
		}
	}
	if upd.Price != nil {
		if err := domain.ValidatePrice(*upd.Price); err != nil {
			return domain.Product{}, err
		}
	}

	if upd.Name != nil {
		p.Name = strings.TrimSpace(*upd.Name)
	}
	if upd.Price != nil {
		p.Price = *upd.Price
	}
	return *p, nil
}

// RemoveProduct deletes a product that no completed sale references.
func (m *Manager) RemoveProduct(id string) error {
	id = strings.TrimSpace(id)
	if _, ok := m.products[id]; !ok {
		return domain.NewProductNotFoundError(id)
	}
	if m.usage != nil {
		if n := m.usage.OpenSales(id); n > 0 {
			return domain.NewProductInUseError(id, n)
		}
	}
	delete(m.products, id)
	return nil
}

// GetProduct returns a copy of the product.
func (m *Manager) GetProduct(id string) (domain.Product, error) {
	id = strings.TrimSpace(id)
	p, ok := m.products[id]
	if !ok {
		return domain.Product{}, domain.NewProductNotFoundError(id)
	}
	return *p, nil
}

// List returns every product ordered by id.
func (m *Manager) List() []domain.Product {
	return slices.Collect(m.all())
}

// Count returns the number of products in the catalog.
func (m *Manager) Count() int {
	return len(m.products)
}

// TotalValue sums price × stock over the catalog.
func (m *Manager) TotalValue() decimal.Decimal {
	total := decimal.Zero
	for _, p := range m.products {
		total = total.Add(p.Value())
	}
	return total
}

// SearchByName yields products whose name contains substr, ignoring case.
func (m *Manager) SearchByName(substr string) iter.Seq[domain.Product] {
	needle := fold(strings.TrimSpace(substr))
	return m.filter(func(p domain.Product) bool {
		return strings.Contains(fold(p.Name), needle)
	})
}

// SearchByID yields the product with the given id, if any.
func (m *Manager) SearchByID(id string) iter.Seq[domain.Product] {
	id = strings.TrimSpace(id)
	return func(yield func(domain.Product) bool) {
		if p, ok := m.products[id]; ok {
			yield(*p)
		}
	}
}

// FilterByPriceRange yields products priced within [min, max]. A nil bound is open.
func (m *Manager) FilterByPriceRange(lo, hi *decimal.Decimal) (iter.Seq[domain.Product], error) {
	if lo != nil && hi != nil && lo.GreaterThan(*hi) {
		return nil, domain.NewInvalidFilterRangeError("price", *lo, *hi)
	}
	return m.filter(func(p domain.Product) bool {
		if lo != nil && p.Price.LessThan(*lo) {
			return false
		}
		if hi != nil && p.Price.GreaterThan(*hi) {
			return false
		}
		return true
	}), nil
}

// FilterByStockLevel yields products whose stock is within [min, max]. A nil bound is open.
func (m *Manager) FilterByStockLevel(lo, hi *int) (iter.Seq[domain.Product], error) {
	if lo != nil && hi != nil && *lo > *hi {
		return nil, domain.NewInvalidFilterRangeError("stock", *lo, *hi)
	}
	return m.filter(func(p domain.Product) bool {
		if lo != nil && p.Stock < *lo {
			return false
		}
		if hi != nil && p.Stock > *hi {
			return false
		}
		return true
	}), nil
}

// DecreaseStock removes qty units. It is driven by the sales ledger.
func (m *Manager) DecreaseStock(id string, qty int) error {
	if qty <= 0 {
		return domain.NewInvalidQuantityError(qty)
	}
	id = strings.TrimSpace(id)
	p, ok := m.products[id]
	if !ok {
		return domain.NewProductNotFoundError(id)
	}
	if qty > p.Stock {
		return domain.NewInsufficientStockError(id, p.Stock, qty)
	}
	p.Stock -= qty
	return nil
}

// IncreaseStock adds qty units back. Used for refunds and restocking.
func (m *Manager) IncreaseStock(id string, qty int) error {
	if qty <= 0 {
		return domain.NewInvalidQuantityError(qty)
	}
	id = strings.TrimSpace(id)
	p, ok := m.products[id]
	if !ok {
		return domain.NewProductNotFoundError(id)
	}
	// stock must stay representable
	if qty > math.MaxInt-p.Stock {
		return domain.NewInvalidQuantityError(qty)
	}
	p.Stock += qty
	return nil
}

// Restock replenishes a product and returns its new state.
func (m *Manager) Restock(id string, qty int) (domain.Product, error) {
	id = strings.TrimSpace(id)
	if err := m.IncreaseStock(id, qty); err != nil {
		return domain.Product{}, err
	}
	return m.GetProduct(id)
}

// Restore loads previously saved products into the catalog.
// Nothing is loaded unless every product is valid and ids are unique.
func (m *Manager) Restore(products []domain.Product) error {
	loaded := make(map[string]*domain.Product, len(products))
	for _, p := range products {
		p := domain.NormalizeProduct(p)
		if err := domain.ValidateProduct(p); err != nil {
			return err
		}
		if _, dup := loaded[p.ID]; dup {
			return domain.NewDuplicateProductError(p.ID)
		}
		loaded[p.ID] = &p
	}
	for id := range m.products {
		if _, dup := loaded[id]; dup {
			return domain.NewDuplicateProductError(id)
		}
	}
	for id, p := range loaded {
		m.products[id] = p
	}
	return nil
}

// all yields copies of every product in ascending id order. The key set is
// read when iteration starts, so each range over the sequence sees the
// current catalog.
func (m *Manager) all() iter.Seq[domain.Product] {
	return func(yield func(domain.Product) bool) {
		ids := make([]string, 0, len(m.products))
		for id := range m.products {
			ids = append(ids, id)
		}
		slices.Sort(ids)
		for _, id := range ids {
			p, ok := m.products[id]
			if !ok {
				continue
			}
			if !yield(*p) {
				return
			}
		}
	}
}

func (m *Manager) filter(keep func(domain.Product) bool) iter.Seq[domain.Product] {
	return func(yield func(domain.Product) bool) {
		for p := range m.all() {
			if keep(p) && !yield(p) {
				return
			}
		}
	}
}

func fold(s string) string {
	return cases.Fold().String(s)
}
