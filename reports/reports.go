// Package reports computes read-only summaries of the catalog and the ledger.
package reports

import (
	"cmp"
	"slices"

	"github.com/shopspring/decimal"

	"stockledger/domain"
)

// DefaultLowStockThreshold is used when no threshold is configured.
const DefaultLowStockThreshold = 5

// Catalog is the read side of the inventory manager.
type Catalog interface {
	List() []domain.Product
}

// Ledger is the read side of the sales manager.
type Ledger interface {
	ListSales() []domain.Sale
}

// StockStatus classifies a product's stock against the low-stock threshold.
type StockStatus string

const (
	InStock    StockStatus = "IN_STOCK"
	LowStock   StockStatus = "LOW_STOCK"
	OutOfStock StockStatus = "OUT_OF_STOCK"
)

// InventoryLine is one product row of the inventory report.
type InventoryLine struct {
	Product domain.Product  `json:"product"`
	Value   decimal.Decimal `json:"value"`
	Status  StockStatus     `json:"status"`
}

// InventoryReport summarises the catalog.
type InventoryReport struct {
	Threshold    int              `json:"threshold"`
	ProductCount int              `json:"product_count"`
	TotalUnits   int              `json:"total_units"`
	TotalValue   decimal.Decimal  `json:"total_value"`
	Lines        []InventoryLine  `json:"lines"`
	LowStock     []domain.Product `json:"low_stock"`
	OutOfStock   []domain.Product `json:"out_of_stock"`
}

// ProductSales aggregates the completed sales of one product.
type ProductSales struct {
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	Revenue     decimal.Decimal `json:"revenue"`
}

// SalesReport summarises the ledger. Refunded sales only show up in the
// refund counters.
type SalesReport struct {
	TransactionCount int             `json:"transaction_count"`
	CompletedCount   int             `json:"completed_count"`
	RefundedCount    int             `json:"refunded_count"`
	TotalRevenue     decimal.Decimal `json:"total_revenue"`
	RefundedAmount   decimal.Decimal `json:"refunded_amount"`
	AverageSale      decimal.Decimal `json:"average_sale"`
	TopSelling       []ProductSales  `json:"top_selling"`
	ByProduct        []ProductSales  `json:"by_product"`
}

// Reporter builds reports from the current state of a catalog and a ledger.
type Reporter struct {
	catalog   Catalog
	ledger    Ledger
	threshold int
}

// Option configures a Reporter.
type Option func(*Reporter)

// WithLowStockThreshold sets the stock level below which a product is low.
func WithLowStockThreshold(n int) Option {
	return func(r *Reporter) {
		if n >= 0 {
			r.threshold = n
		}
	}
}

// New constructs a Reporter.
func New(catalog Catalog, ledger Ledger, opts ...Option) *Reporter {
	r := &Reporter{catalog: catalog, ledger: ledger, threshold: DefaultLowStockThreshold}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Inventory reports stock value and stock alerts.
func (r *Reporter) Inventory() InventoryReport {
	products := r.catalog.List()
	rep := InventoryReport{
		Threshold:    r.threshold,
		ProductCount: len(products),
		TotalValue:   decimal.Zero,
		Lines:        make([]InventoryLine, 0, len(products)),
	}
	for _, p := range products {
		line := InventoryLine{Product: p, Value: p.Value(), Status: r.status(p)}
		switch line.Status {
		case OutOfStock:
			rep.OutOfStock = append(rep.OutOfStock, p)
		case LowStock:
			rep.LowStock = append(rep.LowStock, p)
		}
		rep.TotalUnits += p.Stock
		rep.TotalValue = rep.TotalValue.Add(line.Value)
		rep.Lines = append(rep.Lines, line)
	}
	return rep
}

// Sales reports revenue from completed sales and ranks products by units sold.
func (r *Reporter) Sales() SalesReport {
	rep := SalesReport{
		TotalRevenue:   decimal.Zero,
		RefundedAmount: decimal.Zero,
		AverageSale:    decimal.Zero,
	}
	byID := make(map[string]*ProductSales)
	for _, s := range r.ledger.ListSales() {
		rep.TransactionCount++
		if !s.Completed() {
			rep.RefundedCount++
			rep.RefundedAmount = rep.RefundedAmount.Add(s.Total)
			continue
		}
		rep.CompletedCount++
		rep.TotalRevenue = rep.TotalRevenue.Add(s.Total)

		ps, ok := byID[s.ProductID]
		if !ok {
			ps = &ProductSales{ProductID: s.ProductID, Revenue: decimal.Zero}
			byID[s.ProductID] = ps
		}
		// the name snapshotted by the most recent completed sale wins
		ps.ProductName = s.ProductName
		ps.Quantity += s.Quantity
		ps.Revenue = ps.Revenue.Add(s.Total)
	}
	if rep.CompletedCount > 0 {
		rep.AverageSale = rep.TotalRevenue.Div(decimal.NewFromInt(int64(rep.CompletedCount)))
	}

	rep.ByProduct = make([]ProductSales, 0, len(byID))
	for _, ps := range byID {
		rep.ByProduct = append(rep.ByProduct, *ps)
	}
	slices.SortFunc(rep.ByProduct, func(a, b ProductSales) int {
		return cmp.Compare(a.ProductID, b.ProductID)
	})

	rep.TopSelling = slices.Clone(rep.ByProduct)
	slices.SortStableFunc(rep.TopSelling, func(a, b ProductSales) int {
		if c := cmp.Compare(b.Quantity, a.Quantity); c != 0 {
			return c
		}
		return cmp.Compare(a.ProductID, b.ProductID)
	})
	return rep
}

func (r *Reporter) status(p domain.Product) StockStatus {
	switch {
	case p.Stock == 0:
		return OutOfStock
	case p.Stock < r.threshold:
		return LowStock
	default:
		return InStock
	}
}
