package sales

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockledger/domain"
	"stockledger/inventory"
)

var epoch = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

func price(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// sequence returns a deterministic id generator: s-1, s-2, ...
func sequence() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("s-%d", n)
	}
}

// ticking returns a clock advancing one minute per call.
func ticking() func() time.Time {
	t := epoch
	return func() time.Time {
		t = t.Add(time.Minute)
		return t
	}
}

func setup(t *testing.T) (*inventory.Manager, *Manager) {
	t.Helper()
	inv := inventory.NewManager()
	_, err := inv.AddProduct("P1", "Widget", price("10.0"), 5)
	require.NoError(t, err)
	_, err = inv.AddProduct("P2", "Gadget", price("3.25"), 100)
	require.NoError(t, err)
	return inv, NewManager(inv, WithIDGenerator(sequence()), WithClock(ticking()))
}

func stockOf(t *testing.T, inv *inventory.Manager, id string) int {
	t.Helper()
	p, err := inv.GetProduct(id)
	require.NoError(t, err)
	return p.Stock
}

func completedRevenue(m *Manager) decimal.Decimal {
	total := decimal.Zero
	for _, s := range m.ListSales() {
		if s.Completed() {
			total = total.Add(s.Total)
		}
	}
	return total
}

func TestWidgetScenario(t *testing.T) {
	inv, m := setup(t)

	first, err := m.RecordSale("P1", 3)
	require.NoError(t, err)
	assert.Equal(t, 2, stockOf(t, inv, "P1"))
	assert.True(t, first.Total.Equal(price("30.0")), "total was %s", first.Total)
	assert.Equal(t, domain.SaleCompleted, first.Status)

	_, err = m.RecordSale("P1", 5)
	assert.True(t, domain.IsInsufficientStockError(err))
	assert.Equal(t, 2, stockOf(t, inv, "P1"))
	assert.Len(t, m.ListSales(), 1, "failed sale must not reach the ledger")

	refunded, err := m.CancelSale(first.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.SaleRefunded, refunded.Status)
	assert.Equal(t, 5, stockOf(t, inv, "P1"))
	assert.True(t, completedRevenue(m).IsZero())
}

func TestRecordSale_Errors(t *testing.T) {
	inv, m := setup(t)

	t.Run("unknown product", func(t *testing.T) {
		_, err := m.RecordSale("nope", 1)
		assert.True(t, domain.IsProductNotFoundError(err))
	})

	for _, qty := range []int{0, -2} {
		t.Run(fmt.Sprintf("quantity %d", qty), func(t *testing.T) {
			_, err := m.RecordSale("P1", qty)
			var iqe *domain.InvalidQuantityError
			require.ErrorAs(t, err, &iqe)
			assert.Equal(t, qty, iqe.Quantity)
		})
	}

	assert.Equal(t, 5, stockOf(t, inv, "P1"))
	assert.Empty(t, m.ListSales())
}

func TestRecordSale_SnapshotsPrice(t *testing.T) {
	inv, m := setup(t)

	s, err := m.RecordSale("P1", 2)
	require.NoError(t, err)

	newPrice := price("99")
	_, err = inv.UpdateProduct("P1", domain.ProductUpdate{Price: &newPrice})
	require.NoError(t, err)

	got, err := m.GetSale(s.ID)
	require.NoError(t, err)
	assert.True(t, got.UnitPrice.Equal(price("10")))
	assert.True(t, got.Total.Equal(price("20")))
	assert.Equal(t, "Widget", got.ProductName)
	assert.Equal(t, epoch.Add(time.Minute), got.Timestamp)
}

func TestRecordSale_TrimsProductID(t *testing.T) {
	inv, m := setup(t)
	s, err := m.RecordSale(" P1 ", 1)
	require.NoError(t, err)
	assert.Equal(t, "P1", s.ProductID)
	assert.Equal(t, 4, stockOf(t, inv, "P1"))
	assert.Equal(t, 1, m.OpenSales("P1"))
}

func TestCancelSale_Twice(t *testing.T) {
	inv, m := setup(t)
	s, err := m.RecordSale("P2", 4)
	require.NoError(t, err)

	_, err = m.CancelSale(s.ID)
	require.NoError(t, err)
	assert.Equal(t, 100, stockOf(t, inv, "P2"))

	_, err = m.RefundSale(s.ID)
	assert.True(t, domain.IsAlreadyRefundedError(err))
	assert.Equal(t, 100, stockOf(t, inv, "P2"), "second cancel must not restore stock again")

	got, err := m.GetSale(s.ID)
	require.NoError(t, err)
	require.NotNil(t, got.RefundedAt)
	assert.True(t, got.Total.Equal(price("13")), "refund must not rewrite the total")
}

func TestCancelSale_NotFound(t *testing.T) {
	_, m := setup(t)
	_, err := m.CancelSale("missing")
	assert.True(t, domain.IsSaleNotFoundError(err))
	_, err = m.GetSale("missing")
	assert.True(t, domain.IsSaleNotFoundError(err))
}

func TestReconciliation(t *testing.T) {
	inv, m := setup(t)
	const initial = 100

	steps := []struct {
		qty    int
		refund bool
	}{
		{7, false}, {3, true}, {20, false}, {1, true}, {11, false}, {9, true}, {5, false},
	}
	var restocked int
	for i, step := range steps {
		s, err := m.RecordSale("P2", step.qty)
		require.NoError(t, err)
		if step.refund {
			_, err = m.CancelSale(s.ID)
			require.NoError(t, err)
		}
		if i == 3 {
			_, err = inv.Restock("P2", 10)
			require.NoError(t, err)
			restocked += 10
		}

		sold := 0
		for _, s := range m.SalesForProduct("P2") {
			if s.Completed() {
				sold += s.Quantity
			}
		}
		assert.Equal(t, initial+restocked-sold, stockOf(t, inv, "P2"), "after step %d", i)
	}
}

func TestRemoveProduct_GuardedByLedger(t *testing.T) {
	inv, m := setup(t)

	a, err := m.RecordSale("P1", 1)
	require.NoError(t, err)
	b, err := m.RecordSale("P1", 1)
	require.NoError(t, err)

	assert.True(t, domain.IsProductInUseError(inv.RemoveProduct("P1")))

	_, err = m.CancelSale(a.ID)
	require.NoError(t, err)
	assert.True(t, domain.IsProductInUseError(inv.RemoveProduct("P1")))

	_, err = m.CancelSale(b.ID)
	require.NoError(t, err)
	require.NoError(t, inv.RemoveProduct("P1"))

	// refunded history survives removal of the product
	assert.Len(t, m.SalesForProduct("P1"), 2)
}

func TestListSales_Order(t *testing.T) {
	_, m := setup(t)
	for _, id := range []string{"P2", "P1", "P2"} {
		_, err := m.RecordSale(id, 1)
		require.NoError(t, err)
	}

	var got []string
	for _, s := range m.ListSales() {
		got = append(got, s.ID)
	}
	assert.Equal(t, []string{"s-1", "s-2", "s-3"}, got)
	assert.Len(t, m.SalesForProduct("P2"), 2)
	assert.Equal(t, 1, m.OpenSales("P1"))
	assert.Zero(t, m.OpenSales("P9"))
}

func TestIDCollisionsAreSkipped(t *testing.T) {
	inv := inventory.NewManager()
	_, err := inv.AddProduct("P1", "Widget", price("1"), 10)
	require.NoError(t, err)

	ids := []string{"dup", "dup", "", "fresh"}
	gen := func() string {
		id := ids[0]
		ids = ids[1:]
		return id
	}
	m := NewManager(inv, WithIDGenerator(gen))

	a, err := m.RecordSale("P1", 1)
	require.NoError(t, err)
	b, err := m.RecordSale("P1", 1)
	require.NoError(t, err)
	assert.Equal(t, "dup", a.ID)
	assert.Equal(t, "fresh", b.ID)
}

func TestRecordSale_GeneratorExhausted(t *testing.T) {
	inv := inventory.NewManager()
	_, err := inv.AddProduct("P1", "Widget", price("1"), 10)
	require.NoError(t, err)

	calls := 0
	m := NewManager(inv, WithIDGenerator(func() string {
		calls++
		return "same"
	}))
	_, err = m.RecordSale("P1", 1)
	require.NoError(t, err)

	_, err = m.RecordSale("P1", 2)
	assert.True(t, errors.Is(err, ErrNoFreeID), "got %v", err)
	assert.Equal(t, 1+maxIDAttempts, calls)
	assert.Equal(t, 9, stockOf(t, inv, "P1"), "failed sale must not move stock")
	assert.Len(t, m.ListSales(), 1)
}

func TestRestore(t *testing.T) {
	saved := []domain.Sale{
		{ID: "a", ProductID: "P1", Quantity: 1, UnitPrice: price("10"), Total: price("10"), Status: domain.SaleCompleted, Timestamp: epoch},
		{ID: "b", ProductID: "P1", Quantity: 2, UnitPrice: price("10"), Total: price("20"), Status: domain.SaleRefunded, Timestamp: epoch},
	}

	t.Run("keeps order and status", func(t *testing.T) {
		inv, m := setup(t)
		require.NoError(t, m.Restore(saved))
		got := m.ListSales()
		require.Len(t, got, 2)
		assert.Equal(t, "a", got[0].ID)
		assert.Equal(t, domain.SaleRefunded, got[1].Status)
		assert.Equal(t, 5, stockOf(t, inv, "P1"), "restore must not move stock")
		assert.True(t, domain.IsProductInUseError(inv.RemoveProduct("P1")))
	})

	cases := map[string]domain.Sale{
		"missing id":      {ProductID: "P1", Quantity: 1, Status: domain.SaleCompleted},
		"zero quantity":   {ID: "z", ProductID: "P1", Quantity: 0, Status: domain.SaleCompleted},
		"unknown status":  {ID: "u", ProductID: "P1", Quantity: 1, Status: "VOID"},
		"missing product": {ID: "m", Quantity: 1, UnitPrice: price("10"), Total: price("10"), Status: domain.SaleCompleted},
		"wrong total":     {ID: "w", ProductID: "P1", Quantity: 3, UnitPrice: price("10"), Total: price("300"), Status: domain.SaleCompleted},
		"duplicate id":    saved[0],
	}
	for name, bad := range cases {
		t.Run(name, func(t *testing.T) {
			_, m := setup(t)
			err := m.Restore(append([]domain.Sale{saved[0]}, bad))
			assert.True(t, errors.Is(err, ErrCorruptLedger), "got %v", err)
			assert.Empty(t, m.ListSales())
		})
	}
}
