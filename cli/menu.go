package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"stockledger/domain"
)

var errInputClosed = errors.New("input closed")

// inputError is a value typed at the prompt that could not be parsed.
type inputError struct {
	field string
	raw   string
}

func (e *inputError) Error() string {
	return fmt.Sprintf("invalid %s: %q is not a whole number", e.field, e.raw)
}

type menuAction struct {
	label string
	run   func(*menu) error
}

type menu struct {
	ctx  context.Context
	sess *session
	in   *bufio.Scanner
	out  io.Writer
}

func newMenuCmd(sess *session) *cobra.Command {
	return &cobra.Command{
		Use:   "menu",
		Short: "Interactive numbered menu",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMenu(cmd, sess)
		},
	}
}

func runMenu(cmd *cobra.Command, sess *session) error {
	m := &menu{
		ctx:  cmd.Context(),
		sess: sess,
		in:   bufio.NewScanner(cmd.InOrStdin()),
		out:  cmd.OutOrStdout(),
	}
	return m.loop()
}

func (m *menu) actions() []menuAction {
	return []menuAction{
		{"Add product", (*menu).addProduct},
		{"Update product", (*menu).updateProduct},
		{"Remove product", (*menu).removeProduct},
		{"Search products", (*menu).search},
		{"Filter products by price", (*menu).filterPrice},
		{"Filter products by stock", (*menu).filterStock},
		{"Restock product", (*menu).restock},
		{"Record sale", (*menu).recordSale},
		{"Cancel sale", (*menu).cancelSale},
		{"List sales", (*menu).listSales},
		{"Inventory report", (*menu).inventoryReport},
		{"Sales report", (*menu).salesReport},
	}
}

func (m *menu) loop() error {
	actions := m.actions()
	for {
		fmt.Fprintln(m.out)
		for i, a := range actions {
			fmt.Fprintf(m.out, "%2d. %s\n", i+1, a.label)
		}
		fmt.Fprintln(m.out, " 0. Exit")

		choice, err := m.ask("Choose an option: ")
		if errors.Is(err, errInputClosed) {
			return nil
		}
		if err != nil {
			return err
		}
		if choice == "0" {
			fmt.Fprintln(m.out, "Goodbye.")
			return nil
		}
		n, err := strconv.Atoi(choice)
		if err != nil || n < 1 || n > len(actions) {
			fmt.Fprintf(m.out, "Unknown option: %s\n", choice)
			continue
		}

		err = actions[n-1].run(m)
		var ie *inputError
		switch {
		case err == nil:
		case errors.Is(err, errInputClosed):
			return nil
		case errors.As(err, &ie):
			fmt.Fprintf(m.out, "Error: %v\n", err)
		default:
			kind, ok := domain.KindOf(err)
			if !ok {
				return err
			}
			fmt.Fprintf(m.out, "Error: %v\n", err)
			if h := hint(kind); h != "" {
				fmt.Fprintln(m.out, h)
			}
		}
	}
}

// hint suggests the menu entry that helps recover from an error kind.
func hint(kind domain.ErrorKind) string {
	switch kind {
	case domain.KindProductNotFound:
		return "Use option 4 to look up product ids."
	case domain.KindSaleNotFound:
		return "Use option 10 to look up sale ids."
	case domain.KindInsufficientStock:
		return "Use option 7 to restock first."
	case domain.KindProductInUse:
		return "Cancel its completed sales (option 9) before removing it."
	case domain.KindDuplicateProductID, domain.KindInvalidProductData,
		domain.KindAlreadyRefunded, domain.KindInvalidSaleQuantity, domain.KindInvalidFilterRange:
		return ""
	default:
		return ""
	}
}

func (m *menu) ask(prompt string) (string, error) {
	fmt.Fprint(m.out, prompt)
	if !m.in.Scan() {
		if err := m.in.Err(); err != nil {
			return "", err
		}
		return "", errInputClosed
	}
	return strings.TrimSpace(m.in.Text()), nil
}

func (m *menu) askInt(prompt, field string) (int, error) {
	raw, err := m.ask(prompt)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &inputError{field: field, raw: raw}
	}
	return n, nil
}

// askOptionalInt returns nil for a blank answer.
func (m *menu) askOptionalInt(prompt, field string) (*int, error) {
	raw, err := m.ask(prompt)
	if err != nil || raw == "" {
		return nil, err
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil, &inputError{field: field, raw: raw}
	}
	return &n, nil
}

// askOptionalPrice returns nil for a blank answer.
func (m *menu) askOptionalPrice(prompt, field string) (*decimal.Decimal, error) {
	raw, err := m.ask(prompt)
	if err != nil || raw == "" {
		return nil, err
	}
	d, err := parsePrice(field, raw)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (m *menu) addProduct() error {
	id, err := m.ask("Product id (blank to generate): ")
	if err != nil {
		return err
	}
	name, err := m.ask("Name: ")
	if err != nil {
		return err
	}
	rawPrice, err := m.ask("Price: ")
	if err != nil {
		return err
	}
	price, err := parsePrice("price", rawPrice)
	if err != nil {
		return err
	}
	stock, err := m.askInt("Stock: ", "stock")
	if err != nil {
		return err
	}
	p, err := m.sess.addProduct(m.ctx, id, name, price, stock)
	if err != nil {
		return err
	}
	fmt.Fprintf(m.out, "Added %s (%s).\n", p.Name, p.ID)
	return nil
}

func (m *menu) updateProduct() error {
	id, err := m.ask("Product id: ")
	if err != nil {
		return err
	}
	var upd domain.ProductUpdate
	name, err := m.ask("New name (blank to keep): ")
	if err != nil {
		return err
	}
	if name != "" {
		upd.Name = &name
	}
	if upd.Price, err = m.askOptionalPrice("New price (blank to keep): ", "price"); err != nil {
		return err
	}
	if upd.Name == nil && upd.Price == nil {
		fmt.Fprintln(m.out, "Nothing to update.")
		return nil
	}
	p, err := m.sess.updateProduct(m.ctx, id, upd)
	if err != nil {
		return err
	}
	fmt.Fprintf(m.out, "Updated %s: %s at %s.\n", p.ID, p.Name, p.Price.StringFixed(2))
	return nil
}

func (m *menu) removeProduct() error {
	id, err := m.ask("Product id: ")
	if err != nil {
		return err
	}
	resp, err := m.ask(fmt.Sprintf("Remove %s? (y/N): ", id))
	if err != nil {
		return err
	}
	if resp != "y" && resp != "Y" {
		fmt.Fprintln(m.out, "Aborted.")
		return nil
	}
	if err := m.sess.removeProduct(m.ctx, id); err != nil {
		return err
	}
	fmt.Fprintf(m.out, "Removed %s.\n", id)
	return nil
}

func (m *menu) search() error {
	by, err := m.ask("Search by (n)ame or (i)d [n]: ")
	if err != nil {
		return err
	}
	query, err := m.ask("Query: ")
	if err != nil {
		return err
	}
	seq := m.sess.inv.SearchByName(query)
	if strings.HasPrefix(strings.ToLower(by), "i") {
		seq = m.sess.inv.SearchByID(query)
	}
	return printProducts(m.out, slices.Collect(seq))
}

func (m *menu) filterPrice() error {
	lo, err := m.askOptionalPrice("Minimum price (blank for none): ", "min")
	if err != nil {
		return err
	}
	hi, err := m.askOptionalPrice("Maximum price (blank for none): ", "max")
	if err != nil {
		return err
	}
	seq, err := m.sess.inv.FilterByPriceRange(lo, hi)
	if err != nil {
		return err
	}
	return printProducts(m.out, slices.Collect(seq))
}

func (m *menu) filterStock() error {
	lo, err := m.askOptionalInt("Minimum stock (blank for none): ", "min")
	if err != nil {
		return err
	}
	hi, err := m.askOptionalInt("Maximum stock (blank for none): ", "max")
	if err != nil {
		return err
	}
	seq, err := m.sess.inv.FilterByStockLevel(lo, hi)
	if err != nil {
		return err
	}
	return printProducts(m.out, slices.Collect(seq))
}

func (m *menu) restock() error {
	id, err := m.ask("Product id: ")
	if err != nil {
		return err
	}
	qty, err := m.askInt("Units to add: ", "quantity")
	if err != nil {
		return err
	}
	p, err := m.sess.restock(m.ctx, id, qty)
	if err != nil {
		return err
	}
	fmt.Fprintf(m.out, "%s now has %d in stock.\n", p.ID, p.Stock)
	return nil
}

func (m *menu) recordSale() error {
	id, err := m.ask("Product id: ")
	if err != nil {
		return err
	}
	qty, err := m.askInt("Quantity: ", "quantity")
	if err != nil {
		return err
	}
	s, err := m.sess.recordSale(m.ctx, id, qty)
	if err != nil {
		return err
	}
	return printSale(m.out, s)
}

func (m *menu) cancelSale() error {
	id, err := m.ask("Sale id: ")
	if err != nil {
		return err
	}
	s, err := m.sess.cancelSale(m.ctx, id)
	if err != nil {
		return err
	}
	return printSale(m.out, s)
}

func (m *menu) listSales() error {
	return printSales(m.out, m.sess.ledger.ListSales())
}

func (m *menu) inventoryReport() error {
	return printInventoryReport(m.out, m.sess.reporter.Inventory())
}

func (m *menu) salesReport() error {
	return printSalesReport(m.out, m.sess.reporter.Sales())
}
