package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"stockledger/domain"
	"stockledger/reports"
)

func printJSON(w io.Writer, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func printProducts(w io.Writer, products []domain.Product) error {
	if len(products) == 0 {
		_, err := fmt.Fprintln(w, "no products")
		return err
	}
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tNAME\tPRICE\tSTOCK")
	for _, p := range products {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\n", p.ID, p.Name, p.Price.StringFixed(2), p.Stock)
	}
	return tw.Flush()
}

func printSales(w io.Writer, sales []domain.Sale) error {
	if len(sales) == 0 {
		_, err := fmt.Fprintln(w, "no sales")
		return err
	}
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tPRODUCT\tQTY\tUNIT\tTOTAL\tSTATUS\tTIME")
	for _, s := range sales {
		fmt.Fprintf(tw, "%s\t%s (%s)\t%d\t%s\t%s\t%s\t%s\n",
			s.ID, s.ProductName, s.ProductID, s.Quantity,
			s.UnitPrice.StringFixed(2), s.Total.StringFixed(2), s.Status,
			s.Timestamp.Format(time.DateTime))
	}
	return tw.Flush()
}

func printSale(w io.Writer, s domain.Sale) error {
	_, err := fmt.Fprintf(w, "sale %s: %d x %s (%s) @ %s = %s [%s]\n",
		s.ID, s.Quantity, s.ProductName, s.ProductID,
		s.UnitPrice.StringFixed(2), s.Total.StringFixed(2), s.Status)
	return err
}

func printInventoryReport(w io.Writer, rep reports.InventoryReport) error {
	fmt.Fprintln(w, "INVENTORY REPORT")
	fmt.Fprintf(w, "Products: %d  Units: %d  Total value: %s\n",
		rep.ProductCount, rep.TotalUnits, rep.TotalValue.StringFixed(2))
	if len(rep.Lines) > 0 {
		tw := newTable(w)
		fmt.Fprintln(tw, "ID\tNAME\tPRICE\tSTOCK\tVALUE\tSTATUS")
		for _, l := range rep.Lines {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\t%s\n",
				l.Product.ID, l.Product.Name, l.Product.Price.StringFixed(2),
				l.Product.Stock, l.Value.StringFixed(2), l.Status)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}
	fmt.Fprintf(w, "Low stock (< %d): %s\n", rep.Threshold, productIDs(rep.LowStock))
	_, err := fmt.Fprintf(w, "Out of stock: %s\n", productIDs(rep.OutOfStock))
	return err
}

func printSalesReport(w io.Writer, rep reports.SalesReport) error {
	fmt.Fprintln(w, "SALES REPORT")
	fmt.Fprintf(w, "Transactions: %d  Completed: %d  Refunded: %d\n",
		rep.TransactionCount, rep.CompletedCount, rep.RefundedCount)
	fmt.Fprintf(w, "Revenue: %s  Refunded: %s  Average sale: %s\n",
		rep.TotalRevenue.StringFixed(2), rep.RefundedAmount.StringFixed(2), rep.AverageSale.StringFixed(2))
	if len(rep.TopSelling) == 0 {
		return nil
	}
	tw := newTable(w)
	fmt.Fprintln(tw, "RANK\tID\tNAME\tUNITS\tREVENUE")
	for i, ps := range rep.TopSelling {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%s\n", i+1, ps.ProductID, ps.ProductName, ps.Quantity, ps.Revenue.StringFixed(2))
	}
	return tw.Flush()
}

func productIDs(products []domain.Product) string {
	if len(products) == 0 {
		return "none"
	}
	out := ""
	for i, p := range products {
		if i > 0 {
			out += ", "
		}
		out += fmt.Sprintf("%s (%d)", p.ID, p.Stock)
	}
	return out
}
