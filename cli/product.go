package cli

import (
	"bufio"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"stockledger/domain"
)

func parsePrice(field, raw string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Zero, domain.NewInvalidProductError(field, "not a decimal number", raw)
	}
	return d, nil
}

func newProductCmd(sess *session) *cobra.Command {
	productCmd := &cobra.Command{
		Use:   "product",
		Short: "Manage the product catalog",
	}

	// add
	var id, name, price string
	var stock int
	addCmd := &cobra.Command{
		Use:   "add",
		Short: "Add a product",
		RunE: func(cmd *cobra.Command, args []string) error {
			if name == "" {
				return errors.New("name required")
			}
			amount, err := parsePrice("price", price)
			if err != nil {
				return err
			}
			p, err := sess.addProduct(cmd.Context(), id, name, amount, stock)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), p)
		},
	}
	addCmd.Flags().StringVar(&id, "id", "", "product id (generated when empty)")
	addCmd.Flags().StringVar(&name, "name", "", "name")
	addCmd.Flags().StringVar(&price, "price", "0", "unit price")
	addCmd.Flags().IntVar(&stock, "stock", 0, "units in stock")

	// update
	var uName, uPrice string
	updateCmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a product's name and/or price",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var upd domain.ProductUpdate
			if cmd.Flags().Changed("name") {
				upd.Name = &uName
			}
			if cmd.Flags().Changed("price") {
				amount, err := parsePrice("price", uPrice)
				if err != nil {
					return err
				}
				upd.Price = &amount
			}
			if upd.Name == nil && upd.Price == nil {
				return errors.New("nothing to update: pass --name and/or --price")
			}
			p, err := sess.updateProduct(cmd.Context(), args[0], upd)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), p)
		},
	}
	updateCmd.Flags().StringVar(&uName, "name", "", "name")
	updateCmd.Flags().StringVar(&uPrice, "price", "", "unit price")

	// remove
	var force bool
	removeCmd := &cobra.Command{
		Use:   "remove <id>",
		Short: "Remove a product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if !force {
				fmt.Fprintf(out, "Remove %s? (y/N): ", args[0])
				resp, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				resp = strings.TrimSpace(resp)
				if resp != "y" && resp != "Y" {
					fmt.Fprintln(out, "aborted")
					return nil
				}
			}
			if err := sess.removeProduct(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintln(out, "removed")
			return nil
		},
	}
	removeCmd.Flags().BoolVar(&force, "force", false, "skip confirmation")

	// get
	getCmd := &cobra.Command{
		Use:   "get <id>",
		Short: "Get product by id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := sess.inv.GetProduct(args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), p)
		},
	}

	// list
	var lOutput string
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List products",
		RunE: func(cmd *cobra.Command, args []string) error {
			return printProductSeq(cmd, sess.inv.List(), lOutput)
		},
	}
	listCmd.Flags().StringVar(&lOutput, "output", "", "output format (table|json)")

	// search
	var byID bool
	var sOutput string
	searchCmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search products by name (case-insensitive substring) or exact id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			seq := sess.inv.SearchByName(args[0])
			if byID {
				seq = sess.inv.SearchByID(args[0])
			}
			return printProductSeq(cmd, slices.Collect(seq), sOutput)
		},
	}
	searchCmd.Flags().BoolVar(&byID, "id", false, "match the product id exactly")
	searchCmd.Flags().StringVar(&sOutput, "output", "", "output format (table|json)")

	// filter-price
	var fMinPrice, fMaxPrice, fpOutput string
	filterPriceCmd := &cobra.Command{
		Use:   "filter-price",
		Short: "List products priced within [min, max]",
		RunE: func(cmd *cobra.Command, args []string) error {
			var lo, hi *decimal.Decimal
			if cmd.Flags().Changed("min") {
				d, err := parsePrice("min", fMinPrice)
				if err != nil {
					return err
				}
				lo = &d
			}
			if cmd.Flags().Changed("max") {
				d, err := parsePrice("max", fMaxPrice)
				if err != nil {
					return err
				}
				hi = &d
			}
			seq, err := sess.inv.FilterByPriceRange(lo, hi)
			if err != nil {
				return err
			}
			return printProductSeq(cmd, slices.Collect(seq), fpOutput)
		},
	}
	filterPriceCmd.Flags().StringVar(&fMinPrice, "min", "", "lowest price")
	filterPriceCmd.Flags().StringVar(&fMaxPrice, "max", "", "highest price")
	filterPriceCmd.Flags().StringVar(&fpOutput, "output", "", "output format (table|json)")

	// filter-stock
	var fMinStock, fMaxStock int
	var fsOutput string
	filterStockCmd := &cobra.Command{
		Use:   "filter-stock",
		Short: "List products whose stock is within [min, max]",
		RunE: func(cmd *cobra.Command, args []string) error {
			var lo, hi *int
			if cmd.Flags().Changed("min") {
				lo = &fMinStock
			}
			if cmd.Flags().Changed("max") {
				hi = &fMaxStock
			}
			seq, err := sess.inv.FilterByStockLevel(lo, hi)
			if err != nil {
				return err
			}
			return printProductSeq(cmd, slices.Collect(seq), fsOutput)
		},
	}
	filterStockCmd.Flags().IntVar(&fMinStock, "min", 0, "lowest stock")
	filterStockCmd.Flags().IntVar(&fMaxStock, "max", 0, "highest stock")
	filterStockCmd.Flags().StringVar(&fsOutput, "output", "", "output format (table|json)")

	// restock
	var qty int
	restockCmd := &cobra.Command{
		Use:   "restock <id>",
		Short: "Add units to a product's stock",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := sess.restock(cmd.Context(), args[0], qty)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), p)
		},
	}
	restockCmd.Flags().IntVar(&qty, "qty", 0, "units to add")

	productCmd.AddCommand(addCmd, updateCmd, removeCmd, getCmd, listCmd, searchCmd,
		filterPriceCmd, filterStockCmd, restockCmd)
	return productCmd
}

func printProductSeq(cmd *cobra.Command, products []domain.Product, output string) error {
	if output == "json" {
		if products == nil {
			products = []domain.Product{}
		}
		return printJSON(cmd.OutOrStdout(), products)
	}
	return printProducts(cmd.OutOrStdout(), products)
}
