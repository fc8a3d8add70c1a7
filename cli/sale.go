package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newSaleCmd(sess *session) *cobra.Command {
	saleCmd := &cobra.Command{
		Use:   "sale",
		Short: "Record, cancel and inspect sales",
	}

	// record
	var qty int
	recordCmd := &cobra.Command{
		Use:   "record <product-id>",
		Short: "Sell units of a product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := sess.recordSale(cmd.Context(), args[0], qty)
			if err != nil {
				return err
			}
			return printSale(cmd.OutOrStdout(), s)
		},
	}
	recordCmd.Flags().IntVar(&qty, "qty", 1, "units sold")

	// cancel
	cancelCmd := &cobra.Command{
		Use:     "cancel <sale-id>",
		Aliases: []string{"refund"},
		Short:   "Refund a completed sale and return its units to stock",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := sess.cancelSale(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printSale(cmd.OutOrStdout(), s)
		},
	}

	// get
	getCmd := &cobra.Command{
		Use:   "get <sale-id>",
		Short: "Get sale by id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := sess.ledger.GetSale(args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), s)
		},
	}

	// list
	var productID, output string
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List sales in the order they were recorded",
		RunE: func(cmd *cobra.Command, args []string) error {
			sales := sess.ledger.ListSales()
			if productID != "" {
				sales = sess.ledger.SalesForProduct(productID)
			}
			switch output {
			case "json":
				if sales == nil {
					return printJSON(cmd.OutOrStdout(), []any{})
				}
				return printJSON(cmd.OutOrStdout(), sales)
			case "", "table":
				return printSales(cmd.OutOrStdout(), sales)
			default:
				return fmt.Errorf("unknown output format: %s", output)
			}
		},
	}
	listCmd.Flags().StringVar(&productID, "product", "", "only sales of this product")
	listCmd.Flags().StringVar(&output, "output", "", "output format (table|json)")

	saleCmd.AddCommand(recordCmd, cancelCmd, getCmd, listCmd)
	return saleCmd
}
