package cli

import (
	"github.com/spf13/cobra"
)

func newReportCmd(sess *session) *cobra.Command {
	reportCmd := &cobra.Command{
		Use:   "report",
		Short: "Inventory and sales summaries",
	}

	var iOutput string
	inventoryCmd := &cobra.Command{
		Use:   "inventory",
		Short: "Stock value with low-stock and out-of-stock alerts",
		RunE: func(cmd *cobra.Command, args []string) error {
			rep := sess.reporter.Inventory()
			if iOutput == "json" {
				return printJSON(cmd.OutOrStdout(), rep)
			}
			return printInventoryReport(cmd.OutOrStdout(), rep)
		},
	}
	inventoryCmd.Flags().StringVar(&iOutput, "output", "", "output format (text|json)")

	var sOutput string
	salesCmd := &cobra.Command{
		Use:   "sales",
		Short: "Revenue from completed sales and top sellers",
		RunE: func(cmd *cobra.Command, args []string) error {
			rep := sess.reporter.Sales()
			if sOutput == "json" {
				return printJSON(cmd.OutOrStdout(), rep)
			}
			return printSalesReport(cmd.OutOrStdout(), rep)
		},
	}
	salesCmd.Flags().StringVar(&sOutput, "output", "", "output format (text|json)")

	reportCmd.AddCommand(inventoryCmd, salesCmd)
	return reportCmd
}
