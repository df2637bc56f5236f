package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/castlebay/invoicehound/internal/cli"
)

func vendorsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vendors",
		Short: "Aggregate invoices by vendor",
	}

	cmd.AddCommand(vendorsListCmd())
	cmd.AddCommand(vendorsGetCmd())

	return cmd
}

func vendorsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Show per-vendor invoice counts and spend",
		RunE: func(_ *cobra.Command, _ []string) error {
			q, err := initQuery()
			if err != nil {
				return err
			}

			stats := q.Vendors()
			if len(stats) == 0 {
				fmt.Println(cli.SubtleStyle.Render("No vendors found."))
				return nil
			}
			return printJSON(stats)
		},
	}
}

func vendorsGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <vendor-name>",
		Short: "List every invoice from one vendor",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			q, err := initQuery()
			if err != nil {
				return err
			}

			summaries := q.VendorInvoices(args[0])
			if len(summaries) == 0 {
				fmt.Println(cli.SubtleStyle.Render(fmt.Sprintf("No invoices found for vendor %q.", args[0])))
				return nil
			}
			return printJSON(summaries)
		},
	}
}
