package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/castlebay/invoicehound/internal/cli"
)

func invoicesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "invoices",
		Short: "List and inspect processed invoices",
	}

	cmd.AddCommand(invoicesListCmd())
	cmd.AddCommand(invoicesGetCmd())

	return cmd
}

func invoicesListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all processed invoices",
		RunE: func(_ *cobra.Command, _ []string) error {
			q, err := initQuery()
			if err != nil {
				return err
			}

			summaries := q.List()
			if len(summaries) == 0 {
				fmt.Println(cli.SubtleStyle.Render("No invoices processed yet."))
				return nil
			}
			return printJSON(summaries)
		},
	}
}

func invoicesGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <invoice-id>",
		Short: "Show the full record for one invoice",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			q, err := initQuery()
			if err != nil {
				return err
			}

			inv, err := q.Get(args[0])
			if err != nil {
				return fmt.Errorf("invoice %s: %w", args[0], err)
			}
			return printJSON(inv)
		},
	}
}
