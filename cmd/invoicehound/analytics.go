package main

import (
	"github.com/spf13/cobra"
)

func analyticsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "analytics",
		Short: "Summarize spend across all processed invoices",
		Long: `Print overall analytics: invoice count, per-currency totals,
top vendors by spend, and the covered date range.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			q, err := initQuery()
			if err != nil {
				return err
			}
			return printJSON(q.Analytics())
		},
	}
}
