package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/castlebay/invoicehound/internal/cli"
	"github.com/castlebay/invoicehound/internal/service"
)

func searchCmd() *cobra.Command {
	var (
		vendor    string
		minAmount float64
		maxAmount float64
		startDate string
		endDate   string
		keyword   string
	)

	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search invoices by vendor, amount, date, or keyword",
		Long: `Search processed invoices. Every flag you pass narrows the result;
flags you leave off are unconstrained. Dates use MM/DD/YYYY.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			q, err := initQuery()
			if err != nil {
				return err
			}

			// Only constrain on flags the user actually set, so that an
			// explicit --min-amount 0 still filters.
			var opts service.SearchOptions
			flags := cmd.Flags()
			if flags.Changed("vendor") {
				opts.Vendor = &vendor
			}
			if flags.Changed("min-amount") {
				opts.MinAmount = &minAmount
			}
			if flags.Changed("max-amount") {
				opts.MaxAmount = &maxAmount
			}
			if flags.Changed("start-date") {
				opts.StartDate = &startDate
			}
			if flags.Changed("end-date") {
				opts.EndDate = &endDate
			}
			if flags.Changed("keyword") {
				opts.Keyword = &keyword
			}

			results := q.Search(opts)
			if len(results) == 0 {
				fmt.Println(cli.SubtleStyle.Render("No invoices matched."))
				return nil
			}
			return printJSON(results)
		},
	}

	cmd.Flags().StringVar(&vendor, "vendor", "", "exact vendor name")
	cmd.Flags().Float64Var(&minAmount, "min-amount", 0, "minimum total amount")
	cmd.Flags().Float64Var(&maxAmount, "max-amount", 0, "maximum total amount")
	cmd.Flags().StringVar(&startDate, "start-date", "", "earliest invoice date (MM/DD/YYYY)")
	cmd.Flags().StringVar(&endDate, "end-date", "", "latest invoice date (MM/DD/YYYY)")
	cmd.Flags().StringVar(&keyword, "keyword", "", "substring to find in the invoice's raw text")

	return cmd
}
