package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/castlebay/invoicehound/internal/cli"
	"github.com/castlebay/invoicehound/internal/prompts"
)

func reportsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reports",
		Short: "Print analysis briefs for the collected invoices",
		Long: `Each subcommand prints a ready-to-use analysis brief describing what
to look at across the processed invoices. Pair one with the output of
'invoices list' or 'analytics' and hand both to your analyst (or LLM)
of choice.`,
	}

	cmd.AddCommand(reportCmd("vendor-spend [vendor]",
		"Spending summary, overall or for one vendor",
		cobra.MaximumNArgs(1),
		func(args []string) string {
			vendor := ""
			if len(args) > 0 {
				vendor = args[0]
			}
			return prompts.VendorSpendSummary(vendor)
		}))

	cmd.AddCommand(reportCmd("licenses",
		"License utilization across invoices",
		cobra.NoArgs,
		func(_ []string) string { return prompts.LicenseUtilizationAnalysis() }))

	cmd.AddCommand(reportCmd("terms",
		"Payment terms comparison across vendors",
		cobra.NoArgs,
		func(_ []string) string { return prompts.PaymentTermsAnalysis() }))

	cmd.AddCommand(reportCmd("upcoming",
		"Payments coming due, ordered by urgency",
		cobra.NoArgs,
		func(_ []string) string { return prompts.UpcomingPayments() }))

	return cmd
}

func reportCmd(use, short string, args cobra.PositionalArgs, body func([]string) string) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  args,
		RunE: func(_ *cobra.Command, args []string) error {
			fmt.Println(cli.BoxStyle.Render(body(args)))
			return nil
		},
	}
}
