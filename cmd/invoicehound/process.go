package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/castlebay/invoicehound/internal/cli"
)

func processCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "process <file-id>",
		Short: "Run one Drive file through the invoice pipeline",
		Long: `Fetch a single file by its Drive id and process it immediately,
regardless of which folder it lives in or whether monitoring is running.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			svc, err := initMonitor(ctx)
			if err != nil {
				return err
			}

			msg, err := svc.ProcessFile(ctx, args[0])
			if err != nil {
				fmt.Println(cli.ErrorStyle.Render(fmt.Sprintf("Error processing file: %v", err)))
				return nil
			}

			fmt.Println(cli.SuccessStyle.Render(msg))
			return nil
		},
	}
}
