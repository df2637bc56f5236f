package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/castlebay/invoicehound/internal/drive"
)

func authCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Authenticate with external services",
		Long:  `Authenticate with external services like Google Drive.`,
	}

	cmd.AddCommand(authDriveCmd())

	return cmd
}

func authDriveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "drive",
		Short: "Authenticate with Google Drive",
		Long: `Run the interactive OAuth2 flow for Google Drive.

This command will:
1. Start a local web server on port 8080
2. Send you to Google's consent page in your browser
3. Save the resulting token for future use

The client id and secret come from auth.client_id and auth.client_secret
in the config file (or INVOICEHOUND_AUTH_CLIENT_ID / _SECRET).`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := oauthConfig()

			token, err := drive.AuthenticateInteractive(cmd.Context(), cfg)
			if err != nil {
				return fmt.Errorf("authentication failed: %w", err)
			}

			slog.Info("Authentication complete", "expires", token.Expiry)
			return nil
		},
	}
}
