package main

import (
	"log/slog"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func monitorCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "monitor [folder-id]",
		Short: "Watch a Drive folder for new invoice PDFs",
		Long: `Start the polling loop against a Google Drive folder.

The first poll processes the folder's entire current contents; later polls
only pick up files modified since the previous check. Without an argument the
configured default folder (drive.folder_id / GDRIVE_FOLDER_ID) is used.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runMonitor,
	}

	cmd.Flags().Duration("interval", 60*time.Second, "poll interval")
	_ = viper.BindPFlag("monitor.poll_interval", cmd.Flags().Lookup("interval"))

	return cmd
}

func runMonitor(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	svc, err := initMonitor(ctx)
	if err != nil {
		return err
	}

	folderID := ""
	if len(args) > 0 {
		folderID = args[0]
	}

	watched, err := svc.Watch(folderID)
	if err != nil {
		return err
	}
	slog.Info("Started monitoring folder", "folder_id", watched)

	// Kick off the full first scan immediately rather than waiting out the
	// first interval.
	svc.PollAll(ctx)

	if err := svc.Start(ctx); err != nil {
		return err
	}

	<-ctx.Done()
	svc.Stop()
	return nil
}
