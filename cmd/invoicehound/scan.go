package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/castlebay/invoicehound/internal/model"
)

func scanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scan [folder-id]",
		Short: "Process every PDF currently in a Drive folder",
		Long: `One-shot scan: list the folder, run each PDF through the invoice
pipeline, and exit. Files already processed on a previous run are skipped.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runScan,
	}
}

func runScan(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	svc, err := initMonitor(ctx)
	if err != nil {
		return err
	}

	folderID := ""
	if len(args) > 0 {
		folderID = args[0]
	}
	folderID, err = svc.Watch(folderID)
	if err != nil {
		return err
	}

	files, err := svc.Poll(ctx, folderID)
	if err != nil {
		return err
	}

	var pdfs []model.File
	for _, f := range files {
		if f.IsPDF() {
			pdfs = append(pdfs, f)
		}
	}

	if len(pdfs) == 0 {
		slog.Info("No PDFs found in folder", "folder_id", folderID)
		return nil
	}

	bar := progressbar.NewOptions(len(pdfs),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("[cyan][bold]Processing invoices...[reset]"),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprintln(os.Stderr)
		}),
	)

	for _, f := range pdfs {
		if err := svc.HandleNewFiles(ctx, []model.File{f}); err != nil {
			slog.Error("failed to process file", "file", f.Name, "error", err)
		}
		if err := bar.Add(1); err != nil {
			slog.Warn("Failed to update progress bar", "error", err)
		}
	}

	slog.Info("Scan complete", "folder_id", folderID, "files", len(pdfs))
	return nil
}
