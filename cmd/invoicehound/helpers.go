package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/viper"

	"github.com/castlebay/invoicehound/internal/config"
	"github.com/castlebay/invoicehound/internal/drive"
	"github.com/castlebay/invoicehound/internal/monitor"
	"github.com/castlebay/invoicehound/internal/pdftext"
	"github.com/castlebay/invoicehound/internal/query"
	"github.com/castlebay/invoicehound/internal/store"
)

// initStore opens the record store with proper path expansion.
func initStore() (*store.Store, error) {
	dataDir := viper.GetString("data.dir")
	if dataDir == "" {
		dataDir = config.DefaultDataDir
	}
	dataDir = config.ExpandPath(dataDir)

	return store.New(dataDir)
}

// initQuery opens the store, loads every persisted record, and wraps it in a
// query service. Read-only commands go through here.
func initQuery() (*query.Service, error) {
	st, err := initStore()
	if err != nil {
		return nil, err
	}
	if err := st.LoadAll(); err != nil {
		return nil, fmt.Errorf("failed to load invoice records: %w", err)
	}
	return query.New(st), nil
}

// initDrive builds an authenticated Drive client from the saved token.
func initDrive(ctx context.Context) (*drive.Client, error) {
	ts, err := drive.TokenSource(ctx, oauthConfig())
	if err != nil {
		return nil, err
	}
	return drive.NewClient(ctx, ts, slog.Default())
}

// initMonitor wires the full processing pipeline: Drive client, PDF text
// extractor, record store, and monitor service, initialized from persisted
// state.
func initMonitor(ctx context.Context) (*monitor.Service, error) {
	client, err := initDrive(ctx)
	if err != nil {
		return nil, err
	}

	st, err := initStore()
	if err != nil {
		return nil, err
	}

	interval := viper.GetDuration("monitor.poll_interval")
	if interval <= 0 {
		interval = 60 * time.Second
	}

	svc := monitor.New(client, pdftext.New(), st, monitor.Config{
		DefaultFolderID: viper.GetString("drive.folder_id"),
		PollInterval:    interval,
	})
	if err := svc.Init(); err != nil {
		return nil, err
	}
	return svc, nil
}

func oauthConfig() drive.OAuth2Config {
	tokenFile := viper.GetString("auth.token_file")
	if tokenFile == "" {
		tokenFile = config.DefaultTokenFile
	}

	return drive.OAuth2Config{
		ClientID:     viper.GetString("auth.client_id"),
		ClientSecret: viper.GetString("auth.client_secret"),
		TokenFile:    config.ExpandPath(tokenFile),
	}
}

// printJSON writes v to stdout as indented JSON.
func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	fmt.Println(string(data))
	return nil
}
