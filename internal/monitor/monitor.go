// Package monitor owns the folder-watching pipeline: it polls Drive folders
// for new files and pipes PDFs through text extraction, classification, field
// extraction, and persistence.
//
// All process state (the record store, the processed-file set, and the
// per-folder cursors) lives on the single Service value. The processed-file
// set is rebuilt from persisted metadata at startup, so a restart does not
// reprocess files it has already seen.
package monitor

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/castlebay/invoicehound/internal/common"
	"github.com/castlebay/invoicehound/internal/extract"
	"github.com/castlebay/invoicehound/internal/model"
	"github.com/castlebay/invoicehound/internal/service"
)

// Config holds monitor configuration.
type Config struct {
	// DefaultFolderID is used when Watch is called without a folder id.
	DefaultFolderID string
	// PollInterval is the delay between scheduled polls.
	PollInterval time.Duration
}

// DefaultConfig returns the default monitor configuration.
func DefaultConfig() Config {
	return Config{
		PollInterval: 60 * time.Second,
	}
}

// Service watches Drive folders and processes new invoice PDFs.
type Service struct {
	drive     service.DriveClient
	extractor service.TextExtractor
	store     service.RecordStore
	cfg       Config

	processed map[string]struct{}
	lastCheck map[string]time.Time
	watched   []string

	cron *cron.Cron
	now  func() time.Time
}

// New creates a monitor service. Call Init before use.
func New(driveClient service.DriveClient, extractor service.TextExtractor, store service.RecordStore, cfg Config) *Service {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = DefaultConfig().PollInterval
	}

	return &Service{
		drive:     driveClient,
		extractor: extractor,
		store:     store,
		cfg:       cfg,
		processed: make(map[string]struct{}),
		lastCheck: make(map[string]time.Time),
		now:       time.Now,
	}
}

// Init loads the persisted records into memory and rebuilds the
// processed-file set from the metadata side-records.
func (s *Service) Init() error {
	if err := s.store.LoadAll(); err != nil {
		return fmt.Errorf("failed to load record store: %w", err)
	}

	processed, err := s.store.ProcessedFileIDs()
	if err != nil {
		return fmt.Errorf("failed to rebuild processed-file index: %w", err)
	}
	s.processed = processed

	slog.Info("monitor initialized",
		"records", len(s.store.All()),
		"processed_files", len(processed))
	return nil
}

// Watch registers a folder for polling. An empty id selects the configured
// default folder.
func (s *Service) Watch(folderID string) (string, error) {
	if folderID == "" {
		folderID = s.cfg.DefaultFolderID
	}
	if folderID == "" {
		return "", fmt.Errorf("%w: no folder id provided and no default folder configured", common.ErrMissingConfig)
	}

	for _, id := range s.watched {
		if id == folderID {
			return folderID, nil
		}
	}
	s.watched = append(s.watched, folderID)

	slog.Info("watching folder", "folder_id", folderID)
	return folderID, nil
}

// Poll returns the new files in a folder since the last check. The first
// poll of a folder initializes the cursor and returns the entire current
// listing. The cursor is client-clock time, advanced after every successful
// poll: a file modified during the API round-trip surfaces on a later poll,
// and one whose timestamp lands exactly on the previous advance is missed.
func (s *Service) Poll(ctx context.Context, folderID string) ([]model.File, error) {
	last, seen := s.lastCheck[folderID]
	if !seen {
		s.lastCheck[folderID] = s.now()
		return s.drive.ListFolder(ctx, folderID)
	}

	files, err := s.drive.ListFolderModifiedSince(ctx, folderID, last)
	if err != nil {
		return nil, err
	}

	s.lastCheck[folderID] = s.now()
	return files, nil
}

// PollAll polls every watched folder and processes whatever turned up.
// Failures are logged per folder; one bad folder does not stop the rest.
func (s *Service) PollAll(ctx context.Context) {
	for _, folderID := range s.watched {
		files, err := s.Poll(ctx, folderID)
		if err != nil {
			slog.Error("poll failed", "folder_id", folderID, "error", err)
			continue
		}
		if len(files) == 0 {
			continue
		}

		slog.Info("poll found files", "folder_id", folderID, "count", len(files))
		if err := s.HandleNewFiles(ctx, files); err != nil {
			slog.Error("processing failed", "folder_id", folderID, "error", err)
		}
	}
}

// HandleNewFiles runs the processing pipeline over a folder listing.
// Already-processed ids are skipped, as are non-PDF entries (which stay
// unmarked so a later mime-type fix can pick them up). A PDF that fails
// classification is marked processed without creating a record.
func (s *Service) HandleNewFiles(ctx context.Context, files []model.File) error {
	for i := range files {
		file := &files[i]

		if _, done := s.processed[file.ID]; done {
			continue
		}
		if !file.IsPDF() {
			continue
		}

		id, err := s.process(ctx, file)
		if err != nil {
			return fmt.Errorf("file %s (%s): %w", file.ID, file.Name, err)
		}

		s.processed[file.ID] = struct{}{}
		if id != "" {
			slog.Info("processed invoice", "id", id, "file", file.Name)
		} else {
			slog.Debug("skipped non-invoice PDF", "file", file.Name)
		}
	}

	return nil
}

// process downloads, extracts, classifies, and persists one PDF. It returns
// the record id, or "" when the document is not an invoice.
func (s *Service) process(ctx context.Context, file *model.File) (string, error) {
	var data []byte
	err := common.WithRetry(ctx, func() error {
		var downloadErr error
		data, downloadErr = s.drive.Download(ctx, file.ID)
		return downloadErr
	}, service.RetryOptions{MaxAttempts: 3})
	if err != nil {
		return "", err
	}

	text, err := s.extractor.Extract(data)
	if err != nil {
		// Unreadable bytes are a permanent data-shape failure.
		return "", &common.RetryableError{Err: err, Retryable: false}
	}

	if !extract.IsInvoice(text) {
		return "", nil
	}

	invoice := extract.Extract(text)
	id := invoice.DeriveID(file.ID)

	if err := s.store.Save(id, invoice); err != nil {
		return "", err
	}

	meta := &model.Metadata{
		RawText:       text,
		FileName:      file.Name,
		FileID:        file.ID,
		ProcessedDate: s.now().UTC().Format(time.RFC3339),
	}
	if err := s.store.SaveMetadata(id, meta); err != nil {
		return "", err
	}

	return id, nil
}

// ProcessFile runs the pipeline for one file id on demand. Outcomes that are
// not errors (wrong mime type, not an invoice) come back as human-readable
// messages; pipeline failures come back as errors for the caller to
// soft-report.
func (s *Service) ProcessFile(ctx context.Context, fileID string) (string, error) {
	file, err := s.drive.GetFile(ctx, fileID)
	if err != nil {
		return "", err
	}

	if !file.IsPDF() {
		return "This file is not a PDF.", nil
	}

	data, err := s.drive.Download(ctx, fileID)
	if err != nil {
		return "", err
	}

	text, err := s.extractor.Extract(data)
	if err != nil {
		return "", err
	}

	if !extract.IsInvoice(text) {
		return "This PDF does not appear to be an invoice.", nil
	}

	invoice := extract.Extract(text)
	id := invoice.DeriveID(fileID)

	if err := s.store.Save(id, invoice); err != nil {
		return "", err
	}
	meta := &model.Metadata{
		RawText:       text,
		FileName:      file.Name,
		FileID:        fileID,
		ProcessedDate: s.now().UTC().Format(time.RFC3339),
	}
	if err := s.store.SaveMetadata(id, meta); err != nil {
		return "", err
	}

	s.processed[fileID] = struct{}{}

	return fmt.Sprintf("Successfully processed invoice %s from file %s", id, file.Name), nil
}

// Start schedules PollAll at the configured interval. Polls never overlap:
// a tick that arrives while the previous poll is still running is skipped.
func (s *Service) Start(ctx context.Context) error {
	if len(s.watched) == 0 {
		return fmt.Errorf("%w: no folders are being watched", common.ErrMissingConfig)
	}

	c := cron.New(cron.WithChain(
		cron.SkipIfStillRunning(cron.VerbosePrintfLogger(slog.NewLogLogger(slog.Default().Handler(), slog.LevelDebug))),
	))

	spec := fmt.Sprintf("@every %s", s.cfg.PollInterval)
	if _, err := c.AddFunc(spec, func() {
		pollCtx, cancel := context.WithTimeout(ctx, s.cfg.PollInterval*10)
		defer cancel()
		s.PollAll(pollCtx)
	}); err != nil {
		return fmt.Errorf("failed to schedule poll: %w", err)
	}

	c.Start()
	s.cron = c

	slog.Info("monitor started",
		"folders", len(s.watched),
		"interval", s.cfg.PollInterval)
	return nil
}

// Stop halts the poll schedule and waits for a running poll to finish.
func (s *Service) Stop() {
	if s.cron == nil {
		return
	}
	<-s.cron.Stop().Done()
	slog.Info("monitor stopped")
}
