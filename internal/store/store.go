// Package store implements the file-backed invoice record store.
//
// Each record is persisted as one JSON object at <dir>/<id>.json with a
// companion <dir>/<id>_metadata.json holding the raw source text. The store
// keeps an in-memory map rebuilt from disk at startup; the map key is the
// filename stem, so it matches the id used at save time exactly. Access is
// single-process and synchronous: no locking, no update-in-place, no delete.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/castlebay/invoicehound/internal/common"
	"github.com/castlebay/invoicehound/internal/model"
)

const metadataSuffix = "_metadata"

// Store is the file-backed keyed mapping from record id to invoice.
type Store struct {
	invoices map[string]*model.Invoice
	dir      string
}

// New creates a store rooted at dir, creating the directory if needed.
func New(dir string) (*Store, error) {
	if dir == "" {
		return nil, fmt.Errorf("%w: store directory is required", common.ErrInvalidConfig)
	}

	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create store directory: %w", err)
	}

	return &Store{
		dir:      dir,
		invoices: make(map[string]*model.Invoice),
	}, nil
}

// Dir returns the directory backing this store.
func (s *Store) Dir() string {
	return s.dir
}

// Save persists the invoice under id and updates the in-memory mapping.
// Saving an existing id overwrites the record; there is no merge.
func (s *Store) Save(id string, invoice *model.Invoice) error {
	if id == "" {
		return fmt.Errorf("%w: record id is required", common.ErrInvalidConfig)
	}

	data, err := json.MarshalIndent(invoice, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode invoice %s: %w", id, err)
	}

	path := filepath.Join(s.dir, id+".json")
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write invoice %s: %w", id, err)
	}

	s.invoices[id] = invoice
	return nil
}

// SaveMetadata persists the companion metadata record for id.
func (s *Store) SaveMetadata(id string, meta *model.Metadata) error {
	if id == "" {
		return fmt.Errorf("%w: record id is required", common.ErrInvalidConfig)
	}

	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode metadata for %s: %w", id, err)
	}

	path := filepath.Join(s.dir, id+metadataSuffix+".json")
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write metadata for %s: %w", id, err)
	}

	return nil
}

// LoadAll rebuilds the in-memory mapping from every persisted record,
// keyed by filename stem. Metadata side-records are skipped. A record that
// fails to decode is a permanent data-shape failure, not a retryable one.
func (s *Store) LoadAll() error {
	entries, err := filepath.Glob(filepath.Join(s.dir, "*.json"))
	if err != nil {
		return fmt.Errorf("failed to scan store directory: %w", err)
	}

	loaded := make(map[string]*model.Invoice, len(entries))
	for _, path := range entries {
		stem := strings.TrimSuffix(filepath.Base(path), ".json")
		if strings.HasSuffix(stem, metadataSuffix) {
			continue
		}

		data, err := os.ReadFile(path) // #nosec G304
		if err != nil {
			return fmt.Errorf("failed to read record %s: %w", stem, err)
		}

		var invoice model.Invoice
		if err := json.Unmarshal(data, &invoice); err != nil {
			return fmt.Errorf("%w: record %s: %v", common.ErrStoreCorrupted, stem, err)
		}

		loaded[stem] = &invoice
	}

	s.invoices = loaded
	return nil
}

// Get looks up a record by id.
func (s *Store) Get(id string) (*model.Invoice, bool) {
	invoice, ok := s.invoices[id]
	return invoice, ok
}

// All returns the in-memory record mapping. Callers must not mutate it.
func (s *Store) All() map[string]*model.Invoice {
	return s.invoices
}

// Metadata loads the companion metadata record for id. Returns
// common.ErrNotFound when no metadata file exists.
func (s *Store) Metadata(id string) (*model.Metadata, error) {
	path := filepath.Join(s.dir, id+metadataSuffix+".json")

	data, err := os.ReadFile(path) // #nosec G304
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("metadata for %s: %w", id, common.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to read metadata for %s: %w", id, err)
	}

	var meta model.Metadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("%w: metadata %s: %v", common.ErrStoreCorrupted, id, err)
	}

	return &meta, nil
}

// ProcessedFileIDs scans the persisted metadata records and returns the set
// of source file ids already processed. The monitor seeds its skip-set from
// this at startup so a restart does not reprocess old files.
func (s *Store) ProcessedFileIDs() (map[string]struct{}, error) {
	entries, err := filepath.Glob(filepath.Join(s.dir, "*"+metadataSuffix+".json"))
	if err != nil {
		return nil, fmt.Errorf("failed to scan store directory: %w", err)
	}

	ids := make(map[string]struct{}, len(entries))
	for _, path := range entries {
		data, err := os.ReadFile(path) // #nosec G304
		if err != nil {
			return nil, fmt.Errorf("failed to read metadata %s: %w", filepath.Base(path), err)
		}

		var meta model.Metadata
		if err := json.Unmarshal(data, &meta); err != nil {
			return nil, fmt.Errorf("%w: metadata %s: %v", common.ErrStoreCorrupted, filepath.Base(path), err)
		}

		if meta.FileID != "" {
			ids[meta.FileID] = struct{}{}
		}
	}

	return ids, nil
}
