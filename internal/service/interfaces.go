// Package service defines the interfaces for all application services.
package service

import (
	"context"
	"time"

	"github.com/castlebay/invoicehound/internal/model"
)

// DriveClient defines the contract for the cloud storage collaborator.
// Pagination is the implementation's concern; callers consume flattened lists.
type DriveClient interface {
	ListFolder(ctx context.Context, folderID string) ([]model.File, error)
	ListFolderModifiedSince(ctx context.Context, folderID string, since time.Time) ([]model.File, error)
	Download(ctx context.Context, fileID string) ([]byte, error)
	GetFile(ctx context.Context, fileID string) (*model.File, error)
}

// TextExtractor converts document bytes to plain text.
type TextExtractor interface {
	Extract(data []byte) (string, error)
}

// RecordStore defines the contract for the persistence layer.
type RecordStore interface {
	Save(id string, invoice *model.Invoice) error
	SaveMetadata(id string, meta *model.Metadata) error
	LoadAll() error
	Get(id string) (*model.Invoice, bool)
	All() map[string]*model.Invoice
	Metadata(id string) (*model.Metadata, error)
	ProcessedFileIDs() (map[string]struct{}, error)
}

// SearchOptions filters invoice search. A nil field means unconstrained.
// Amount bounds are inclusive; dates use the MM/DD/YYYY format both for the
// filter values and the stored invoice dates.
type SearchOptions struct {
	Vendor    *string
	MinAmount *float64
	MaxAmount *float64
	StartDate *string
	EndDate   *string
	Keyword   *string
}

// Analytics summarizes the full record set.
type Analytics struct {
	TotalInvoices         int                `json:"total_invoices"`
	VendorCount           int                `json:"vendor_count"`
	VendorList            []string           `json:"vendor_list"`
	TotalAmountByCurrency map[string]float64 `json:"total_amount_by_currency"`
	DateRange             DateRange          `json:"date_range"`
}

// DateRange holds the earliest and latest invoice dates, formatted
// YYYY-MM-DD, or "Unknown" when no date parsed.
type DateRange struct {
	Earliest string `json:"earliest"`
	Latest   string `json:"latest"`
}

// VendorStats aggregates the invoices of a single vendor.
type VendorStats struct {
	InvoiceCount int     `json:"invoice_count"`
	TotalSpend   float64 `json:"total_spend"`
}

// RetryOptions configures retry behavior for operations.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}
