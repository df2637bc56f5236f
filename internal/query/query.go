// Package query implements the read-side operations over the record store:
// list, lookup, vendor aggregation, fleet analytics, and filtered search.
// Everything is a linear scan over the in-memory mapping; there are no
// indexes. Unparsable amounts and dates are silently skipped rather than
// surfaced — that behavior is load-bearing for the search and analytics
// semantics.
package query

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/castlebay/invoicehound/internal/common"
	"github.com/castlebay/invoicehound/internal/model"
	"github.com/castlebay/invoicehound/internal/service"
)

// filterDateFormat is the single fixed format used by analytics and search.
// Single-digit months and days are accepted alongside zero-padded ones, but
// the year must be four digits. The extractor captures dates in several
// separator styles; dates in any other shape are excluded from range
// computation and fail date filters.
const filterDateFormat = "1/2/2006"

// Service answers queries over the record store.
type Service struct {
	store service.RecordStore
}

// New creates a query service over the given store.
func New(store service.RecordStore) *Service {
	return &Service{store: store}
}

// List projects every record into a summary row, sorted by id. Missing
// fields fall back to "Unknown" and a missing currency displays as USD.
func (q *Service) List() []model.Summary {
	records := q.store.All()

	summaries := make([]model.Summary, 0, len(records))
	for id, inv := range records {
		summaries = append(summaries, summarize(id, inv))
	}

	sort.Slice(summaries, func(i, j int) bool { return summaries[i].ID < summaries[j].ID })
	return summaries
}

// Get looks up a single record. Absence is a sentinel not-found error, not a
// hard failure.
func (q *Service) Get(id string) (*model.Invoice, error) {
	invoice, ok := q.store.Get(id)
	if !ok {
		return nil, fmt.Errorf("invoice %s: %w", id, common.ErrNotFound)
	}
	return invoice, nil
}

// Vendors groups records by vendor name, accumulating invoice count and a
// best-effort spend sum. Records without a vendor name are excluded from
// both. An unparsable amount still counts the invoice but adds nothing to
// the sum.
func (q *Service) Vendors() map[string]service.VendorStats {
	vendors := make(map[string]service.VendorStats)

	for _, inv := range q.store.All() {
		if inv.VendorName == "" {
			continue
		}

		stats := vendors[inv.VendorName]
		stats.InvoiceCount++
		if amount, ok := parseAmount(inv.TotalAmount); ok {
			stats.TotalSpend += amount
		}
		vendors[inv.VendorName] = stats
	}

	return vendors
}

// VendorNames returns the sorted list of distinct vendor names.
func (q *Service) VendorNames() []string {
	vendors := q.Vendors()

	names := make([]string, 0, len(vendors))
	for name := range vendors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// VendorInvoices returns the summaries of every invoice from one vendor,
// sorted by id.
func (q *Service) VendorInvoices(name string) []model.Summary {
	var summaries []model.Summary
	for id, inv := range q.store.All() {
		if inv.VendorName == name {
			summaries = append(summaries, summarize(id, inv))
		}
	}

	sort.Slice(summaries, func(i, j int) bool { return summaries[i].ID < summaries[j].ID })
	return summaries
}

// Analytics computes fleet-wide statistics: total count, distinct vendors,
// per-currency amount totals, and the invoice date range. Only dates in
// MM/DD/YYYY shape participate in the range.
func (q *Service) Analytics() *service.Analytics {
	records := q.store.All()

	currencies := make(map[string]float64)
	vendorSet := make(map[string]struct{})
	var earliest, latest time.Time

	for _, inv := range records {
		if inv.VendorName != "" {
			vendorSet[inv.VendorName] = struct{}{}
		}

		if amount, ok := parseAmount(inv.TotalAmount); ok {
			currency := inv.Currency
			if currency == "" {
				currency = "Unknown"
			}
			currencies[currency] += amount
		}

		if inv.InvoiceDate != "" {
			if date, err := time.Parse(filterDateFormat, inv.InvoiceDate); err == nil {
				if earliest.IsZero() || date.Before(earliest) {
					earliest = date
				}
				if latest.IsZero() || date.After(latest) {
					latest = date
				}
			}
		}
	}

	vendorList := make([]string, 0, len(vendorSet))
	for name := range vendorSet {
		vendorList = append(vendorList, name)
	}
	sort.Strings(vendorList)

	return &service.Analytics{
		TotalInvoices:         len(records),
		VendorCount:           len(vendorList),
		VendorList:            vendorList,
		TotalAmountByCurrency: currencies,
		DateRange: service.DateRange{
			Earliest: formatRangeDate(earliest),
			Latest:   formatRangeDate(latest),
		},
	}
}

// Search applies the conjunctive filters in opts and returns the matching
// summaries sorted by id. A record missing the amount or date simply skips
// those filters; an unparsable value fails them. The keyword filter checks
// only the metadata raw text, so a record without a persisted metadata file
// can never match a keyword search.
func (q *Service) Search(opts service.SearchOptions) []model.Summary {
	var matches []model.Summary

	for id, inv := range q.store.All() {
		if q.matches(id, inv, opts) {
			matches = append(matches, summarize(id, inv))
		}
	}

	sort.Slice(matches, func(i, j int) bool { return matches[i].ID < matches[j].ID })
	return matches
}

func (q *Service) matches(id string, inv *model.Invoice, opts service.SearchOptions) bool {
	if opts.Vendor != nil && inv.VendorName != *opts.Vendor {
		return false
	}

	if inv.TotalAmount != "" && (opts.MinAmount != nil || opts.MaxAmount != nil) {
		amount, ok := parseAmount(inv.TotalAmount)
		if !ok {
			return false
		}
		if opts.MinAmount != nil && amount < *opts.MinAmount {
			return false
		}
		if opts.MaxAmount != nil && amount > *opts.MaxAmount {
			return false
		}
	}

	if inv.InvoiceDate != "" && (opts.StartDate != nil || opts.EndDate != nil) {
		date, err := time.Parse(filterDateFormat, inv.InvoiceDate)
		if err != nil {
			return false
		}
		if opts.StartDate != nil {
			start, err := time.Parse(filterDateFormat, *opts.StartDate)
			if err != nil || date.Before(start) {
				return false
			}
		}
		if opts.EndDate != nil {
			end, err := time.Parse(filterDateFormat, *opts.EndDate)
			if err != nil || date.After(end) {
				return false
			}
		}
	}

	if opts.Keyword != nil {
		meta, err := q.store.Metadata(id)
		if err != nil {
			return false
		}
		if !strings.Contains(strings.ToLower(meta.RawText), strings.ToLower(*opts.Keyword)) {
			return false
		}
	}

	return true
}

func summarize(id string, inv *model.Invoice) model.Summary {
	summary := model.Summary{
		ID:       id,
		Vendor:   inv.VendorName,
		Date:     inv.InvoiceDate,
		Amount:   inv.TotalAmount,
		Currency: inv.Currency,
	}
	if summary.Vendor == "" {
		summary.Vendor = "Unknown"
	}
	if summary.Date == "" {
		summary.Date = "Unknown"
	}
	if summary.Amount == "" {
		summary.Amount = "Unknown"
	}
	if summary.Currency == "" {
		summary.Currency = "USD"
	}
	return summary
}

// parseAmount strips thousands separators and parses the remainder as a
// float. Failure is reported, never raised.
func parseAmount(amount string) (float64, bool) {
	if amount == "" {
		return 0, false
	}
	value, err := strconv.ParseFloat(strings.ReplaceAll(amount, ",", ""), 64)
	if err != nil {
		return 0, false
	}
	return value, true
}

func formatRangeDate(t time.Time) string {
	if t.IsZero() {
		return "Unknown"
	}
	return t.Format("2006-01-02")
}
