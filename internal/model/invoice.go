// Package model defines the core data types shared across the application.
package model

import "fmt"

// Invoice holds the structured fields extracted from one invoice document.
// Every field except RawText is optional: an empty value means no extraction
// rule matched, not that the value is known to be absent. Amounts and dates
// are kept as the raw captured strings; the query layer re-parses them
// opportunistically.
type Invoice struct {
	InvoiceNumber string            `json:"invoice_number,omitempty"`
	InvoiceDate   string            `json:"invoice_date,omitempty"`
	DueDate       string            `json:"due_date,omitempty"`
	VendorName    string            `json:"vendor_name,omitempty"`
	VendorAddress string            `json:"vendor_address,omitempty"`
	BilledTo      string            `json:"billed_to,omitempty"`
	TotalAmount   string            `json:"total_amount,omitempty"`
	Subtotal      string            `json:"subtotal,omitempty"`
	TaxAmount     string            `json:"tax_amount,omitempty"`
	LineItems     []map[string]any  `json:"line_items,omitempty"`
	PaymentTerms  string            `json:"payment_terms,omitempty"`
	LicenseInfo   []string          `json:"license_info,omitempty"`
	PaymentInfo   map[string]string `json:"payment_info,omitempty"`
	Currency      string            `json:"currency,omitempty"`
	PONumber      string            `json:"po_number,omitempty"`
	RawText       string            `json:"-"`
}

// DeriveID returns the record key for this invoice: the extracted invoice
// number when present, otherwise an id synthesized from the source file id.
// The key doubles as the persisted filename stem, so it must be stable across
// save and reload.
func (inv *Invoice) DeriveID(fileID string) string {
	if inv.InvoiceNumber != "" {
		return inv.InvoiceNumber
	}
	return fmt.Sprintf("inv_%s", fileID)
}

// Metadata is the companion record persisted next to each invoice. It carries
// the raw source text so keyword search can run without re-downloading the
// document.
type Metadata struct {
	RawText       string `json:"raw_text"`
	FileName      string `json:"file_name"`
	FileID        string `json:"file_id"`
	ProcessedDate string `json:"processed_date"`
}

// Summary is the projection used by list, vendor, and search results.
type Summary struct {
	ID       string `json:"id"`
	Vendor   string `json:"vendor"`
	Date     string `json:"date"`
	Amount   string `json:"amount"`
	Currency string `json:"currency"`
}
