package model

import "testing"

func TestInvoice_DeriveID(t *testing.T) {
	tests := []struct {
		name    string
		invoice Invoice
		fileID  string
		want    string
	}{
		{
			name:    "uses extracted invoice number when present",
			invoice: Invoice{InvoiceNumber: "INV-2024-001"},
			fileID:  "1a2b3c",
			want:    "INV-2024-001",
		},
		{
			name:    "synthesizes id from file id when number missing",
			invoice: Invoice{},
			fileID:  "1a2b3c",
			want:    "inv_1a2b3c",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.invoice.DeriveID(tt.fileID); got != tt.want {
				t.Errorf("DeriveID() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFile_IsPDF(t *testing.T) {
	pdf := File{ID: "x", MimeType: "application/pdf"}
	if !pdf.IsPDF() {
		t.Error("expected application/pdf to be recognized")
	}

	doc := File{ID: "y", MimeType: "application/vnd.google-apps.document"}
	if doc.IsPDF() {
		t.Error("expected non-PDF mime type to be rejected")
	}
}
