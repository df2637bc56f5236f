package pdftext

import "testing"

func TestExtract_RejectsNonPDF(t *testing.T) {
	e := New()

	if _, err := e.Extract([]byte("this is not a pdf")); err == nil {
		t.Error("expected an error for non-PDF bytes")
	}

	if _, err := e.Extract(nil); err == nil {
		t.Error("expected an error for empty input")
	}
}
