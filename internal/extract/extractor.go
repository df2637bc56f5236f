// Package extract turns raw invoice text into structured records.
//
// Extraction is a fixed table of independent regular-expression rules. Each
// rule scans the full original text on its own; rules never consume or mask
// each other's input, so overlapping matches between rules are possible and
// accepted. A rule that finds nothing simply leaves its field empty.
package extract

import (
	"regexp"
	"strings"

	"github.com/castlebay/invoicehound/internal/model"
)

// datePattern matches D[-/.]D[-/.]D with a 2-or-4-digit year in either the
// leading or trailing position. No calendar validation happens here.
const datePattern = `(\d{1,2}[-/.]\d{1,2}[-/.]\d{2,4}|\d{2,4}[-/.]\d{1,2}[-/.]\d{1,2})`

// amountPattern matches a number with optional thousands separators and an
// optional two-digit decimal part, optionally preceded by a currency glyph.
const amountPattern = `[$€£¥]?\s*(\d{1,3}(?:,\d{3})*(?:\.\d{2})?|\d+(?:\.\d{2})?)`

var (
	invoiceNumberRe = regexp.MustCompile(`(?i)invoice\s*(?:#|number|num|no|nbr)[:.\s]*([A-Za-z0-9-]+)`)
	invoiceDateRe   = regexp.MustCompile(`(?i)invoice\s*date[:.\s]*` + datePattern)
	dueDateRe       = regexp.MustCompile(`(?i)due\s*date[:.\s]*` + datePattern)
	totalRe         = regexp.MustCompile(`(?i)total\s*(?:amount|due)?[:.\s]*` + amountPattern)
	vendorRe        = regexp.MustCompile(`(?is)from[:.\s]*(.*?)\n\n`)
	licenseRe       = regexp.MustCompile(`(?i)licen[sc]e\s*(?:number|#|key)?[:.\s]*([A-Za-z0-9-]+)`)
	paymentMethodRe = regexp.MustCompile(`(?i)payment\s*method[:.\s]*(.*?)\n`)
	// The masked-card pattern is the one case-sensitive rule.
	cardRe          = regexp.MustCompile(`(?:credit|card).*?([Xx*]{12,15}\d{4})`)
	poNumberRe      = regexp.MustCompile(`(?i)P\.?O\.?\s*(?:#|number)?[:.\s]*([A-Za-z0-9-]+)`)
	paymentTermsRe  = regexp.MustCompile(`(?i)(?:payment\s*)?terms[:.\s]*(.*?)\n`)
)

// rules are the field extraction steps, each scanning the full text for the
// field it populates. Order only matters for the total/currency pair, which
// share a match.
var rules = []func(text string, inv *model.Invoice){
	func(text string, inv *model.Invoice) {
		inv.InvoiceNumber = firstCapture(invoiceNumberRe, text)
	},
	func(text string, inv *model.Invoice) {
		inv.InvoiceDate = firstCapture(invoiceDateRe, text)
	},
	func(text string, inv *model.Invoice) {
		inv.DueDate = firstCapture(dueDateRe, text)
	},
	applyTotal,
	applyVendor,
	func(text string, inv *model.Invoice) {
		for _, m := range licenseRe.FindAllStringSubmatch(text, -1) {
			inv.LicenseInfo = append(inv.LicenseInfo, strings.TrimSpace(m[1]))
		}
	},
	func(text string, inv *model.Invoice) {
		if v := firstCapture(paymentMethodRe, text); v != "" {
			inv.PaymentInfo["method"] = v
		}
	},
	func(text string, inv *model.Invoice) {
		if m := cardRe.FindStringSubmatch(text); m != nil {
			inv.PaymentInfo["card"] = m[1]
		}
	},
	func(text string, inv *model.Invoice) {
		inv.PONumber = firstCapture(poNumberRe, text)
	},
	func(text string, inv *model.Invoice) {
		inv.PaymentTerms = firstCapture(paymentTermsRe, text)
	},
}

// Extract parses structured invoice fields out of raw text. It is a pure
// function and never fails: on any input, including the empty string, it
// returns a record whose unmatched fields are empty.
func Extract(text string) *model.Invoice {
	inv := &model.Invoice{
		RawText:     text,
		PaymentInfo: make(map[string]string),
	}

	for _, rule := range rules {
		rule(text, inv)
	}

	return inv
}

// applyTotal captures the total amount and infers the currency from whichever
// glyph appears in the full match. The numeric token is stored verbatim,
// thousands separators included.
func applyTotal(text string, inv *model.Invoice) {
	m := totalRe.FindStringSubmatch(text)
	if m == nil {
		return
	}
	inv.TotalAmount = strings.TrimSpace(m[1])

	switch {
	case strings.Contains(m[0], "$"):
		inv.Currency = "USD"
	case strings.Contains(m[0], "€"):
		inv.Currency = "EUR"
	case strings.Contains(m[0], "£"):
		inv.Currency = "GBP"
	case strings.Contains(m[0], "¥"):
		inv.Currency = "JPY"
	}
}

// applyVendor captures everything between a "from:" label and the first blank
// line. The first line becomes the vendor name, the remainder the address.
// Without a blank-line terminator the rule matches nothing at all.
func applyVendor(text string, inv *model.Invoice) {
	m := vendorRe.FindStringSubmatch(text)
	if m == nil {
		return
	}

	lines := strings.Split(strings.TrimSpace(m[1]), "\n")
	if len(lines) == 0 {
		return
	}
	inv.VendorName = strings.TrimSpace(lines[0])
	if len(lines) > 1 {
		inv.VendorAddress = strings.TrimSpace(strings.Join(lines[1:], "\n"))
	}
}

func firstCapture(re *regexp.Regexp, text string) string {
	if m := re.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}
	return ""
}
