package extract

import "strings"

// invoiceIndicators is the fixed keyword set used to decide whether a
// document is an invoice. Matching is plain substring containment, not
// word-boundary aware: "invoice" matches inside "reinvoiced".
var invoiceIndicators = []string{
	"invoice", "bill", "payment", "due date", "total amount",
	"invoice number", "invoice date", "billed to", "payment terms",
}

// invoiceThreshold is the minimum number of distinct indicators required.
const invoiceThreshold = 3

// IsInvoice reports whether the text looks like an invoice. This is a
// counting heuristic, not a trained classifier; false positives and
// negatives are expected and accepted.
func IsInvoice(text string) bool {
	lower := strings.ToLower(text)

	matches := 0
	for _, indicator := range invoiceIndicators {
		if strings.Contains(lower, indicator) {
			matches++
		}
	}

	return matches >= invoiceThreshold
}
