// Package prompts holds the fixed report templates. Each generator returns a
// static instructional string; no invoice data flows into them.
package prompts

import "fmt"

// VendorSpendSummary returns the spend-summary template, scoped to one
// vendor when a name is given.
func VendorSpendSummary(vendorName string) string {
	if vendorName != "" {
		return fmt.Sprintf(`Analyze all invoices from %s and provide:
1. Total amount spent
2. Average invoice amount
3. Payment frequency
4. License types purchased
5. Year-over-year spend trends
6. Recommendations for cost optimization`, vendorName)
	}
	return `Analyze spending across all vendors and provide:
1. Top 5 vendors by spend
2. Monthly/quarterly spend breakdown
3. Categories of highest expense
4. Year-over-year trends
5. Recommendations for cost optimization`
}

// LicenseUtilizationAnalysis returns the license-analysis template.
func LicenseUtilizationAnalysis() string {
	return `Analyze the licenses purchased across all invoices:
1. Total licenses by vendor and type
2. License expiration dates and renewal timeline
3. License cost per user/seat
4. Recommendations for consolidation or optimization
5. License distribution across departments (if applicable)`
}

// PaymentTermsAnalysis returns the payment-terms template.
func PaymentTermsAnalysis() string {
	return `Analyze payment terms across all vendors:
1. Standard terms by vendor
2. Opportunities for negotiation
3. Early payment discount potential
4. Vendors with inconsistent terms
5. Recommendations for standardization`
}

// UpcomingPayments returns the payment-schedule template.
func UpcomingPayments() string {
	return `Generate a schedule of upcoming payments based on invoice due dates:
1. Payments due in the next 30 days
2. Total payment amount by week
3. Vendors with multiple upcoming payments
4. Critical payments to prioritize
5. Recommendations for payment scheduling`
}
