package query

import (
	"testing"

	"github.com/castlebay/invoicehound/internal/common"
	"github.com/castlebay/invoicehound/internal/model"
	"github.com/castlebay/invoicehound/internal/service"
	"github.com/castlebay/invoicehound/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) (*Service, *store.Store) {
	t.Helper()
	s, err := store.New(t.TempDir())
	require.NoError(t, err)
	return New(s), s
}

func saveInvoice(t *testing.T, s *store.Store, id string, inv *model.Invoice) {
	t.Helper()
	require.NoError(t, s.Save(id, inv))
}

func strPtr(v string) *string { return &v }

func floatPtr(v float64) *float64 { return &v }

func TestService_List(t *testing.T) {
	q, s := newTestService(t)

	saveInvoice(t, s, "INV-002", &model.Invoice{
		VendorName:  "Acme",
		InvoiceDate: "03/15/2024",
		TotalAmount: "100.00",
		Currency:    "EUR",
	})
	saveInvoice(t, s, "INV-001", &model.Invoice{})

	got := q.List()
	require.Len(t, got, 2)

	// Sorted by id; missing fields display as Unknown with USD fallback.
	assert.Equal(t, model.Summary{
		ID: "INV-001", Vendor: "Unknown", Date: "Unknown", Amount: "Unknown", Currency: "USD",
	}, got[0])
	assert.Equal(t, model.Summary{
		ID: "INV-002", Vendor: "Acme", Date: "03/15/2024", Amount: "100.00", Currency: "EUR",
	}, got[1])
}

func TestService_Get(t *testing.T) {
	q, s := newTestService(t)
	saveInvoice(t, s, "INV-001", &model.Invoice{VendorName: "Acme"})

	inv, err := q.Get("INV-001")
	require.NoError(t, err)
	assert.Equal(t, "Acme", inv.VendorName)

	_, err = q.Get("nope")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestService_VendorsAggregation(t *testing.T) {
	q, s := newTestService(t)

	saveInvoice(t, s, "a", &model.Invoice{VendorName: "Acme", TotalAmount: "1,000.50"})
	saveInvoice(t, s, "b", &model.Invoice{VendorName: "Acme", TotalAmount: "not-a-number"})
	saveInvoice(t, s, "c", &model.Invoice{VendorName: "Globex", TotalAmount: "250.00"})
	// No vendor name: excluded from both count and sum.
	saveInvoice(t, s, "d", &model.Invoice{TotalAmount: "999.00"})

	vendors := q.Vendors()
	require.Len(t, vendors, 2)

	acme := vendors["Acme"]
	assert.Equal(t, 2, acme.InvoiceCount, "unparsable amount still counts the invoice")
	assert.InDelta(t, 1000.50, acme.TotalSpend, 0.001, "unparsable amount contributes 0")

	globex := vendors["Globex"]
	assert.Equal(t, 1, globex.InvoiceCount)
	assert.InDelta(t, 250.00, globex.TotalSpend, 0.001)

	assert.Equal(t, []string{"Acme", "Globex"}, q.VendorNames())
}

func TestService_VendorInvoices(t *testing.T) {
	q, s := newTestService(t)

	saveInvoice(t, s, "b", &model.Invoice{VendorName: "Acme", TotalAmount: "2.00"})
	saveInvoice(t, s, "a", &model.Invoice{VendorName: "Acme", TotalAmount: "1.00"})
	saveInvoice(t, s, "c", &model.Invoice{VendorName: "Globex"})

	got := q.VendorInvoices("Acme")
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].ID)
	assert.Equal(t, "b", got[1].ID)
}

func TestService_Analytics(t *testing.T) {
	q, s := newTestService(t)

	saveInvoice(t, s, "a", &model.Invoice{
		VendorName: "Acme", TotalAmount: "1,000.00", Currency: "USD", InvoiceDate: "03/15/2024",
	})
	saveInvoice(t, s, "b", &model.Invoice{
		VendorName: "Acme", TotalAmount: "500.00", Currency: "USD", InvoiceDate: "01/01/2024",
	})
	// No currency: totals under "Unknown".
	saveInvoice(t, s, "c", &model.Invoice{
		VendorName: "Globex", TotalAmount: "250.00", InvoiceDate: "06/30/2024",
	})
	// Date with dashes does not parse as MM/DD/YYYY: excluded from the range.
	saveInvoice(t, s, "d", &model.Invoice{
		VendorName: "Initech", TotalAmount: "bad", InvoiceDate: "12-31-2020",
	})

	got := q.Analytics()

	assert.Equal(t, 4, got.TotalInvoices)
	assert.Equal(t, 3, got.VendorCount)
	assert.Equal(t, []string{"Acme", "Globex", "Initech"}, got.VendorList)
	assert.InDelta(t, 1500.00, got.TotalAmountByCurrency["USD"], 0.001)
	assert.InDelta(t, 250.00, got.TotalAmountByCurrency["Unknown"], 0.001)
	assert.Equal(t, "2024-01-01", got.DateRange.Earliest)
	assert.Equal(t, "2024-06-30", got.DateRange.Latest)
}

func TestService_AnalyticsSingleDigitDates(t *testing.T) {
	q, s := newTestService(t)

	// The extractor captures unpadded months and days; the range must still
	// include them.
	saveInvoice(t, s, "a", &model.Invoice{VendorName: "Acme", InvoiceDate: "3/5/2024"})
	saveInvoice(t, s, "b", &model.Invoice{VendorName: "Acme", InvoiceDate: "11/20/2024"})

	got := q.Analytics()
	assert.Equal(t, "2024-03-05", got.DateRange.Earliest)
	assert.Equal(t, "2024-11-20", got.DateRange.Latest)
}

func TestService_AnalyticsEmptyStore(t *testing.T) {
	q, _ := newTestService(t)

	got := q.Analytics()
	assert.Equal(t, 0, got.TotalInvoices)
	assert.Equal(t, "Unknown", got.DateRange.Earliest)
	assert.Equal(t, "Unknown", got.DateRange.Latest)
}

func TestService_SearchAmountRange(t *testing.T) {
	q, s := newTestService(t)

	saveInvoice(t, s, "low", &model.Invoice{TotalAmount: "50.00"})
	saveInvoice(t, s, "edge", &model.Invoice{TotalAmount: "500.00"})
	saveInvoice(t, s, "high", &model.Invoice{TotalAmount: "600.00"})
	saveInvoice(t, s, "mid", &model.Invoice{TotalAmount: "250.00"})

	got := q.Search(service.SearchOptions{MinAmount: floatPtr(100), MaxAmount: floatPtr(500)})
	require.Len(t, got, 2)
	assert.Equal(t, "edge", got[0].ID, "upper bound is inclusive")
	assert.Equal(t, "mid", got[1].ID)
}

func TestService_SearchMissingAmountPassesNumericFilters(t *testing.T) {
	q, s := newTestService(t)

	saveInvoice(t, s, "noamount", &model.Invoice{VendorName: "Acme"})
	saveInvoice(t, s, "unparsable", &model.Invoice{VendorName: "Acme", TotalAmount: "n/a"})

	got := q.Search(service.SearchOptions{MinAmount: floatPtr(100)})
	require.Len(t, got, 1)
	assert.Equal(t, "noamount", got[0].ID,
		"absent amount skips the filter; unparsable amount fails it")
}

func TestService_SearchVendorExactMatch(t *testing.T) {
	q, s := newTestService(t)

	saveInvoice(t, s, "a", &model.Invoice{VendorName: "Acme"})
	saveInvoice(t, s, "b", &model.Invoice{VendorName: "Acme Corp"})
	saveInvoice(t, s, "c", &model.Invoice{})

	got := q.Search(service.SearchOptions{Vendor: strPtr("Acme")})
	require.Len(t, got, 1)
	assert.Equal(t, "a", got[0].ID)
}

func TestService_SearchDateRange(t *testing.T) {
	q, s := newTestService(t)

	saveInvoice(t, s, "jan", &model.Invoice{InvoiceDate: "01/15/2024"})
	saveInvoice(t, s, "jun", &model.Invoice{InvoiceDate: "06/15/2024"})
	saveInvoice(t, s, "dec", &model.Invoice{InvoiceDate: "12/15/2024"})
	// A dash-separated date fails the fixed-format parse, so it fails date
	// filters even though the extractor captured it happily.
	saveInvoice(t, s, "dashes", &model.Invoice{InvoiceDate: "06-15-2024"})
	// No date at all skips date filters entirely.
	saveInvoice(t, s, "undated", &model.Invoice{})

	got := q.Search(service.SearchOptions{
		StartDate: strPtr("03/01/2024"),
		EndDate:   strPtr("09/01/2024"),
	})
	require.Len(t, got, 2)
	assert.Equal(t, "jun", got[0].ID)
	assert.Equal(t, "undated", got[1].ID)
}

func TestService_SearchSingleDigitDates(t *testing.T) {
	q, s := newTestService(t)

	saveInvoice(t, s, "march", &model.Invoice{InvoiceDate: "3/5/2024"})
	saveInvoice(t, s, "late", &model.Invoice{InvoiceDate: "12/15/2025"})

	// Unpadded dates work on both sides of the filter.
	got := q.Search(service.SearchOptions{
		StartDate: strPtr("1/1/2024"),
		EndDate:   strPtr("12/31/2024"),
	})
	require.Len(t, got, 1)
	assert.Equal(t, "march", got[0].ID)
}

func TestService_SearchKeywordRequiresMetadata(t *testing.T) {
	q, s := newTestService(t)

	saveInvoice(t, s, "with-meta", &model.Invoice{VendorName: "Acme"})
	require.NoError(t, s.SaveMetadata("with-meta", &model.Metadata{
		RawText: "Annual renewal for Enterprise License",
	}))
	saveInvoice(t, s, "no-meta", &model.Invoice{VendorName: "Acme"})

	got := q.Search(service.SearchOptions{Keyword: strPtr("enterprise")})
	require.Len(t, got, 1)
	assert.Equal(t, "with-meta", got[0].ID)

	// Even a keyword that matches nothing relevant excludes metadata-less
	// records: the conjunctive policy is strict.
	got = q.Search(service.SearchOptions{Vendor: strPtr("Acme"), Keyword: strPtr("license")})
	require.Len(t, got, 1)
	assert.Equal(t, "with-meta", got[0].ID)
}

func TestService_SearchConjunctive(t *testing.T) {
	q, s := newTestService(t)

	saveInvoice(t, s, "match", &model.Invoice{
		VendorName: "Acme", TotalAmount: "300.00", InvoiceDate: "05/01/2024",
	})
	saveInvoice(t, s, "wrong-vendor", &model.Invoice{
		VendorName: "Globex", TotalAmount: "300.00", InvoiceDate: "05/01/2024",
	})
	saveInvoice(t, s, "too-expensive", &model.Invoice{
		VendorName: "Acme", TotalAmount: "900.00", InvoiceDate: "05/01/2024",
	})

	got := q.Search(service.SearchOptions{
		Vendor:    strPtr("Acme"),
		MinAmount: floatPtr(100),
		MaxAmount: floatPtr(500),
		StartDate: strPtr("01/01/2024"),
		EndDate:   strPtr("12/31/2024"),
	})
	require.Len(t, got, 1)
	assert.Equal(t, "match", got[0].ID)
}

func TestService_SearchNoFiltersReturnsEverything(t *testing.T) {
	q, s := newTestService(t)

	saveInvoice(t, s, "a", &model.Invoice{})
	saveInvoice(t, s, "b", &model.Invoice{VendorName: "Acme"})

	got := q.Search(service.SearchOptions{})
	assert.Len(t, got, 2)
}
