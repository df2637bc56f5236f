package monitor

import (
	"context"
	"testing"
	"time"

	"github.com/castlebay/invoicehound/internal/drive"
	"github.com/castlebay/invoicehound/internal/model"
	"github.com/castlebay/invoicehound/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// textPassthrough treats file bytes as already-extracted text, standing in
// for the PDF extractor.
type textPassthrough struct{}

func (textPassthrough) Extract(data []byte) (string, error) { return string(data), nil }

const invoiceText = `From: Acme Software Inc.
123 Main Street

Invoice Number: INV-100
Invoice Date: 03/15/2024
Total Amount: $250.00
`

const notInvoiceText = "meeting notes from tuesday\nnothing to see here\n"

func newTestService(t *testing.T, cfg Config) (*Service, *drive.MockClient, *store.Store) {
	t.Helper()

	mock := drive.NewMockClient()
	st, err := store.New(t.TempDir())
	require.NoError(t, err)

	svc := New(mock, textPassthrough{}, st, cfg)
	require.NoError(t, svc.Init())
	return svc, mock, st
}

func pdfFile(id, name, modified string) model.File {
	return model.File{
		ID:           id,
		Name:         name,
		MimeType:     model.MimeTypePDF,
		ModifiedTime: modified,
	}
}

func TestService_FirstPollReturnsFullListing(t *testing.T) {
	svc, mock, _ := newTestService(t, Config{})
	ctx := context.Background()

	old := time.Now().Add(-24 * time.Hour).Format(time.RFC3339)
	mock.AddFile("folder1", pdfFile("f1", "jan.pdf", old), []byte(invoiceText))
	mock.AddFile("folder1", pdfFile("f2", "feb.pdf", old), []byte(invoiceText))

	// First poll: full listing, not an empty delta, even though every file
	// predates the cursor initialization.
	files, err := svc.Poll(ctx, "folder1")
	require.NoError(t, err)
	assert.Len(t, files, 2)
	assert.Equal(t, []string{"folder1"}, mock.ListCalls)

	// Second poll: incremental, nothing modified since.
	files, err = svc.Poll(ctx, "folder1")
	require.NoError(t, err)
	assert.Empty(t, files)
	require.Len(t, mock.ListSinceCalls, 1)
	assert.Equal(t, "folder1", mock.ListSinceCalls[0].FolderID)
}

func TestService_PollCursorAdvances(t *testing.T) {
	svc, mock, _ := newTestService(t, Config{})
	ctx := context.Background()

	current := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return current }

	_, err := svc.Poll(ctx, "folder1")
	require.NoError(t, err)

	// A file modified after the first cursor shows up on the next poll.
	mock.AddFile("folder1", pdfFile("f1", "new.pdf",
		current.Add(30*time.Second).Format(time.RFC3339)), []byte(invoiceText))
	current = current.Add(time.Minute)

	files, err := svc.Poll(ctx, "folder1")
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "f1", files[0].ID)

	// The cursor advanced past it, so it does not show up twice.
	current = current.Add(time.Minute)
	files, err = svc.Poll(ctx, "folder1")
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestService_HandleNewFilesPipeline(t *testing.T) {
	svc, mock, st := newTestService(t, Config{})
	ctx := context.Background()

	mock.AddFile("folder1", pdfFile("f1", "acme.pdf", ""), []byte(invoiceText))

	files, _ := mock.ListFolder(ctx, "folder1")
	require.NoError(t, svc.HandleNewFiles(ctx, files))

	inv, ok := st.Get("INV-100")
	require.True(t, ok, "record keyed by extracted invoice number")
	assert.Equal(t, "Acme Software Inc.", inv.VendorName)
	assert.Equal(t, "250.00", inv.TotalAmount)
	assert.Equal(t, "USD", inv.Currency)

	meta, err := st.Metadata("INV-100")
	require.NoError(t, err)
	assert.Equal(t, "f1", meta.FileID)
	assert.Equal(t, "acme.pdf", meta.FileName)
	assert.Equal(t, invoiceText, meta.RawText)

	// Re-handling the same listing downloads nothing new.
	downloads := len(mock.DownloadCalls)
	require.NoError(t, svc.HandleNewFiles(ctx, files))
	assert.Equal(t, downloads, len(mock.DownloadCalls))
}

func TestService_HandleNewFilesSkipsNonPDF(t *testing.T) {
	svc, mock, st := newTestService(t, Config{})
	ctx := context.Background()

	mock.AddFile("folder1", model.File{
		ID: "doc1", Name: "notes.docx",
		MimeType: "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	}, []byte(invoiceText))

	files, _ := mock.ListFolder(ctx, "folder1")
	require.NoError(t, svc.HandleNewFiles(ctx, files))

	assert.Empty(t, mock.DownloadCalls)
	assert.Empty(t, st.All())
}

func TestService_HandleNewFilesNonInvoiceMarkedProcessed(t *testing.T) {
	svc, mock, st := newTestService(t, Config{})
	ctx := context.Background()

	mock.AddFile("folder1", pdfFile("f1", "notes.pdf", ""), []byte(notInvoiceText))

	files, _ := mock.ListFolder(ctx, "folder1")
	require.NoError(t, svc.HandleNewFiles(ctx, files))
	assert.Empty(t, st.All(), "non-invoice PDF creates no record")

	// Marked processed anyway: no second download.
	require.NoError(t, svc.HandleNewFiles(ctx, files))
	assert.Len(t, mock.DownloadCalls, 1)
}

func TestService_SynthesizedIDWhenNumberMissing(t *testing.T) {
	svc, mock, st := newTestService(t, Config{})
	ctx := context.Background()

	// Classifiable as an invoice but carries no invoice number.
	text := "bill for payment\ndue date: 04/01/2024\nbilled to: Acme\n"
	mock.AddFile("folder1", pdfFile("xyz789", "bill.pdf", ""), []byte(text))

	files, _ := mock.ListFolder(ctx, "folder1")
	require.NoError(t, svc.HandleNewFiles(ctx, files))

	_, ok := st.Get("inv_xyz789")
	assert.True(t, ok)
}

func TestService_ProcessFile(t *testing.T) {
	svc, mock, st := newTestService(t, Config{})
	ctx := context.Background()

	mock.AddFile("folder1", pdfFile("f1", "acme.pdf", ""), []byte(invoiceText))

	msg, err := svc.ProcessFile(ctx, "f1")
	require.NoError(t, err)
	assert.Equal(t, "Successfully processed invoice INV-100 from file acme.pdf", msg)

	_, ok := st.Get("INV-100")
	assert.True(t, ok)
}

func TestService_ProcessFileOutcomeMessages(t *testing.T) {
	svc, mock, _ := newTestService(t, Config{})
	ctx := context.Background()

	mock.AddFile("folder1", model.File{ID: "doc1", Name: "notes.txt", MimeType: "text/plain"}, nil)
	mock.AddFile("folder1", pdfFile("f2", "notes.pdf", ""), []byte(notInvoiceText))

	msg, err := svc.ProcessFile(ctx, "doc1")
	require.NoError(t, err)
	assert.Equal(t, "This file is not a PDF.", msg)

	msg, err = svc.ProcessFile(ctx, "f2")
	require.NoError(t, err)
	assert.Equal(t, "This PDF does not appear to be an invoice.", msg)

	_, err = svc.ProcessFile(ctx, "missing")
	assert.Error(t, err)
}

func TestService_ProcessedSetSurvivesRestart(t *testing.T) {
	svc, mock, st := newTestService(t, Config{})
	ctx := context.Background()

	mock.AddFile("folder1", pdfFile("f1", "acme.pdf", ""), []byte(invoiceText))
	files, _ := mock.ListFolder(ctx, "folder1")
	require.NoError(t, svc.HandleNewFiles(ctx, files))
	require.Len(t, mock.DownloadCalls, 1)

	// Fresh service over the same store directory: the processed index is
	// rebuilt from metadata, so the file is not reprocessed.
	restarted := New(mock, textPassthrough{}, st, Config{})
	require.NoError(t, restarted.Init())
	require.NoError(t, restarted.HandleNewFiles(ctx, files))
	assert.Len(t, mock.DownloadCalls, 1)
}

func TestService_Watch(t *testing.T) {
	svc, _, _ := newTestService(t, Config{DefaultFolderID: "default-folder"})

	id, err := svc.Watch("")
	require.NoError(t, err)
	assert.Equal(t, "default-folder", id)

	id, err = svc.Watch("explicit")
	require.NoError(t, err)
	assert.Equal(t, "explicit", id)

	// Re-watching is a no-op, not a duplicate.
	_, err = svc.Watch("explicit")
	require.NoError(t, err)
	assert.Equal(t, []string{"default-folder", "explicit"}, svc.watched)
}

func TestService_WatchRequiresFolder(t *testing.T) {
	svc, _, _ := newTestService(t, Config{})

	_, err := svc.Watch("")
	assert.Error(t, err)
}
