package drive

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/castlebay/invoicehound/internal/common"
	"github.com/castlebay/invoicehound/internal/model"
)

// MockClient is an in-memory implementation of service.DriveClient for
// testing. Folder listings and file contents are seeded directly; calls are
// recorded for assertions.
type MockClient struct {
	Folders  map[string][]model.File // folder id -> entries
	Contents map[string][]byte       // file id -> bytes

	ListErr     error
	DownloadErr error

	ListCalls      []string
	ListSinceCalls []ListSinceCall
	DownloadCalls  []string

	mu sync.Mutex
}

// ListSinceCall records one ListFolderModifiedSince invocation.
type ListSinceCall struct {
	Since    time.Time
	FolderID string
}

// NewMockClient creates an empty mock client.
func NewMockClient() *MockClient {
	return &MockClient{
		Folders:  make(map[string][]model.File),
		Contents: make(map[string][]byte),
	}
}

// AddFile seeds a folder entry and its content.
func (m *MockClient) AddFile(folderID string, file model.File, content []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Folders[folderID] = append(m.Folders[folderID], file)
	m.Contents[file.ID] = content
}

// ListFolder implements service.DriveClient.
func (m *MockClient) ListFolder(_ context.Context, folderID string) ([]model.File, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.ListCalls = append(m.ListCalls, folderID)
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	return append([]model.File(nil), m.Folders[folderID]...), nil
}

// ListFolderModifiedSince implements service.DriveClient. Entries whose
// ModifiedTime fails to parse are treated as unmodified.
func (m *MockClient) ListFolderModifiedSince(_ context.Context, folderID string, since time.Time) ([]model.File, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.ListSinceCalls = append(m.ListSinceCalls, ListSinceCall{FolderID: folderID, Since: since})
	if m.ListErr != nil {
		return nil, m.ListErr
	}

	var files []model.File
	for _, f := range m.Folders[folderID] {
		modified, err := time.Parse(time.RFC3339, f.ModifiedTime)
		if err != nil {
			continue
		}
		if modified.After(since) {
			files = append(files, f)
		}
	}
	return files, nil
}

// Download implements service.DriveClient.
func (m *MockClient) Download(_ context.Context, fileID string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.DownloadCalls = append(m.DownloadCalls, fileID)
	if m.DownloadErr != nil {
		return nil, m.DownloadErr
	}

	content, ok := m.Contents[fileID]
	if !ok {
		return nil, fmt.Errorf("file %s: %w", fileID, common.ErrNotFound)
	}
	return content, nil
}

// GetFile implements service.DriveClient.
func (m *MockClient) GetFile(_ context.Context, fileID string) (*model.File, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, files := range m.Folders {
		for _, f := range files {
			if f.ID == fileID {
				found := f
				return &found, nil
			}
		}
	}
	return nil, fmt.Errorf("file %s: %w", fileID, common.ErrNotFound)
}
