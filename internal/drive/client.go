// Package drive wraps the Google Drive v3 API behind the service.DriveClient
// interface. Pagination is flattened here; callers always see a complete
// listing.
package drive

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"golang.org/x/oauth2"
	gdrive "google.golang.org/api/drive/v3"
	"google.golang.org/api/option"

	"github.com/castlebay/invoicehound/internal/common"
	"github.com/castlebay/invoicehound/internal/model"
)

// listFields is the field mask for folder listings.
const listFields = "nextPageToken, files(id, name, mimeType, createdTime, modifiedTime)"

// Client talks to the Google Drive API.
type Client struct {
	service *gdrive.Service
	logger  *slog.Logger
}

// NewClient creates a Drive client from an OAuth2 token source.
func NewClient(ctx context.Context, ts oauth2.TokenSource, logger *slog.Logger) (*Client, error) {
	service, err := gdrive.NewService(ctx, option.WithTokenSource(ts))
	if err != nil {
		return nil, fmt.Errorf("failed to create drive service: %w", err)
	}

	return &Client{
		service: service,
		logger:  logger,
	}, nil
}

// ListFolder returns every non-trashed entry of a folder, fully paginated.
func (c *Client) ListFolder(ctx context.Context, folderID string) ([]model.File, error) {
	query := fmt.Sprintf("'%s' in parents and trashed = false", folderID)
	return c.list(ctx, folderID, query)
}

// ListFolderModifiedSince returns the folder entries modified strictly after
// the given time.
func (c *Client) ListFolderModifiedSince(ctx context.Context, folderID string, since time.Time) ([]model.File, error) {
	query := fmt.Sprintf("'%s' in parents and trashed = false and modifiedTime > '%s'",
		folderID, since.UTC().Format(time.RFC3339))
	return c.list(ctx, folderID, query)
}

func (c *Client) list(ctx context.Context, folderID, query string) ([]model.File, error) {
	var files []model.File
	pageToken := ""

	for {
		call := c.service.Files.List().
			Q(query).
			Spaces("drive").
			Fields(listFields).
			Context(ctx)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}

		resp, err := call.Do()
		if err != nil {
			return nil, fmt.Errorf("%w: list folder %s: %v", common.ErrDriveConnection, folderID, err)
		}

		for _, f := range resp.Files {
			files = append(files, model.File{
				ID:           f.Id,
				Name:         f.Name,
				MimeType:     f.MimeType,
				CreatedTime:  f.CreatedTime,
				ModifiedTime: f.ModifiedTime,
			})
		}

		pageToken = resp.NextPageToken
		if pageToken == "" {
			break
		}
	}

	c.logger.Debug("listed folder", "folder_id", folderID, "files", len(files))
	return files, nil
}

// Download fetches a file's content by id.
func (c *Client) Download(ctx context.Context, fileID string) ([]byte, error) {
	resp, err := c.service.Files.Get(fileID).Context(ctx).Download()
	if err != nil {
		return nil, fmt.Errorf("%w: download %s: %v", common.ErrDriveConnection, fileID, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", common.ErrDriveConnection, fileID, err)
	}

	return data, nil
}

// GetFile fetches a single file's metadata.
func (c *Client) GetFile(ctx context.Context, fileID string) (*model.File, error) {
	f, err := c.service.Files.Get(fileID).
		Fields("id, name, mimeType, createdTime, modifiedTime").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("%w: get file %s: %v", common.ErrDriveConnection, fileID, err)
	}

	return &model.File{
		ID:           f.Id,
		Name:         f.Name,
		MimeType:     f.MimeType,
		CreatedTime:  f.CreatedTime,
		ModifiedTime: f.ModifiedTime,
	}, nil
}
