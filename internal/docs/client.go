package docs

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/k1LoW/errors"
	docsapi "google.golang.org/api/docs/v1"
	drive "google.golang.org/api/drive/v3"
	"google.golang.org/api/option"

	"github.com/teemow/docsmith/internal/google"
)

// DocumentService is the subset of the Docs and Drive APIs the write path
// needs. *Client implements it.
type DocumentService interface {
	GetDocument(ctx context.Context, documentID string) (*docsapi.Document, error)
	CreateDocument(ctx context.Context, title string) (*docsapi.Document, error)
	BatchUpdate(ctx context.Context, documentID string, requests []*docsapi.Request) (*docsapi.BatchUpdateDocumentResponse, error)
	MoveToFolder(ctx context.Context, fileID, folderID string) error
}

var (
	_ DocumentService = (*Client)(nil)
	_ DocumentReader  = (*Client)(nil)
)

// Client wraps the Google Docs and Drive API services
type Client struct {
	docsService  *docsapi.Service
	driveService *drive.Service
	account      string // The account this client is associated with
}

// Account returns the account name this client is associated with
func (c *Client) Account() string {
	return c.account
}

// NewClientForAccountWithProvider creates a Docs client for account with a
// token from provider and a retrying HTTP transport.
func NewClientForAccountWithProvider(ctx context.Context, account string, provider google.TokenProvider, opts google.HTTPOptions) (*Client, error) {
	if provider == nil {
		return nil, fmt.Errorf("token provider cannot be nil")
	}

	ts, err := provider.TokenSourceForAccount(ctx, account)
	if err != nil {
		return nil, fmt.Errorf("failed to get Google OAuth token for account %s: %w", account, err)
	}

	return NewClient(ctx, account, google.NewHTTPClient(ctx, ts, opts))
}

// NewClient creates a Docs client on top of an authenticated HTTP client.
// Extra options, such as an endpoint override, apply to both services.
func NewClient(ctx context.Context, account string, httpClient *http.Client, opts ...option.ClientOption) (*Client, error) {
	opts = append([]option.ClientOption{option.WithHTTPClient(httpClient)}, opts...)

	docsService, err := docsapi.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Docs service: %w", err)
	}

	driveService, err := drive.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Drive service: %w", err)
	}

	return &Client{
		docsService:  docsService,
		driveService: driveService,
		account:      account,
	}, nil
}

// GetDocument retrieves a Google Doc with the content of every tab.
func (c *Client) GetDocument(ctx context.Context, documentID string) (_ *docsapi.Document, err error) {
	defer func() {
		err = errors.WithStack(err)
	}()
	if documentID == "" {
		return nil, fmt.Errorf("documentID is required")
	}

	doc, err := c.docsService.Documents.Get(documentID).IncludeTabsContent(true).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get document %s: %w", documentID, err)
	}

	return doc, nil
}

// CreateDocument creates an empty document.
func (c *Client) CreateDocument(ctx context.Context, title string) (_ *docsapi.Document, err error) {
	defer func() {
		err = errors.WithStack(err)
	}()

	doc, err := c.docsService.Documents.Create(&docsapi.Document{Title: title}).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to create document %q: %w", title, err)
	}
	return doc, nil
}

// BatchUpdate applies requests to a document as one atomic batch.
func (c *Client) BatchUpdate(ctx context.Context, documentID string, requests []*docsapi.Request) (_ *docsapi.BatchUpdateDocumentResponse, err error) {
	defer func() {
		err = errors.WithStack(err)
	}()

	resp, err := c.docsService.Documents.BatchUpdate(documentID, &docsapi.BatchUpdateDocumentRequest{
		Requests: requests,
	}).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to update document %s: %w", documentID, err)
	}
	return resp, nil
}

// MoveToFolder moves a Drive file into folderID, removing its other parents.
func (c *Client) MoveToFolder(ctx context.Context, fileID, folderID string) (err error) {
	defer func() {
		err = errors.WithStack(err)
	}()

	file, err := c.driveService.Files.Get(fileID).Fields("parents").SupportsAllDrives(true).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to get parents of %s: %w", fileID, err)
	}

	_, err = c.driveService.Files.Update(fileID, &drive.File{}).
		AddParents(folderID).
		RemoveParents(strings.Join(file.Parents, ",")).
		SupportsAllDrives(true).
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("failed to move %s to folder %s: %w", fileID, folderID, err)
	}
	return nil
}

// GetFileMetadata retrieves metadata for any Google Drive file
func (c *Client) GetFileMetadata(ctx context.Context, fileID string) (_ *DocumentMetadata, err error) {
	defer func() {
		err = errors.WithStack(err)
	}()
	if fileID == "" {
		return nil, fmt.Errorf("fileID is required")
	}

	file, err := c.driveService.Files.Get(fileID).
		Fields("id, name, mimeType, createdTime, modifiedTime, size, owners, webViewLink").
		SupportsAllDrives(true).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get file metadata %s: %w", fileID, err)
	}

	metadata := &DocumentMetadata{
		ID:           file.Id,
		Name:         file.Name,
		MimeType:     file.MimeType,
		CreatedTime:  file.CreatedTime,
		ModifiedTime: file.ModifiedTime,
		WebViewLink:  file.WebViewLink,
		Size:         file.Size,
	}

	for _, owner := range file.Owners {
		metadata.Owners = append(metadata.Owners, User{
			DisplayName:  owner.DisplayName,
			EmailAddress: owner.EmailAddress,
		})
	}

	return metadata, nil
}

// DownloadFile returns the content of a Drive file. Native Workspace files
// are exported to the format ExportMimeType names for mimeType.
func (c *Client) DownloadFile(ctx context.Context, fileID, mimeType string) (_ []byte, err error) {
	defer func() {
		err = errors.WithStack(err)
	}()
	if fileID == "" {
		return nil, fmt.Errorf("fileID is required")
	}

	var resp *http.Response
	if export := ExportMimeType(mimeType); export != "" {
		resp, err = c.driveService.Files.Export(fileID, export).Context(ctx).Download()
	} else {
		resp, err = c.driveService.Files.Get(fileID).SupportsAllDrives(true).Context(ctx).Download()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to download file %s: %w", fileID, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxDownloadBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", fileID, err)
	}
	if len(data) > MaxDownloadBytes {
		return nil, fmt.Errorf("file %s is larger than %d bytes", fileID, MaxDownloadBytes)
	}
	return data, nil
}

// GetStructuredDocument fetches a Drive file with its metadata and converts
// it into its typed tree. See FetchStructuredDocument.
func (c *Client) GetStructuredDocument(ctx context.Context, documentID, tabID string) (*StructuredDocument, error) {
	return FetchStructuredDocument(ctx, c, documentID, tabID)
}
