package slides

import (
	"context"
	"fmt"
	"net/http"

	"github.com/k1LoW/errors"
	"google.golang.org/api/option"
	slidesapi "google.golang.org/api/slides/v1"

	"github.com/teemow/docsmith/internal/google"
)

var _ PresentationService = (*Client)(nil)

// Client wraps the Google Slides API service
type Client struct {
	service *slidesapi.Service
	account string
}

// Account returns the account name this client is associated with
func (c *Client) Account() string {
	return c.account
}

// NewClientForAccountWithProvider creates a Slides client for account with a
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

// NewClient creates a Slides client on top of an authenticated HTTP client.
func NewClient(ctx context.Context, account string, httpClient *http.Client, opts ...option.ClientOption) (*Client, error) {
	opts = append([]option.ClientOption{option.WithHTTPClient(httpClient)}, opts...)

	service, err := slidesapi.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Slides service: %w", err)
	}

	return &Client{service: service, account: account}, nil
}

// CreatePresentation creates a presentation with the default first slide.
func (c *Client) CreatePresentation(ctx context.Context, title string) (_ *slidesapi.Presentation, err error) {
	defer func() {
		err = errors.WithStack(err)
	}()

	pres, err := c.service.Presentations.Create(&slidesapi.Presentation{Title: title}).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to create presentation %q: %w", title, err)
	}
	return pres, nil
}

// BatchUpdate applies requests to a presentation as one atomic batch.
func (c *Client) BatchUpdate(ctx context.Context, presentationID string, requests []*slidesapi.Request) (_ *slidesapi.BatchUpdatePresentationResponse, err error) {
	defer func() {
		err = errors.WithStack(err)
	}()

	resp, err := c.service.Presentations.BatchUpdate(presentationID, &slidesapi.BatchUpdatePresentationRequest{
		Requests: requests,
	}).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to update presentation %s: %w", presentationID, err)
	}
	return resp, nil
}
