package google

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/oauth2"
)

// TokenProvider is an interface for providing OAuth tokens for Google APIs
// This abstraction allows different token sources (file-based, in-memory for tests, etc.)
type TokenProvider interface {
	// TokenSourceForAccount returns a refreshing token source for the account
	TokenSourceForAccount(ctx context.Context, account string) (oauth2.TokenSource, error)

	// HasTokenForAccount checks if a token exists for the specified account
	HasTokenForAccount(account string) bool
}

// FileTokenProvider provides tokens stored as JSON files, one per account.
type FileTokenProvider struct {
	dir    string
	config *oauth2.Config
}

// NewFileTokenProvider creates a provider reading tokens from dir and
// refreshing them with config. An empty dir selects DefaultTokenDir.
func NewFileTokenProvider(dir string, config *oauth2.Config) *FileTokenProvider {
	if dir == "" {
		dir = DefaultTokenDir()
	}
	return &FileTokenProvider{dir: dir, config: config}
}

// TokenSourceForAccount loads the account's token. The returned source
// refreshes the token when it expires.
func (p *FileTokenProvider) TokenSourceForAccount(ctx context.Context, account string) (oauth2.TokenSource, error) {
	if err := validateAccountName(account); err != nil {
		return nil, err
	}
	if p.config == nil {
		return nil, fmt.Errorf("no OAuth client configured")
	}

	token, err := readToken(tokenFilePath(p.dir, account))
	if err != nil {
		return nil, fmt.Errorf("no valid Google OAuth token found for account %s: %w", account, err)
	}

	return p.config.TokenSource(ctx, token), nil
}

// HasTokenForAccount checks if a token file exists for the specified account
func (p *FileTokenProvider) HasTokenForAccount(account string) bool {
	if validateAccountName(account) != nil {
		return false
	}
	_, err := os.Stat(tokenFilePath(p.dir, account))
	return err == nil
}

// StaticTokenProvider serves fixed token sources per account.
type StaticTokenProvider map[string]oauth2.TokenSource

// TokenSourceForAccount returns the token source registered for account.
func (p StaticTokenProvider) TokenSourceForAccount(_ context.Context, account string) (oauth2.TokenSource, error) {
	ts, ok := p[account]
	if !ok {
		return nil, fmt.Errorf("no token for account %s", account)
	}
	return ts, nil
}

// HasTokenForAccount reports whether a token source is registered.
func (p StaticTokenProvider) HasTokenForAccount(account string) bool {
	_, ok := p[account]
	return ok
}
