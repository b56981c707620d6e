package server

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/oauth2"

	"github.com/teemow/docsmith/internal/docs"
	"github.com/teemow/docsmith/internal/google"
	"github.com/teemow/docsmith/internal/instrumentation"
	"github.com/teemow/docsmith/internal/logging"
	"github.com/teemow/docsmith/internal/slides"
)

// DefaultAccount is used when neither the tool call nor the configuration
// names an account.
const DefaultAccount = "default"

// Options configures a ServerContext.
type Options struct {
	// TokenProvider supplies OAuth tokens per account.
	TokenProvider google.TokenProvider
	HTTPOptions   google.HTTPOptions

	// OAuthConfig and TokenDir let the auth tools authorize new accounts.
	// OAuthConfig may be nil when no client credentials are configured.
	OAuthConfig *oauth2.Config
	TokenDir    string

	DefaultAccount string

	// Compiler sizes inserted images for the Docs write tools.
	Compiler *docs.Compiler
	Geometry slides.Geometry

	Metrics     *instrumentation.Metrics
	AuditLogger *instrumentation.AuditLogger
	Logger      *slog.Logger
}

// ServerContext holds the long-lived state shared by the MCP tools: the
// configuration and one cached Docs and Slides client per account.
type ServerContext struct {
	ctx    context.Context
	cancel context.CancelFunc
	opts   Options

	mu            sync.RWMutex
	docsClients   map[string]DocsService
	slidesClients map[string]SlidesService
	shutdown      bool
}

// NewServerContext creates a ServerContext. Clients are created lazily on
// first use of an account.
func NewServerContext(ctx context.Context, opts Options) (*ServerContext, error) {
	if opts.TokenProvider == nil {
		return nil, fmt.Errorf("token provider cannot be nil")
	}
	if opts.DefaultAccount == "" {
		opts.DefaultAccount = DefaultAccount
	}
	if opts.Compiler == nil {
		opts.Compiler = docs.NewCompiler()
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	shutdownCtx, cancel := context.WithCancel(ctx)
	return &ServerContext{
		ctx:           shutdownCtx,
		cancel:        cancel,
		opts:          opts,
		docsClients:   make(map[string]DocsService),
		slidesClients: make(map[string]SlidesService),
	}, nil
}

// Context returns the server context, cancelled on Shutdown.
func (sc *ServerContext) Context() context.Context {
	return sc.ctx
}

// ResolveAccount returns account, or the configured default when it is
// empty.
func (sc *ServerContext) ResolveAccount(account string) string {
	if account == "" {
		return sc.opts.DefaultAccount
	}
	return account
}

// HasToken reports whether a token is available for the account.
func (sc *ServerContext) HasToken(account string) bool {
	return sc.opts.TokenProvider.HasTokenForAccount(sc.ResolveAccount(account))
}

// DocsClientForAccount returns the cached Docs service for account, creating
// it on first use.
func (sc *ServerContext) DocsClientForAccount(account string) (DocsService, error) {
	account = sc.ResolveAccount(account)

	sc.mu.Lock()
	defer sc.mu.Unlock()

	if client, ok := sc.docsClients[account]; ok {
		return client, nil
	}
	if err := sc.checkToken(account); err != nil {
		return nil, err
	}

	client, err := docs.NewClientForAccountWithProvider(sc.ctx, account, sc.opts.TokenProvider, sc.httpOptions())
	if err != nil {
		return nil, fmt.Errorf("failed to create Docs client: %w", err)
	}

	svc := sc.wrapDocs(client)
	sc.docsClients[account] = svc
	sc.opts.Logger.Debug("created docs client", logging.AccountHash(account))
	return svc, nil
}

// SlidesClientForAccount returns the cached Slides service for account,
// creating it on first use.
func (sc *ServerContext) SlidesClientForAccount(account string) (SlidesService, error) {
	account = sc.ResolveAccount(account)

	sc.mu.Lock()
	defer sc.mu.Unlock()

	if client, ok := sc.slidesClients[account]; ok {
		return client, nil
	}
	if err := sc.checkToken(account); err != nil {
		return nil, err
	}

	client, err := slides.NewClientForAccountWithProvider(sc.ctx, account, sc.opts.TokenProvider, sc.httpOptions())
	if err != nil {
		return nil, fmt.Errorf("failed to create Slides client: %w", err)
	}

	svc := sc.wrapSlides(client)
	sc.slidesClients[account] = svc
	sc.opts.Logger.Debug("created slides client", logging.AccountHash(account))
	return svc, nil
}

// SetDocsClientForAccount installs svc for account. The service is
// instrumented like a created one.
func (sc *ServerContext) SetDocsClientForAccount(account string, svc DocsService) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.docsClients[sc.ResolveAccount(account)] = sc.wrapDocs(svc)
}

// SetSlidesClientForAccount installs svc for account.
func (sc *ServerContext) SetSlidesClientForAccount(account string, svc SlidesService) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.slidesClients[sc.ResolveAccount(account)] = sc.wrapSlides(svc)
}

func (sc *ServerContext) checkToken(account string) error {
	if sc.shutdown {
		return fmt.Errorf("server is shutting down")
	}
	if !sc.opts.TokenProvider.HasTokenForAccount(account) {
		return fmt.Errorf("no Google token for account %q, run 'docsmith auth url --account %s' to authorize it", account, account)
	}
	return nil
}

func (sc *ServerContext) httpOptions() google.HTTPOptions {
	opts := sc.opts.HTTPOptions
	if opts.Logger == nil {
		opts.Logger = sc.opts.Logger
	}
	return opts
}

func (sc *ServerContext) wrapDocs(svc DocsService) DocsService {
	return &instrumentedDocs{next: svc, metrics: sc.opts.Metrics}
}

func (sc *ServerContext) wrapSlides(svc SlidesService) SlidesService {
	return &instrumentedSlides{next: svc, metrics: sc.opts.Metrics}
}

// OAuthConfig returns the OAuth client configuration, possibly nil.
func (sc *ServerContext) OAuthConfig() *oauth2.Config {
	return sc.opts.OAuthConfig
}

// TokenDir returns the directory account tokens are stored in. Empty means
// google.DefaultTokenDir.
func (sc *ServerContext) TokenDir() string {
	return sc.opts.TokenDir
}

// Compiler returns the Docs request compiler.
func (sc *ServerContext) Compiler() *docs.Compiler {
	return sc.opts.Compiler
}

// Geometry returns the slide page geometry.
func (sc *ServerContext) Geometry() slides.Geometry {
	return sc.opts.Geometry
}

// Metrics returns the metrics recorder, possibly nil.
func (sc *ServerContext) Metrics() *instrumentation.Metrics {
	return sc.opts.Metrics
}

// AuditLogger returns the tool audit logger, possibly nil.
func (sc *ServerContext) AuditLogger() *instrumentation.AuditLogger {
	return sc.opts.AuditLogger
}

// Logger returns the server logger.
func (sc *ServerContext) Logger() *slog.Logger {
	return sc.opts.Logger
}

// IsShutdown returns whether the server has been shut down.
func (sc *ServerContext) IsShutdown() bool {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.shutdown
}

// Shutdown cancels the server context and drops cached clients.
func (sc *ServerContext) Shutdown() error {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if sc.shutdown {
		return nil
	}

	sc.shutdown = true
	sc.cancel()
	clear(sc.docsClients)
	clear(sc.slidesClients)
	return nil
}
