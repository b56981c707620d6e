package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"
	"golang.org/x/oauth2"

	"github.com/teemow/docsmith/internal/config"
	"github.com/teemow/docsmith/internal/docs"
	"github.com/teemow/docsmith/internal/google"
	"github.com/teemow/docsmith/internal/instrumentation"
	"github.com/teemow/docsmith/internal/logging"
	"github.com/teemow/docsmith/internal/server"
	"github.com/teemow/docsmith/internal/tools/docs_tools"
	"github.com/teemow/docsmith/internal/tools/google_tools"
	"github.com/teemow/docsmith/internal/tools/slides_tools"
)

const metricsStartupTimeout = 5 * time.Second

func newServeCmd() *cobra.Command {
	var (
		debugMode      bool
		transport      string
		httpAddr       string
		yolo           bool
		account        string
		metricsEnabled bool
		metricsAddr    string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server",
		Long: `Start the MCP (Model Context Protocol) server to expose the Google Docs
and Slides tools to AI assistants.

Supports the stdio and streamable-http transports. The server is read-only
unless --yolo is set.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, func(cmd *cobra.Command, cfg *config.Config) {
				flags := cmd.Flags()
				if debugMode {
					cfg.LogLevel = "debug"
				}
				if flags.Changed("transport") {
					cfg.Transport = transport
				}
				if flags.Changed("http-addr") {
					cfg.HTTPAddr = httpAddr
				}
				if flags.Changed("yolo") {
					cfg.Yolo = yolo
				}
				if flags.Changed("account") {
					cfg.Google.DefaultAccount = account
				}
				if flags.Changed("metrics-enabled") {
					cfg.Metrics.Enabled = metricsEnabled
				}
				if flags.Changed("metrics-addr") {
					cfg.Metrics.Addr = metricsAddr
				}
			})
			if err != nil {
				return err
			}
			return runServe(cfg)
		},
	}

	cmd.Flags().BoolVar(&debugMode, "debug", false, "Enable debug logging")
	cmd.Flags().StringVar(&transport, "transport", config.TransportStdio, "Transport type: stdio or streamable-http. Can also use DOCSMITH_TRANSPORT env var.")
	cmd.Flags().StringVar(&httpAddr, "http-addr", ":8080", "HTTP server address (for streamable-http transport). Can also use DOCSMITH_HTTP_ADDR env var.")
	cmd.Flags().BoolVar(&yolo, "yolo", false, "Enable write operations (creating and appending to documents and presentations). Default is read-only mode.")
	cmd.Flags().StringVar(&account, "account", google.DefaultAccount, "Google account used when a tool call names none. Can also use DOCSMITH_ACCOUNT env var.")
	cmd.Flags().BoolVar(&metricsEnabled, "metrics-enabled", false, "Enable the metrics server on a dedicated port (streamable-http only). Can also use METRICS_ENABLED env var.")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", server.DefaultMetricsAddr, "Metrics server address. Can also use METRICS_ADDR env var.")

	return cmd
}

func runServe(cfg *config.Config) error {
	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}

	shutdownCtx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	instrConfig := instrumentation.DefaultConfig()
	instrConfig.ServiceVersion = version
	provider, err := instrumentation.NewProvider(shutdownCtx, instrConfig)
	if err != nil {
		return fmt.Errorf("failed to create instrumentation provider: %w", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), server.DefaultShutdownTimeout)
		defer cancel()
		if err := provider.Shutdown(ctx); err != nil {
			logger.Warn("error during instrumentation shutdown", logging.Err(err))
		}
	}()

	tokenProvider, oauthConfig, err := newTokenProvider(cfg, logger)
	if err != nil {
		return err
	}

	var auditLogger *instrumentation.AuditLogger
	if provider.Enabled() {
		auditLogger = instrumentation.NewAuditLogger(logger, instrConfig.AuditLogging)
	}

	serverContext, err := server.NewServerContext(shutdownCtx, server.Options{
		TokenProvider: tokenProvider,
		HTTPOptions: google.HTTPOptions{
			RetryMax: cfg.Google.RetryMax,
			Logger:   logger,
		},
		OAuthConfig:    oauthConfig,
		TokenDir:       cfg.Google.TokenDir,
		DefaultAccount: cfg.Google.DefaultAccount,
		Compiler:       &docs.Compiler{ImageWidthPt: cfg.Docs.ImageWidthPt},
		Geometry:       geometry(cfg),
		Metrics:        provider.Metrics(),
		AuditLogger:    auditLogger,
		Logger:         logger,
	})
	if err != nil {
		return fmt.Errorf("failed to create server context: %w", err)
	}
	defer func() {
		if err := serverContext.Shutdown(); err != nil {
			logger.Warn("error during server context shutdown", logging.Err(err))
		}
	}()

	health := server.NewHealthChecker(serverContext)

	// The metrics server only runs next to the HTTP transport; with stdio
	// the process lives as long as one client session.
	if cfg.Transport == config.TransportStreamableHTTP && cfg.Metrics.Enabled {
		metricsServer, err := startMetricsServer(cfg.Metrics.Addr, provider, health, logger)
		if err != nil {
			return err
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), server.DefaultShutdownTimeout)
			defer cancel()
			if err := metricsServer.Shutdown(ctx); err != nil {
				logger.Warn("error during metrics server shutdown", logging.Err(err))
			}
		}()
	}

	mcpSrv := mcpserver.NewMCPServer("docsmith", version,
		mcpserver.WithToolCapabilities(true),
	)

	readOnly := !cfg.Yolo
	if readOnly {
		logger.Info("starting server in READ-ONLY mode (use --yolo to enable write operations)")
	} else {
		logger.Info("starting server with WRITE operations enabled (--yolo flag is set)")
	}

	if err := registerAllTools(mcpSrv, serverContext, readOnly); err != nil {
		return err
	}

	switch cfg.Transport {
	case config.TransportStdio:
		return runStdioServer(mcpSrv)
	case config.TransportStreamableHTTP:
		handler := server.NewHTTPHandler(mcpserver.NewStreamableHTTPServer(mcpSrv), health, provider.Metrics())
		return server.ServeHTTP(shutdownCtx, cfg.HTTPAddr, handler, logger)
	default:
		return fmt.Errorf("unsupported transport type: %s (supported: stdio, streamable-http)", cfg.Transport)
	}
}

// newTokenProvider returns a file token provider. A missing OAuth client
// credentials file is not fatal so that the offline tools keep working; the
// Google tools then fail with a configuration error.
func newTokenProvider(cfg *config.Config, logger *slog.Logger) (google.TokenProvider, *oauth2.Config, error) {
	var oauthConfig *oauth2.Config
	if _, err := os.Stat(cfg.Google.CredentialsFile); err == nil {
		oauthConfig, err = google.LoadOAuthConfig(cfg.Google.CredentialsFile)
		if err != nil {
			return nil, nil, err
		}
	} else {
		logger.Warn("OAuth client credentials not found, Google API tools are unavailable",
			"credentials_file", cfg.Google.CredentialsFile)
	}

	provider := google.NewFileTokenProvider(cfg.Google.TokenDir, oauthConfig)
	if !provider.HasTokenForAccount(cfg.Google.DefaultAccount) {
		logger.Warn("no token for the default account, run 'docsmith auth url' to authorize it",
			logging.Account(cfg.Google.DefaultAccount))
	}
	return provider, oauthConfig, nil
}

func startMetricsServer(addr string, provider *instrumentation.Provider, health *server.HealthChecker, logger *slog.Logger) (*server.MetricsServer, error) {
	metricsServer, err := server.NewMetricsServer(server.MetricsServerConfig{
		Addr:                    addr,
		InstrumentationProvider: provider,
		Health:                  health,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create metrics server: %w", err)
	}

	ready := make(chan struct{})
	errCh := make(chan error, 1)
	go func() {
		if err := metricsServer.StartWithReadySignal(ready); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ready:
		logger.Info("metrics server started", "addr", metricsServer.Addr())
		return metricsServer, nil
	case err, ok := <-errCh:
		if !ok {
			return nil, fmt.Errorf("metrics server stopped during startup")
		}
		return nil, fmt.Errorf("metrics server failed to start: %w", err)
	case <-time.After(metricsStartupTimeout):
		return nil, fmt.Errorf("metrics server startup timed out")
	}
}

func runStdioServer(mcpSrv *mcpserver.MCPServer) error {
	if err := mcpserver.ServeStdio(mcpSrv); err != nil {
		return fmt.Errorf("server stopped with error: %w", err)
	}
	return nil
}

// registerAllTools registers the Docs, Slides and Google account tools.
func registerAllTools(mcpSrv *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	registrations := []struct {
		name     string
		register func() error
	}{
		{"Docs", func() error { return docs_tools.RegisterDocsTools(mcpSrv, sc, readOnly) }},
		{"Slides", func() error { return slides_tools.RegisterSlidesTools(mcpSrv, sc, readOnly) }},
		{"Google", func() error { return google_tools.RegisterGoogleTools(mcpSrv, sc) }},
	}

	for _, reg := range registrations {
		if err := reg.register(); err != nil {
			return fmt.Errorf("failed to register %s tools: %w", reg.name, err)
		}
	}
	return nil
}
