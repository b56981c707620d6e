package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/teemow/docsmith/internal/instrumentation"
)

// MCPPath is where the streamable-http transport is mounted.
const MCPPath = "/mcp"

// NewHTTPHandler mounts the MCP handler at MCPPath next to the health
// endpoints. Every route is measured by HTTPMetricsMiddleware.
func NewHTTPHandler(mcpHandler http.Handler, health *HealthChecker, metrics *instrumentation.Metrics) http.Handler {
	mux := http.NewServeMux()
	mux.Handle(MCPPath, mcpHandler)
	if health != nil {
		health.RegisterHealthEndpoints(mux)
	}
	return HTTPMetricsMiddleware(metrics, mux)
}

// ServeHTTP serves handler on addr until ctx is cancelled, then shuts down
// gracefully within DefaultShutdownTimeout.
func ServeHTTP(ctx context.Context, addr string, handler http.Handler, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: DefaultReadHeaderTimeout,
		IdleTimeout:       DefaultIdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting MCP HTTP server", "addr", addr, "path", MCPPath)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("HTTP server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutdown signal received, stopping HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), DefaultShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("error during HTTP server shutdown: %w", err)
	}
	return nil
}
