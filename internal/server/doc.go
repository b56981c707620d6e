// Package server holds the state shared by the docsmith MCP tools and the
// HTTP plumbing around them.
//
// ServerContext caches one Docs and one Slides client per Google account.
// Clients are created on first use from a google.TokenProvider and are
// wrapped so that every API call is traced and counted in
// google_api_operations_total.
//
// MetricsServer serves /metrics, /healthz and /readyz on a dedicated port.
// NewHTTPHandler and ServeHTTP run the streamable-http MCP transport.
package server
