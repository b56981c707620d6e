// Package logging provides structured logging utilities for docsmith.
//
// This package centralizes logging patterns to ensure consistent, structured logging
// throughout the codebase using the standard library's slog package.
//
// # Key Features
//
//   - Handler construction from the configured level and format
//   - Consistent attribute naming (operation, tool, document_id, tab_id, ...)
//   - Account anonymization for log correlation without PII
//   - An adapter feeding the retrying Google API HTTP client into slog
//
// # Usage Patterns
//
// Create a logger with standard attributes:
//
//	logger := logging.WithOperation(slog.Default(), "docs.create")
//	logger.Info("document created",
//	    logging.DocumentID(id),
//	    logging.Status(logging.StatusSuccess))
//
// When the server runs over stdio, handlers must write to stderr: stdout
// carries the MCP protocol.
package logging
