// Package cmd implements the command-line interface for docsmith.
//
// This package provides the following commands:
//   - serve: Start the MCP server with the Google Docs and Slides tools
//   - convert: Convert Markdown offline into a slide outline, Docs requests or Slides requests
//   - auth: Authorize a Google account and store its token
//   - version: Display version information
//   - generate-docs: Generate markdown documentation for all MCP tools
package cmd
