// Package slides_tools provides MCP tools for Google Slides.
//
// slides_preview_outline parses Markdown into the slide outline and request
// batches a deck would be built from, without calling the API.
// slides_create_from_markdown creates the presentation; it is only registered
// when the server is not read-only.
package slides_tools
