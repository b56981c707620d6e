// Package docs_tools provides MCP tools for Google Docs.
//
// The read tools return a document as a structured content tree, Markdown,
// plain text or the raw API JSON, fetch several documents concurrently, and
// return Drive metadata. docs_compile_markdown previews the batchUpdate
// requests for a piece of Markdown without calling the API.
//
// The write tools, docs_create_from_markdown and docs_append_markdown, are
// only registered when the server is not read-only.
package docs_tools
