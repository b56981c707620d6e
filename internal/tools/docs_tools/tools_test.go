package docs_tools

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	docsapi "google.golang.org/api/docs/v1"

	"github.com/teemow/docsmith/internal/docs"
	"github.com/teemow/docsmith/internal/google"
	"github.com/teemow/docsmith/internal/server"
)

type fakeDocs struct {
	mu       sync.Mutex
	missing  map[string]bool
	files    map[string]string // id to Drive MIME type of non-Doc files
	batches  [][]*docsapi.Request
	moved    string
	moveErr  error
	batchErr error
}

func (f *fakeDocs) GetDocument(_ context.Context, id string) (*docsapi.Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.missing[id] {
		return nil, errors.New("googleapi: Error 404: Requested entity was not found")
	}
	return &docsapi.Document{
		DocumentId: id,
		Title:      "Doc " + id,
		Body: &docsapi.Body{Content: []*docsapi.StructuralElement{{
			StartIndex: 1,
			EndIndex:   13,
			Paragraph: &docsapi.Paragraph{Elements: []*docsapi.ParagraphElement{{
				TextRun: &docsapi.TextRun{Content: "Hello world\n"},
			}}},
		}}},
	}, nil
}

func (f *fakeDocs) CreateDocument(_ context.Context, title string) (*docsapi.Document, error) {
	return &docsapi.Document{DocumentId: "created", Title: title}, nil
}

func (f *fakeDocs) BatchUpdate(_ context.Context, id string, requests []*docsapi.Request) (*docsapi.BatchUpdateDocumentResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.batchErr != nil {
		return nil, f.batchErr
	}
	f.batches = append(f.batches, requests)
	return &docsapi.BatchUpdateDocumentResponse{DocumentId: id}, nil
}

func (f *fakeDocs) MoveToFolder(_ context.Context, _, folderID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.moved = folderID
	return f.moveErr
}

func (f *fakeDocs) GetFileMetadata(_ context.Context, id string) (*docs.DocumentMetadata, error) {
	mimeType := docs.MimeTypeDocument
	if m, ok := f.files[id]; ok {
		mimeType = m
	}
	return &docs.DocumentMetadata{
		ID:          id,
		Name:        "Doc " + id,
		MimeType:    mimeType,
		WebViewLink: "https://docs.google.com/document/d/" + id + "/edit",
	}, nil
}

func (f *fakeDocs) DownloadFile(_ context.Context, id, _ string) ([]byte, error) {
	return []byte("contents of " + id), nil
}

func (f *fakeDocs) GetStructuredDocument(context.Context, string, string) (*docs.StructuredDocument, error) {
	return nil, errors.New("replaced by the instrumented wrapper")
}

func newTestContext(t *testing.T, fake *fakeDocs) *server.ServerContext {
	t.Helper()
	sc, err := server.NewServerContext(context.Background(), server.Options{
		TokenProvider: google.StaticTokenProvider{},
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = sc.Shutdown() })
	if fake != nil {
		sc.SetDocsClientForAccount("", fake)
	}
	return sc
}

func call(args map[string]any) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

func text(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotNil(t, result)
	require.NotEmpty(t, result.Content)
	content, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected text content")
	return content.Text
}

func errorMessage(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.True(t, result.IsError)
	var body struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
	}
	require.NoError(t, json.Unmarshal([]byte(text(t, result)), &body))
	assert.False(t, body.Success)
	return body.Error
}

func TestRegisterDocsTools(t *testing.T) {
	sc := newTestContext(t, nil)

	readOnly := mcpserver.NewMCPServer("test", "1.0.0", mcpserver.WithToolCapabilities(true))
	require.NoError(t, RegisterDocsTools(readOnly, sc, true))
	assert.ElementsMatch(t, []string{
		"docs_get_document",
		"docs_get_documents",
		"docs_get_document_metadata",
		"docs_compile_markdown",
	}, toolNames(readOnly))

	writable := mcpserver.NewMCPServer("test", "1.0.0", mcpserver.WithToolCapabilities(true))
	require.NoError(t, RegisterDocsTools(writable, sc, false))
	assert.Contains(t, toolNames(writable), "docs_create_from_markdown")
	assert.Contains(t, toolNames(writable), "docs_append_markdown")
}

func toolNames(s *mcpserver.MCPServer) []string {
	var names []string
	for name := range s.ListTools() {
		names = append(names, name)
	}
	return names
}

func TestHandleGetDocument(t *testing.T) {
	sc := newTestContext(t, &fakeDocs{})
	ctx := context.Background()

	t.Run("structured", func(t *testing.T) {
		result, err := handleGetDocument(ctx, call(map[string]any{"documentId": "abc"}), sc)
		require.NoError(t, err)
		require.False(t, result.IsError)

		var doc struct {
			Metadata docs.StructuredMetadata `json:"metadata"`
			Content  []map[string]any        `json:"content"`
		}
		require.NoError(t, json.Unmarshal([]byte(text(t, result)), &doc))
		assert.Equal(t, "abc", doc.Metadata.ID)
		assert.Equal(t, "Doc abc", doc.Metadata.Title)
		require.Len(t, doc.Content, 1)
		assert.Equal(t, "paragraph", doc.Content[0]["type"])
	})

	t.Run("text", func(t *testing.T) {
		result, err := handleGetDocument(ctx, call(map[string]any{"documentId": "abc", "format": "text"}), sc)
		require.NoError(t, err)
		assert.Contains(t, text(t, result), "Hello world")
	})

	t.Run("markdown", func(t *testing.T) {
		result, err := handleGetDocument(ctx, call(map[string]any{"documentId": "abc", "format": "markdown"}), sc)
		require.NoError(t, err)
		out := text(t, result)
		assert.Contains(t, out, "# Doc abc")
		assert.Contains(t, out, "Hello world")
	})

	t.Run("raw json", func(t *testing.T) {
		result, err := handleGetDocument(ctx, call(map[string]any{"documentId": "abc", "format": "json"}), sc)
		require.NoError(t, err)
		assert.Contains(t, text(t, result), `"documentId": "abc"`)
	})

	t.Run("tab id on a document without tabs", func(t *testing.T) {
		result, err := handleGetDocument(ctx, call(map[string]any{"documentId": "abc", "tabId": "t.1"}), sc)
		require.NoError(t, err)
		assert.Equal(t, "Document has no tabs; tab_id t.1 cannot be used", errorMessage(t, result))
	})

	t.Run("missing document id", func(t *testing.T) {
		result, err := handleGetDocument(ctx, call(map[string]any{}), sc)
		require.NoError(t, err)
		assert.Equal(t, docs.ErrMissingDocumentID.Error(), errorMessage(t, result))
	})

	t.Run("unknown format", func(t *testing.T) {
		result, err := handleGetDocument(ctx, call(map[string]any{"documentId": "abc", "format": "pdf"}), sc)
		require.NoError(t, err)
		assert.Contains(t, errorMessage(t, result), `Unknown format "pdf"`)
	})
}

func TestHandleGetDocumentNonDocFile(t *testing.T) {
	sc := newTestContext(t, &fakeDocs{files: map[string]string{"notes": "text/plain"}})
	ctx := context.Background()

	result, err := handleGetDocument(ctx, call(map[string]any{"documentId": "notes"}), sc)
	require.NoError(t, err)
	require.False(t, result.IsError)

	var doc struct {
		Metadata docs.StructuredMetadata `json:"metadata"`
		Content  []map[string]any        `json:"content"`
		Tabs     []map[string]any        `json:"tabs"`
	}
	require.NoError(t, json.Unmarshal([]byte(text(t, result)), &doc))
	assert.Equal(t, "text/plain", doc.Metadata.MimeType)
	assert.Len(t, doc.Content, 1)
	assert.Empty(t, doc.Tabs)

	result, err = handleGetDocument(ctx, call(map[string]any{"documentId": "notes", "format": "text"}), sc)
	require.NoError(t, err)
	assert.Contains(t, text(t, result), "contents of notes")

	result, err = handleGetDocument(ctx, call(map[string]any{"documentId": "notes", "tabId": "t.0"}), sc)
	require.NoError(t, err)
	assert.Equal(t, `tab_id is not supported for non-Google Docs files (File: "Doc notes", Type: text/plain)`, errorMessage(t, result))
}

func TestHandleGetDocumentAPIError(t *testing.T) {
	sc := newTestContext(t, &fakeDocs{missing: map[string]bool{"gone": true}})

	result, err := handleGetDocument(context.Background(), call(map[string]any{"documentId": "gone"}), sc)
	require.NoError(t, err)
	assert.Contains(t, errorMessage(t, result), "Failed to get document: googleapi: Error 404")
}

func TestHandleGetDocumentWithoutToken(t *testing.T) {
	sc := newTestContext(t, nil)

	result, err := handleGetDocument(context.Background(), call(map[string]any{"documentId": "abc"}), sc)
	require.NoError(t, err)
	assert.Contains(t, errorMessage(t, result), `no Google token for account "default"`)
}

func TestHandleGetDocuments(t *testing.T) {
	sc := newTestContext(t, &fakeDocs{missing: map[string]bool{"gone": true}})

	result, err := handleGetDocuments(context.Background(), call(map[string]any{
		"documentIds": []any{"a", "gone", "b"},
		"format":      "text",
	}), sc)
	require.NoError(t, err)
	require.False(t, result.IsError)

	var out struct {
		Total      int `json:"total"`
		Successful int `json:"successful"`
		Failed     int `json:"failed"`
		Results    []struct {
			ID     string `json:"id"`
			Status string `json:"status"`
			Result string `json:"result"`
			Error  string `json:"error"`
		} `json:"results"`
	}
	require.NoError(t, json.Unmarshal([]byte(text(t, result)), &out))
	assert.Equal(t, 3, out.Total)
	assert.Equal(t, 2, out.Successful)
	assert.Equal(t, 1, out.Failed)

	require.Len(t, out.Results, 3)
	assert.Equal(t, "a", out.Results[0].ID)
	assert.Contains(t, out.Results[0].Result, "Hello world")
	assert.Equal(t, "gone", out.Results[1].ID)
	assert.Equal(t, "error", out.Results[1].Status)
	assert.Contains(t, out.Results[1].Error, "404")
	assert.Equal(t, "b", out.Results[2].ID)
}

func TestHandleGetDocumentsValidation(t *testing.T) {
	sc := newTestContext(t, &fakeDocs{})
	ctx := context.Background()

	result, err := handleGetDocuments(ctx, call(map[string]any{}), sc)
	require.NoError(t, err)
	assert.Equal(t, "documentIds is required", errorMessage(t, result))

	result, err = handleGetDocuments(ctx, call(map[string]any{"documentIds": "a", "format": "json"}), sc)
	require.NoError(t, err)
	assert.Contains(t, errorMessage(t, result), `Unknown format "json"`)
}

func TestHandleGetMetadata(t *testing.T) {
	sc := newTestContext(t, &fakeDocs{})

	result, err := handleGetMetadata(context.Background(), call(map[string]any{"documentId": "abc"}), sc)
	require.NoError(t, err)

	var meta docs.DocumentMetadata
	require.NoError(t, json.Unmarshal([]byte(text(t, result)), &meta))
	assert.Equal(t, "abc", meta.ID)
	assert.Equal(t, docs.MimeTypeDocument, meta.MimeType)
}

func TestHandleCompileMarkdown(t *testing.T) {
	sc := newTestContext(t, nil)
	ctx := context.Background()

	result, err := handleCompileMarkdown(ctx, call(map[string]any{
		"markdown":   "# Title\n\nSome **bold** text.",
		"startIndex": float64(5),
	}), sc)
	require.NoError(t, err)
	require.False(t, result.IsError)

	var out CompileOutput
	require.NoError(t, json.Unmarshal([]byte(text(t, result)), &out))
	assert.Equal(t, 2, out.Blocks)
	assert.Equal(t, int64(5), out.StartIndex)
	assert.Greater(t, out.EndIndex, out.StartIndex)
	assert.Equal(t, len(out.Requests), out.RequestCount)
	require.NotEmpty(t, out.Requests)
	require.NotNil(t, out.Requests[0].InsertText)
	assert.Equal(t, int64(5), out.Requests[0].InsertText.Location.Index)

	result, err = handleCompileMarkdown(ctx, call(map[string]any{"markdown": ""}), sc)
	require.NoError(t, err)
	assert.Equal(t, docs.ErrEmptyMarkdown.Error(), errorMessage(t, result))

	result, err = handleCompileMarkdown(ctx, call(map[string]any{"markdown": "x", "startIndex": float64(0)}), sc)
	require.NoError(t, err)
	assert.Equal(t, "startIndex must be at least 1", errorMessage(t, result))
}

func TestHandleCreateFromMarkdown(t *testing.T) {
	fake := &fakeDocs{}
	sc := newTestContext(t, fake)

	result, err := handleCreateFromMarkdown(context.Background(), call(map[string]any{
		"markdown": "# Plan\n\n- one\n- two",
		"folderId": "folder-1",
	}), sc)
	require.NoError(t, err)
	require.False(t, result.IsError)

	var out docs.WriteResult
	require.NoError(t, json.Unmarshal([]byte(text(t, result)), &out))
	assert.True(t, out.Success)
	assert.Equal(t, "created", out.DocumentID)
	assert.Equal(t, "Plan", out.Title)
	assert.Equal(t, "folder-1", fake.moved)
	require.Len(t, fake.batches, 1)
	assert.Len(t, fake.batches[0], out.RequestCount)
}

func TestHandleCreateFromMarkdownErrors(t *testing.T) {
	ctx := context.Background()

	sc := newTestContext(t, &fakeDocs{})
	result, err := handleCreateFromMarkdown(ctx, call(map[string]any{"markdown": "no heading here"}), sc)
	require.NoError(t, err)
	assert.Equal(t, docs.ErrMissingTitle.Error(), errorMessage(t, result))

	sc = newTestContext(t, &fakeDocs{batchErr: errors.New("quota exceeded")})
	result, err = handleCreateFromMarkdown(ctx, call(map[string]any{"markdown": "text", "title": "T"}), sc)
	require.NoError(t, err)
	msg := errorMessage(t, result)
	assert.Contains(t, msg, "Failed to create document")
	assert.Contains(t, msg, "quota exceeded")
}

func TestHandleAppendMarkdown(t *testing.T) {
	fake := &fakeDocs{}
	sc := newTestContext(t, fake)

	result, err := handleAppendMarkdown(context.Background(), call(map[string]any{
		"documentId": "abc",
		"markdown":   "More text",
	}), sc)
	require.NoError(t, err)
	require.False(t, result.IsError)

	var out docs.WriteResult
	require.NoError(t, json.Unmarshal([]byte(text(t, result)), &out))
	assert.Equal(t, int64(12), out.StartIndex)
	require.Len(t, fake.batches, 1)
	require.NotNil(t, fake.batches[0][0].InsertText)
	assert.Equal(t, int64(12), fake.batches[0][0].InsertText.Location.Index)

	result, err = handleAppendMarkdown(context.Background(), call(map[string]any{"markdown": "x"}), sc)
	require.NoError(t, err)
	assert.Equal(t, docs.ErrMissingDocumentID.Error(), errorMessage(t, result))
}
