package docs_tools

import (
	"context"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	docsapi "google.golang.org/api/docs/v1"

	"github.com/teemow/docsmith/internal/docs"
	"github.com/teemow/docsmith/internal/instrumentation"
	"github.com/teemow/docsmith/internal/server"
	"github.com/teemow/docsmith/internal/tools/batch"
	"github.com/teemow/docsmith/internal/tools/common"
)

// Output formats of the get-document tools.
const (
	FormatStructured = "structured"
	FormatMarkdown   = "markdown"
	FormatText       = "text"
	FormatJSON       = "json"
)

// RegisterDocsTools registers the Google Docs tools with the MCP server. The
// tools that create or modify documents are only registered when readOnly is
// false.
func RegisterDocsTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	getDocumentTool := mcp.NewTool("docs_get_document",
		mcp.WithDescription("Get a Google Doc as a structured content tree, Markdown, plain text or the raw API JSON. Documents with tabs return one node per tab."),
		mcp.WithString("documentId",
			mcp.Required(),
			mcp.Description("The ID of the Google Doc"),
		),
		mcp.WithString("format",
			mcp.Description("Output format: 'structured' (default), 'markdown', 'text', or 'json'"),
		),
		mcp.WithString("tabId",
			mcp.Description("Only return this tab and its child tabs"),
		),
		mcp.WithString("account",
			mcp.Description(common.AccountDescription),
		),
	)
	s.AddTool(getDocumentTool, common.InstrumentedToolHandler("docs_get_document", instrumentation.ServiceDocs, instrumentation.OperationGet, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleGetDocument(ctx, request, sc)
		}))

	getDocumentsTool := mcp.NewTool("docs_get_documents",
		mcp.WithDescription("Get several Google Docs at once. Each document is fetched independently and reports its own success or error."),
		mcp.WithString("documentIds",
			mcp.Required(),
			mcp.Description("Document ID (string) or array of document IDs"),
		),
		mcp.WithString("format",
			mcp.Description("Output format: 'structured' (default), 'markdown', or 'text'"),
		),
		mcp.WithString("account",
			mcp.Description(common.AccountDescription),
		),
	)
	s.AddTool(getDocumentsTool, common.InstrumentedToolHandler("docs_get_documents", instrumentation.ServiceDocs, instrumentation.OperationGet, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleGetDocuments(ctx, request, sc)
		}))

	getMetadataTool := mcp.NewTool("docs_get_document_metadata",
		mcp.WithDescription("Get Drive metadata about a Google Doc (name, owners, created and modified time)"),
		mcp.WithString("documentId",
			mcp.Required(),
			mcp.Description("The ID of the Google Doc or Drive file"),
		),
		mcp.WithString("account",
			mcp.Description(common.AccountDescription),
		),
	)
	s.AddTool(getMetadataTool, common.InstrumentedToolHandler("docs_get_document_metadata", instrumentation.ServiceDrive, instrumentation.OperationGet, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleGetMetadata(ctx, request, sc)
		}))

	compileTool := mcp.NewTool("docs_compile_markdown",
		mcp.WithDescription("Compile Markdown into the Google Docs batchUpdate requests that would insert it, without calling the API"),
		mcp.WithString("markdown",
			mcp.Required(),
			mcp.Description("Markdown content to compile"),
		),
		mcp.WithNumber("startIndex",
			mcp.Description("Document index the content is inserted at (default: 1)"),
		),
	)
	s.AddTool(compileTool, common.InstrumentedToolHandler("docs_compile_markdown", "", instrumentation.OperationCompile, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleCompileMarkdown(ctx, request, sc)
		}))

	if readOnly {
		return nil
	}

	createTool := mcp.NewTool("docs_create_from_markdown",
		mcp.WithDescription("Create a new Google Doc from Markdown. Headings, lists, bold, italic, links, code, images and dividers are converted to native formatting."),
		mcp.WithString("markdown",
			mcp.Required(),
			mcp.Description("Markdown content of the document"),
		),
		mcp.WithString("title",
			mcp.Description("Document title (default: the first # H1 heading)"),
		),
		mcp.WithString("folderId",
			mcp.Description("Drive folder to move the new document into"),
		),
		mcp.WithString("account",
			mcp.Description(common.AccountDescription),
		),
	)
	s.AddTool(createTool, common.InstrumentedToolHandler("docs_create_from_markdown", instrumentation.ServiceDocs, instrumentation.OperationCreate, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleCreateFromMarkdown(ctx, request, sc)
		}))

	appendTool := mcp.NewTool("docs_append_markdown",
		mcp.WithDescription("Append Markdown to the end of an existing Google Doc"),
		mcp.WithString("documentId",
			mcp.Required(),
			mcp.Description("The ID of the Google Doc"),
		),
		mcp.WithString("markdown",
			mcp.Required(),
			mcp.Description("Markdown content to append"),
		),
		mcp.WithString("account",
			mcp.Description(common.AccountDescription),
		),
	)
	s.AddTool(appendTool, common.InstrumentedToolHandler("docs_append_markdown", instrumentation.ServiceDocs, instrumentation.OperationUpdate, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleAppendMarkdown(ctx, request, sc)
		}))

	return nil
}

func handleGetDocument(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	documentID := common.StringArg(args, "documentId", "")
	if documentID == "" {
		return common.ErrorResult(docs.ErrMissingDocumentID), nil
	}
	format := common.StringArg(args, "format", FormatStructured)
	if !validFormat(format, true) {
		return common.ErrorResult(fmt.Errorf("Unknown format %q: use structured, markdown, text or json", format)), nil
	}

	svc, err := sc.DocsClientForAccount(common.GetAccountFromArgs(sc, args))
	if err != nil {
		return common.ErrorResult(err), nil
	}

	if format == FormatJSON {
		doc, err := svc.GetDocument(ctx, documentID)
		if err != nil {
			return failure("get document", err), nil
		}
		return common.JSONResult(doc)
	}

	out, err := fetch(ctx, svc, documentID, common.StringArg(args, "tabId", ""), format)
	if err != nil {
		return failure("get document", err), nil
	}
	if text, ok := out.(string); ok {
		return mcp.NewToolResultText(text), nil
	}
	return common.JSONResult(out)
}

func handleGetDocuments(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	ids, err := batch.ParseStringOrArray(args["documentIds"], "documentIds")
	if err != nil {
		return common.ErrorResult(err), nil
	}
	format := common.StringArg(args, "format", FormatStructured)
	if !validFormat(format, false) {
		return common.ErrorResult(fmt.Errorf("Unknown format %q: use structured, markdown or text", format)), nil
	}

	svc, err := sc.DocsClientForAccount(common.GetAccountFromArgs(sc, args))
	if err != nil {
		return common.ErrorResult(err), nil
	}

	results := batch.ProcessBatch(ctx, ids, batch.DefaultConcurrency, func(ctx context.Context, id string) (any, error) {
		return fetch(ctx, svc, id, "", format)
	})
	return mcp.NewToolResultText(batch.FormatResults(results)), nil
}

func handleGetMetadata(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	documentID := common.StringArg(args, "documentId", "")
	if documentID == "" {
		return common.ErrorResult(docs.ErrMissingDocumentID), nil
	}

	svc, err := sc.DocsClientForAccount(common.GetAccountFromArgs(sc, args))
	if err != nil {
		return common.ErrorResult(err), nil
	}

	metadata, err := svc.GetFileMetadata(ctx, documentID)
	if err != nil {
		return failure("get document metadata", err), nil
	}
	return common.JSONResult(metadata)
}

// CompileOutput is the result of docs_compile_markdown.
type CompileOutput struct {
	Blocks         int                `json:"blocks"`
	RequestCount   int                `json:"requestCount"`
	ImagesInserted int                `json:"imagesInserted"`
	StartIndex     int64              `json:"startIndex"`
	EndIndex       int64              `json:"endIndex"`
	Requests       []*docsapi.Request `json:"requests"`
}

func handleCompileMarkdown(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	source := common.StringArg(args, "markdown", "")
	if source == "" {
		return common.ErrorResult(docs.ErrEmptyMarkdown), nil
	}
	startIndex, err := common.IntArg(args, "startIndex", 1)
	if err != nil {
		return common.ErrorResult(err), nil
	}
	if startIndex < 1 {
		return common.ErrorResult(fmt.Errorf("startIndex must be at least 1")), nil
	}

	blocks := docs.ParseMarkdownBlocks(source)
	compiled := sc.Compiler().Compile(blocks, startIndex)
	sc.Metrics().RecordConversion(ctx, instrumentation.ConversionDocs, len(compiled.Requests))

	return common.JSONResult(CompileOutput{
		Blocks:         len(blocks),
		RequestCount:   len(compiled.Requests),
		ImagesInserted: compiled.ImagesInserted,
		StartIndex:     startIndex,
		EndIndex:       compiled.EndIndex,
		Requests:       compiled.Requests,
	})
}

func handleCreateFromMarkdown(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	svc, err := sc.DocsClientForAccount(common.GetAccountFromArgs(sc, args))
	if err != nil {
		return common.ErrorResult(err), nil
	}

	result, err := docs.CreateFromMarkdown(ctx, svc,
		common.StringArg(args, "title", ""),
		common.StringArg(args, "markdown", ""),
		docs.WriteOptions{
			FolderID: common.StringArg(args, "folderId", ""),
			Compiler: sc.Compiler(),
			Logger:   sc.Logger(),
		})
	if err != nil {
		return failure("create document", err), nil
	}

	sc.Metrics().RecordConversion(ctx, instrumentation.ConversionDocs, result.RequestCount)
	return common.JSONResult(result)
}

func handleAppendMarkdown(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	svc, err := sc.DocsClientForAccount(common.GetAccountFromArgs(sc, args))
	if err != nil {
		return common.ErrorResult(err), nil
	}

	result, err := docs.AppendMarkdown(ctx, svc,
		common.StringArg(args, "documentId", ""),
		common.StringArg(args, "markdown", ""),
		docs.WriteOptions{
			Compiler: sc.Compiler(),
			Logger:   sc.Logger(),
		})
	if err != nil {
		return failure("append to document", err), nil
	}

	sc.Metrics().RecordConversion(ctx, instrumentation.ConversionDocs, result.RequestCount)
	return common.JSONResult(result)
}

// fetch loads a document and renders it in format, which is one of
// structured, markdown or text.
func fetch(ctx context.Context, svc server.DocsService, documentID, tabID, format string) (any, error) {
	structured, err := svc.GetStructuredDocument(ctx, documentID, tabID)
	if err != nil {
		return nil, err
	}

	switch format {
	case FormatMarkdown:
		return docs.RenderMarkdown(structured)
	case FormatText:
		return docs.RenderPlainText(structured)
	}
	return structured, nil
}

func validFormat(format string, allowJSON bool) bool {
	switch format {
	case FormatStructured, FormatMarkdown, FormatText:
		return true
	case FormatJSON:
		return allowJSON
	}
	return false
}

// failure renders err as a tool error. Validation errors are shown as they
// are; API errors are prefixed with the failed action.
func failure(action string, err error) *mcp.CallToolResult {
	if isValidation(err) {
		return common.ErrorResult(err)
	}
	return common.ErrorResult(fmt.Errorf("Failed to %s: %w", action, err))
}

func isValidation(err error) bool {
	var verr *docs.ValidationError
	return errors.As(err, &verr) ||
		errors.Is(err, docs.ErrEmptyMarkdown) ||
		errors.Is(err, docs.ErrMissingTitle) ||
		errors.Is(err, docs.ErrMissingDocumentID)
}
