package docs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	docsapi "google.golang.org/api/docs/v1"

	"github.com/teemow/docsmith/internal/logging"
	"github.com/teemow/docsmith/internal/markdown"
)

var (
	// ErrEmptyMarkdown is returned when there is nothing to insert.
	ErrEmptyMarkdown = errors.New("Markdown content is empty")
	// ErrMissingTitle is returned when no title is given and the Markdown has
	// no H1 heading to take one from.
	ErrMissingTitle = errors.New("A title is required: pass a title or start the Markdown with a # H1 heading")
	// ErrMissingDocumentID is returned when a write targets no document.
	ErrMissingDocumentID = errors.New("A document ID is required")
)

// WriteOptions configures CreateFromMarkdown and AppendMarkdown.
type WriteOptions struct {
	// FolderID moves a created document into a Drive folder. Failing to
	// move it does not fail the creation.
	FolderID string
	Compiler *Compiler
	Logger   *slog.Logger
}

func (o WriteOptions) compiler() *Compiler {
	if o.Compiler != nil {
		return o.Compiler
	}
	return NewCompiler()
}

func (o WriteOptions) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.Default()
}

// WriteResult describes a completed Markdown write.
type WriteResult struct {
	Success        bool     `json:"success"`
	DocumentID     string   `json:"documentId"`
	Title          string   `json:"title,omitempty"`
	URL            string   `json:"url"`
	BlocksInserted int      `json:"blocksInserted"`
	RequestCount   int      `json:"requestCount"`
	ImagesInserted int      `json:"imagesInserted"`
	StartIndex     int64    `json:"startIndex"`
	EndIndex       int64    `json:"endIndex"`
	Warnings       []string `json:"warnings"`
}

// CreateFromMarkdown creates a document titled title and fills it with the
// compiled Markdown in a single batch update. When title is empty the first
// H1 heading provides it.
func CreateFromMarkdown(ctx context.Context, svc DocumentService, title, source string, opts WriteOptions) (*WriteResult, error) {
	if strings.TrimSpace(source) == "" {
		return nil, ErrEmptyMarkdown
	}

	blocks := ParseMarkdownBlocks(source)
	title = strings.TrimSpace(title)
	if title == "" {
		title = firstH1(blocks)
	}
	if title == "" {
		return nil, ErrMissingTitle
	}

	logger := logging.WithOperation(opts.logger(), "docs.create_from_markdown")

	doc, err := svc.CreateDocument(ctx, title)
	if err != nil {
		return nil, err
	}
	logger = logger.With(logging.DocumentID(doc.DocumentId))

	compiled := opts.compiler().Compile(blocks, 1)
	if len(compiled.Requests) > 0 {
		if _, err := svc.BatchUpdate(ctx, doc.DocumentId, compiled.Requests); err != nil {
			return nil, fmt.Errorf("document %s was created but its content could not be inserted: %w", doc.DocumentId, err)
		}
	}

	result := &WriteResult{
		Success:        true,
		DocumentID:     doc.DocumentId,
		Title:          title,
		URL:            DocumentURL(doc.DocumentId),
		BlocksInserted: len(blocks),
		RequestCount:   len(compiled.Requests),
		ImagesInserted: compiled.ImagesInserted,
		StartIndex:     1,
		EndIndex:       compiled.EndIndex,
		Warnings:       []string{},
	}

	if opts.FolderID != "" {
		if err := svc.MoveToFolder(ctx, doc.DocumentId, opts.FolderID); err != nil {
			logger.Warn("failed to move document to folder", slog.String("folder_id", opts.FolderID), logging.Err(err))
			result.Warnings = append(result.Warnings, fmt.Sprintf("Document created but could not be moved to folder %s: %v", opts.FolderID, err))
		}
	}

	logger.Info("document created from markdown",
		slog.Int("requests", result.RequestCount),
		slog.Int("images", result.ImagesInserted))

	return result, nil
}

// AppendMarkdown compiles Markdown and inserts it at the end of the body of
// the document's first tab in a single batch update.
func AppendMarkdown(ctx context.Context, svc DocumentService, documentID, source string, opts WriteOptions) (*WriteResult, error) {
	if strings.TrimSpace(documentID) == "" {
		return nil, ErrMissingDocumentID
	}
	if strings.TrimSpace(source) == "" {
		return nil, ErrEmptyMarkdown
	}

	doc, err := svc.GetDocument(ctx, documentID)
	if err != nil {
		return nil, err
	}

	start := AppendIndex(doc)
	blocks := ParseMarkdownBlocks(source)
	compiled := opts.compiler().Compile(blocks, start)

	if len(compiled.Requests) > 0 {
		if _, err := svc.BatchUpdate(ctx, documentID, compiled.Requests); err != nil {
			return nil, err
		}
	}

	logging.WithOperation(opts.logger(), "docs.append_markdown").Info("markdown appended",
		logging.DocumentID(documentID),
		slog.Int64("start_index", start),
		slog.Int("requests", len(compiled.Requests)))

	return &WriteResult{
		Success:        true,
		DocumentID:     documentID,
		Title:          doc.Title,
		URL:            DocumentURL(documentID),
		BlocksInserted: len(blocks),
		RequestCount:   len(compiled.Requests),
		ImagesInserted: compiled.ImagesInserted,
		StartIndex:     start,
		EndIndex:       compiled.EndIndex,
		Warnings:       []string{},
	}, nil
}

// AppendIndex returns the index just before the final newline of the body,
// the last position text can be inserted at. Documents fetched with tabs
// content carry the body in their first tab.
func AppendIndex(doc *docsapi.Document) int64 {
	body := doc.Body
	if body == nil && len(doc.Tabs) > 0 && doc.Tabs[0] != nil && doc.Tabs[0].DocumentTab != nil {
		body = doc.Tabs[0].DocumentTab.Body
	}
	if body == nil || len(body.Content) == 0 {
		return 1
	}

	last := body.Content[len(body.Content)-1]
	if last == nil || last.EndIndex <= 1 {
		return 1
	}
	return last.EndIndex - 1
}

func firstH1(blocks []BlockElement) string {
	for _, b := range blocks {
		if h, ok := b.(*Heading); ok && h.Level == 1 {
			return strings.TrimSpace(markdown.PlainText(h.Segments))
		}
	}
	return ""
}
