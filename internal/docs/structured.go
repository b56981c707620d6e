package docs

import (
	"errors"
	"fmt"

	docsapi "google.golang.org/api/docs/v1"
)

// MimeTypeDocument is the Drive MIME type of a Google Doc.
const MimeTypeDocument = "application/vnd.google-apps.document"

var (
	// ErrTabNotFound is returned when a tab ID matches no tab in the document.
	ErrTabNotFound = errors.New("tab not found")
	// ErrNoTabs is returned when a tab ID is given for a document without tabs.
	ErrNoTabs = errors.New("document has no tabs")
)

// ValidationError is a user-facing rejection of a request. It wraps one of
// the package sentinel errors.
type ValidationError struct {
	Message string
	Err     error
}

func (e *ValidationError) Error() string { return e.Message }
func (e *ValidationError) Unwrap() error { return e.Err }

// Source is everything BuildStructuredDocument reads.
type Source struct {
	Document *docsapi.Document
	// Tabs replaces Document.Tabs when set. Use it to keep nested tab keys
	// that the typed document drops (see DecodeDocument).
	Tabs []*RawTab
	// Metadata is optional Drive metadata used for the document link.
	Metadata *DocumentMetadata
}

// BuildStructuredDocument converts a fetched document into its typed tree.
//
// Documents that expose a tabs collection produce Tabs, all others produce
// Content. A non-empty targetTabID restricts Tabs to the one matching tab and
// fails with ErrTabNotFound or ErrNoTabs when that is impossible.
func BuildStructuredDocument(src Source, targetTabID string) (*StructuredDocument, error) {
	doc := src.Document
	if doc == nil {
		doc = &docsapi.Document{}
	}

	tabs := src.Tabs
	if tabs == nil {
		tabs = RawTabs(doc.Tabs)
	}

	images := ImagesFromInlineObjects(doc.InlineObjects)
	tabImages(images, tabs)

	result := &StructuredDocument{
		Metadata: structuredMetadata(doc, src.Metadata),
		Images:   images,
	}

	if len(tabs) == 0 {
		if targetTabID != "" {
			return nil, &ValidationError{
				Message: fmt.Sprintf("Document has no tabs; tab_id %s cannot be used", targetTabID),
				Err:     ErrNoTabs,
			}
		}
		content := []ContentBlock{}
		if doc.Body != nil {
			content = append(content, WalkElements(doc.Body.Content, images)...)
		}
		result.Content = append(content, headerFooterBlocks(doc.Headers, doc.Footers, images)...)
		return result, nil
	}

	result.Tabs = WalkTabs(tabs, 0, targetTabID, images)
	if targetTabID != "" && len(result.Tabs) == 0 {
		return nil, &ValidationError{
			Message: fmt.Sprintf("No tab found with tab_id %s", targetTabID),
			Err:     ErrTabNotFound,
		}
	}

	return result, nil
}

func structuredMetadata(doc *docsapi.Document, meta *DocumentMetadata) StructuredMetadata {
	sm := StructuredMetadata{
		ID:       doc.DocumentId,
		Title:    doc.Title,
		MimeType: MimeTypeDocument,
		Link:     DocumentURL(doc.DocumentId),
	}
	if meta == nil {
		return sm
	}
	if sm.ID == "" {
		sm.ID = meta.ID
		sm.Link = DocumentURL(meta.ID)
	}
	if sm.Title == "" {
		sm.Title = meta.Name
	}
	if meta.MimeType != "" {
		sm.MimeType = meta.MimeType
	}
	if meta.WebViewLink != "" {
		sm.Link = meta.WebViewLink
	}
	return sm
}

// DocumentURL returns the edit URL of a Google Doc.
func DocumentURL(documentID string) string {
	if documentID == "" {
		return ""
	}
	return "https://docs.google.com/document/d/" + documentID + "/edit"
}
