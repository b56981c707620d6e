package docs

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	docsapi "google.golang.org/api/docs/v1"
)

type fakeDocumentService struct {
	doc       *docsapi.Document
	batches   map[string][][]*docsapi.Request
	moved     map[string]string
	createErr error
	updateErr error
	moveErr   error
}

func newFakeDocumentService() *fakeDocumentService {
	return &fakeDocumentService{
		batches: map[string][][]*docsapi.Request{},
		moved:   map[string]string{},
	}
}

func (f *fakeDocumentService) GetDocument(_ context.Context, documentID string) (*docsapi.Document, error) {
	if f.doc == nil || f.doc.DocumentId != documentID {
		return nil, errors.New("not found")
	}
	return f.doc, nil
}

func (f *fakeDocumentService) CreateDocument(_ context.Context, title string) (*docsapi.Document, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	return &docsapi.Document{DocumentId: "new-doc", Title: title}, nil
}

func (f *fakeDocumentService) BatchUpdate(_ context.Context, documentID string, requests []*docsapi.Request) (*docsapi.BatchUpdateDocumentResponse, error) {
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	f.batches[documentID] = append(f.batches[documentID], requests)
	return &docsapi.BatchUpdateDocumentResponse{DocumentId: documentID}, nil
}

func (f *fakeDocumentService) MoveToFolder(_ context.Context, fileID, folderID string) error {
	if f.moveErr != nil {
		return f.moveErr
	}
	f.moved[fileID] = folderID
	return nil
}

func TestCreateFromMarkdown(t *testing.T) {
	svc := newFakeDocumentService()

	result, err := CreateFromMarkdown(context.Background(), svc, "", "# Plan\n\nShip **it**.\n", WriteOptions{FolderID: "folder-1"})
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Equal(t, "Plan", result.Title, "the first H1 provides the title")
	assert.Equal(t, "new-doc", result.DocumentID)
	assert.Equal(t, "https://docs.google.com/document/d/new-doc/edit", result.URL)
	assert.Equal(t, 2, result.BlocksInserted)
	assert.Empty(t, result.Warnings)

	require.Len(t, svc.batches["new-doc"], 1, "content is inserted in a single batch")
	assert.Len(t, svc.batches["new-doc"][0], result.RequestCount)
	assert.Equal(t, "folder-1", svc.moved["new-doc"])
}

func TestCreateFromMarkdown_Validation(t *testing.T) {
	svc := newFakeDocumentService()

	_, err := CreateFromMarkdown(context.Background(), svc, "Title", "   ", WriteOptions{})
	assert.ErrorIs(t, err, ErrEmptyMarkdown)

	_, err = CreateFromMarkdown(context.Background(), svc, "", "## Only H2\n", WriteOptions{})
	assert.ErrorIs(t, err, ErrMissingTitle)

	assert.Empty(t, svc.batches)
}

func TestCreateFromMarkdown_FolderMoveIsBestEffort(t *testing.T) {
	svc := newFakeDocumentService()
	svc.moveErr = errors.New("permission denied")

	result, err := CreateFromMarkdown(context.Background(), svc, "T", "text\n", WriteOptions{FolderID: "f"})
	require.NoError(t, err)

	assert.True(t, result.Success)
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "permission denied")
}

func TestCreateFromMarkdown_BatchFailure(t *testing.T) {
	svc := newFakeDocumentService()
	svc.updateErr = errors.New("invalid range")

	_, err := CreateFromMarkdown(context.Background(), svc, "T", "text\n", WriteOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "new-doc")
}

func TestAppendMarkdown(t *testing.T) {
	svc := newFakeDocumentService()
	svc.doc = &docsapi.Document{
		DocumentId: "doc-1",
		Title:      "Existing",
		Tabs: []*docsapi.Tab{{DocumentTab: &docsapi.DocumentTab{Body: &docsapi.Body{Content: []*docsapi.StructuralElement{
			{EndIndex: 1, SectionBreak: &docsapi.SectionBreak{}},
			{StartIndex: 1, EndIndex: 12, Paragraph: &docsapi.Paragraph{}},
		}}}}},
	}

	result, err := AppendMarkdown(context.Background(), svc, "doc-1", "more\n", WriteOptions{})
	require.NoError(t, err)

	assert.Equal(t, int64(11), result.StartIndex)
	assert.Equal(t, int64(16), result.EndIndex)
	require.Len(t, svc.batches["doc-1"], 1)
	assert.Equal(t, int64(11), svc.batches["doc-1"][0][0].InsertText.Location.Index)

	_, err = AppendMarkdown(context.Background(), svc, "", "x", WriteOptions{})
	assert.ErrorIs(t, err, ErrMissingDocumentID)

	_, err = AppendMarkdown(context.Background(), svc, "missing", "x", WriteOptions{})
	assert.Error(t, err)
}

func TestAppendIndex(t *testing.T) {
	assert.Equal(t, int64(1), AppendIndex(&docsapi.Document{}))
	assert.Equal(t, int64(41), AppendIndex(&docsapi.Document{Body: &docsapi.Body{Content: []*docsapi.StructuralElement{
		{EndIndex: 42},
	}}}))
}
