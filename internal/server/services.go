package server

import (
	"context"
	"time"

	docsapi "google.golang.org/api/docs/v1"
	slidesapi "google.golang.org/api/slides/v1"

	"github.com/teemow/docsmith/internal/docs"
	"github.com/teemow/docsmith/internal/instrumentation"
	"github.com/teemow/docsmith/internal/slides"
)

// DocsService is what the Docs tools need from a Google account.
// *docs.Client implements it.
type DocsService interface {
	docs.DocumentService
	GetFileMetadata(ctx context.Context, fileID string) (*docs.DocumentMetadata, error)
	DownloadFile(ctx context.Context, fileID, mimeType string) ([]byte, error)
	GetStructuredDocument(ctx context.Context, documentID, tabID string) (*docs.StructuredDocument, error)
}

// SlidesService is what the Slides tools need from a Google account.
// *slides.Client implements it.
type SlidesService interface {
	slides.PresentationService
}

var (
	_ DocsService   = (*docs.Client)(nil)
	_ SlidesService = (*slides.Client)(nil)
)

// observe wraps one Google API call in a client span and records its
// outcome on metrics.
func observe(ctx context.Context, metrics *instrumentation.Metrics, service, operation string, call func(ctx context.Context) error) error {
	ctx, span := instrumentation.StartGoogleAPISpan(ctx, service, operation)
	start := time.Now()

	err := call(ctx)

	status := instrumentation.StatusSuccess
	if err != nil {
		status = instrumentation.StatusError
	}
	metrics.RecordGoogleAPIOperation(ctx, service, operation, status, time.Since(start))
	instrumentation.EndSpan(span, err)
	return err
}

type instrumentedDocs struct {
	next    DocsService
	metrics *instrumentation.Metrics
}

func (d *instrumentedDocs) GetDocument(ctx context.Context, documentID string) (doc *docsapi.Document, err error) {
	err = observe(ctx, d.metrics, instrumentation.ServiceDocs, instrumentation.OperationGet, func(ctx context.Context) error {
		doc, err = d.next.GetDocument(ctx, documentID)
		return err
	})
	return doc, err
}

func (d *instrumentedDocs) CreateDocument(ctx context.Context, title string) (doc *docsapi.Document, err error) {
	err = observe(ctx, d.metrics, instrumentation.ServiceDocs, instrumentation.OperationCreate, func(ctx context.Context) error {
		doc, err = d.next.CreateDocument(ctx, title)
		return err
	})
	return doc, err
}

func (d *instrumentedDocs) BatchUpdate(ctx context.Context, documentID string, requests []*docsapi.Request) (resp *docsapi.BatchUpdateDocumentResponse, err error) {
	err = observe(ctx, d.metrics, instrumentation.ServiceDocs, instrumentation.OperationUpdate, func(ctx context.Context) error {
		resp, err = d.next.BatchUpdate(ctx, documentID, requests)
		return err
	})
	return resp, err
}

func (d *instrumentedDocs) MoveToFolder(ctx context.Context, fileID, folderID string) error {
	return observe(ctx, d.metrics, instrumentation.ServiceDrive, instrumentation.OperationUpdate, func(ctx context.Context) error {
		return d.next.MoveToFolder(ctx, fileID, folderID)
	})
}

func (d *instrumentedDocs) GetFileMetadata(ctx context.Context, fileID string) (meta *docs.DocumentMetadata, err error) {
	err = observe(ctx, d.metrics, instrumentation.ServiceDrive, instrumentation.OperationGet, func(ctx context.Context) error {
		meta, err = d.next.GetFileMetadata(ctx, fileID)
		return err
	})
	return meta, err
}

func (d *instrumentedDocs) DownloadFile(ctx context.Context, fileID, mimeType string) (data []byte, err error) {
	err = observe(ctx, d.metrics, instrumentation.ServiceDrive, instrumentation.OperationGet, func(ctx context.Context) error {
		data, err = d.next.DownloadFile(ctx, fileID, mimeType)
		return err
	})
	return data, err
}

// GetStructuredDocument goes through the instrumented calls so each request
// is observed individually.
func (d *instrumentedDocs) GetStructuredDocument(ctx context.Context, documentID, tabID string) (*docs.StructuredDocument, error) {
	return docs.FetchStructuredDocument(ctx, d, documentID, tabID)
}

type instrumentedSlides struct {
	next    SlidesService
	metrics *instrumentation.Metrics
}

func (s *instrumentedSlides) CreatePresentation(ctx context.Context, title string) (pres *slidesapi.Presentation, err error) {
	err = observe(ctx, s.metrics, instrumentation.ServiceSlides, instrumentation.OperationCreate, func(ctx context.Context) error {
		pres, err = s.next.CreatePresentation(ctx, title)
		return err
	})
	return pres, err
}

func (s *instrumentedSlides) BatchUpdate(ctx context.Context, presentationID string, requests []*slidesapi.Request) (resp *slidesapi.BatchUpdatePresentationResponse, err error) {
	err = observe(ctx, s.metrics, instrumentation.ServiceSlides, instrumentation.OperationUpdate, func(ctx context.Context) error {
		resp, err = s.next.BatchUpdate(ctx, presentationID, requests)
		return err
	})
	return resp, err
}
