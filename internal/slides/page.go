package slides

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"slices"
	"strings"

	"github.com/teemow/docsmith/internal/logging"
	"github.com/teemow/docsmith/internal/markdown"
)

var (
	// ErrMissingPresentation is returned when no presentation URL or ID is given.
	ErrMissingPresentation = errors.New("presentation URL or ID is required")
	// ErrEmptySlide is returned when a slide would have no title, body or image.
	ErrEmptySlide = errors.New("Slide needs a title, body text or image")
	// ErrUnknownLayout is returned for a layout outside Layouts.
	ErrUnknownLayout = errors.New("Unknown layout")
)

// Layouts are the predefined Slides layouts a page can be created with.
var Layouts = []string{
	"BLANK",
	"CAPTION_ONLY",
	"TITLE",
	"TITLE_AND_BODY",
	"TITLE_AND_TWO_COLUMNS",
	"TITLE_ONLY",
	"SECTION_HEADER",
	"SECTION_TITLE_AND_DESCRIPTION",
	"ONE_COLUMN_TEXT",
	"MAIN_POINT",
	"BIG_NUMBER",
}

var presentationURLPattern = regexp.MustCompile(`/presentation/d/([a-zA-Z0-9_-]+)`)

// PresentationIDFromURL returns the presentation ID in a Slides URL. Input
// that is not a URL is taken to be the ID itself.
func PresentationIDFromURL(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", ErrMissingPresentation
	}
	if m := presentationURLPattern.FindStringSubmatch(s); m != nil {
		return m[1], nil
	}
	if strings.Contains(s, "/") {
		return "", fmt.Errorf("Could not extract a presentation ID from %q", s)
	}
	return s, nil
}

// Page is the content of a slide added with AddSlide.
type Page struct {
	Title string
	// Body is Markdown, formatted like a slide body in a deck.
	Body string
	// ImageURL takes precedence over an image in Body.
	ImageURL string
	Layout   string
}

// PageResult describes a slide added to an existing presentation.
type PageResult struct {
	Success        bool      `json:"success"`
	PresentationID string    `json:"presentationId"`
	URL            string    `json:"url"`
	SlideID        string    `json:"slideId"`
	Layout         string    `json:"layout"`
	ElementsAdded  []Element `json:"elementsAdded"`
	RequestCount   int       `json:"requestCount"`
	Warnings       []string  `json:"warnings"`
}

// AddSlide appends one slide to an existing presentation in a single batch.
// Object IDs are random so they cannot clash with objects already in the
// presentation.
func AddSlide(ctx context.Context, svc PresentationService, presentation string, page Page, opts DeckOptions) (*PageResult, error) {
	presentationID, err := PresentationIDFromURL(presentation)
	if err != nil {
		return nil, err
	}

	rec, warnings := markdown.ParseSlide(page.Title, page.Body)
	if url := strings.TrimSpace(page.ImageURL); url != "" {
		if rec.ImageURL != "" && rec.ImageURL != url {
			warnings = append(warnings, fmt.Sprintf("Using imageUrl %s instead of the image %s in the body", url, rec.ImageURL))
		}
		rec.ImageURL = url
	}
	if !rec.HasContent() {
		return nil, ErrEmptySlide
	}

	rec.Layout = strings.ToUpper(strings.TrimSpace(page.Layout))
	if rec.Layout == "" {
		rec.Layout = markdown.LayoutBlank
	}
	if !slices.Contains(Layouts, rec.Layout) {
		return nil, fmt.Errorf("%w %q (supported: %s)", ErrUnknownLayout, rec.Layout, strings.Join(Layouts, ", "))
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logging.WithOperation(logger, "slides.add_page").With(logging.PresentationID(presentationID))

	batch := NewBuilder(opts.Geometry, NewUniqueIDGenerator()).Slide(rec)
	if _, err := svc.BatchUpdate(ctx, presentationID, batch.Requests); err != nil {
		return nil, err
	}
	logger.Info("added slide", slog.String("slide_id", batch.SlideID), slog.Int("elements", len(batch.Elements)))

	return &PageResult{
		Success:        true,
		PresentationID: presentationID,
		URL:            PresentationURL(presentationID),
		SlideID:        batch.SlideID,
		Layout:         rec.Layout,
		ElementsAdded:  append([]Element{}, batch.Elements...),
		RequestCount:   len(batch.Requests),
		Warnings:       warnings,
	}, nil
}
