package slides

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	slidesapi "google.golang.org/api/slides/v1"

	"github.com/teemow/docsmith/internal/logging"
	"github.com/teemow/docsmith/internal/markdown"
)

var (
	// ErrEmptyMarkdown is returned when there is nothing to convert.
	ErrEmptyMarkdown = errors.New("Markdown content is empty")
	// ErrMissingTitle is returned when no title is given and the Markdown has
	// no H1 heading.
	ErrMissingTitle = errors.New("No presentation title found. Markdown must start with # H1 heading, or provide a title")
	// ErrNoSlides is returned when the Markdown produces no slides.
	ErrNoSlides = errors.New("No slides generated. Markdown must have at least one ## H2 heading to create slides")
)

// PresentationService is the subset of the Slides API deck creation needs.
// *Client implements it.
type PresentationService interface {
	CreatePresentation(ctx context.Context, title string) (*slidesapi.Presentation, error)
	BatchUpdate(ctx context.Context, presentationID string, requests []*slidesapi.Request) (*slidesapi.BatchUpdatePresentationResponse, error)
}

// DeckOptions configures CreateDeck.
type DeckOptions struct {
	Geometry Geometry
	Logger   *slog.Logger
}

// DeckResult describes a created presentation.
type DeckResult struct {
	Success        bool     `json:"success"`
	PresentationID string   `json:"presentationId,omitempty"`
	URL            string   `json:"url,omitempty"`
	Title          string   `json:"title,omitempty"`
	SlidesCreated  int      `json:"slidesCreated"`
	SlidesFailed   int      `json:"slidesFailed"`
	TotalElements  int      `json:"totalElements"`
	RequestCount   int      `json:"requestCount"`
	Warnings       []string `json:"warnings"`
	Error          string   `json:"error,omitempty"`
}

// PresentationURL returns the edit URL of a presentation.
func PresentationURL(id string) string {
	return fmt.Sprintf("https://docs.google.com/presentation/d/%s/edit", id)
}

// Prepare parses source into an outline and validates it for deck creation.
// An explicit title takes precedence over the H1 heading.
func Prepare(title, source string) (*markdown.Outline, string, error) {
	if strings.TrimSpace(source) == "" {
		return nil, "", ErrEmptyMarkdown
	}

	outline := markdown.ParseOutline(source)
	title = strings.TrimSpace(title)
	if title == "" {
		title = outline.Title
	}
	if title == "" {
		return nil, "", ErrMissingTitle
	}
	if len(outline.Slides) == 0 {
		return nil, "", ErrNoSlides
	}
	return outline, title, nil
}

// CreateDeck creates a presentation from Markdown. Every slide is submitted
// as its own batch: a slide that fails is reported as a warning and the
// remaining slides are still created, so a partial deck is a possible
// outcome. Cancelling ctx stops at the next slide and still returns the
// partial deck. Validation errors are returned before anything is created.
func CreateDeck(ctx context.Context, svc PresentationService, title, source string, opts DeckOptions) (*DeckResult, error) {
	outline, title, err := Prepare(title, source)
	if err != nil {
		return nil, err
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logging.WithOperation(logger, "slides.create_deck")

	pres, err := svc.CreatePresentation(ctx, title)
	if err != nil {
		return nil, err
	}
	logger = logger.With(logging.PresentationID(pres.PresentationId))
	logger.Info("created presentation", slog.Int("slides", len(outline.Slides)))

	result := &DeckResult{
		Success:        true,
		PresentationID: pres.PresentationId,
		URL:            PresentationURL(pres.PresentationId),
		Title:          title,
		Warnings:       append([]string{}, outline.Warnings...),
	}

	batches := NewBuilder(opts.Geometry, NewIDGenerator()).Build(outline)
	for i, batch := range batches {
		if err := ctx.Err(); err != nil {
			logger.Warn("deck creation interrupted", slog.Int("slides_remaining", len(batches)-i), logging.Err(err))
			result.Warnings = append(result.Warnings, fmt.Sprintf("Deck creation stopped after %d of %d slides: %v", i, len(batches), err))
			break
		}
		if _, err := svc.BatchUpdate(ctx, pres.PresentationId, batch.Requests); err != nil {
			logger.Warn("failed to create slide", slog.String("slide", batch.Title), logging.Err(err))
			result.SlidesFailed++
			result.Warnings = append(result.Warnings, fmt.Sprintf("Error creating slide '%s': %v", batch.Title, err))
			continue
		}
		result.SlidesCreated++
		result.TotalElements += len(batch.Elements)
		result.RequestCount += len(batch.Requests)
	}

	if result.SlidesCreated > 0 && ctx.Err() == nil {
		removeDefaultSlides(ctx, svc, pres, logger)
	}

	logger.Info("presentation ready",
		slog.Int("slides_created", result.SlidesCreated),
		slog.Int("slides_failed", result.SlidesFailed))
	return result, nil
}

// removeDefaultSlides deletes the slides a new presentation starts with.
// Failing to delete them leaves an extra blank slide and is only logged.
func removeDefaultSlides(ctx context.Context, svc PresentationService, pres *slidesapi.Presentation, logger *slog.Logger) {
	var reqs []*slidesapi.Request
	for _, page := range pres.Slides {
		if page == nil || page.ObjectId == "" {
			continue
		}
		reqs = append(reqs, &slidesapi.Request{
			DeleteObject: &slidesapi.DeleteObjectRequest{ObjectId: page.ObjectId},
		})
	}
	if len(reqs) == 0 {
		return
	}
	if _, err := svc.BatchUpdate(ctx, pres.PresentationId, reqs); err != nil {
		logger.Warn("failed to remove default slide", logging.Err(err))
	}
}
