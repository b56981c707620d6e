package slides

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	slidesapi "google.golang.org/api/slides/v1"
)

type fakePresentationService struct {
	batches   [][]*slidesapi.Request
	targets   []string
	failSlide map[string]error
	createErr error
	failAll   error
	onBatch   func()
}

func (f *fakePresentationService) CreatePresentation(_ context.Context, title string) (*slidesapi.Presentation, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	return &slidesapi.Presentation{
		PresentationId: "pres-1",
		Title:          title,
		Slides:         []*slidesapi.Page{{ObjectId: "p"}},
	}, nil
}

func (f *fakePresentationService) BatchUpdate(_ context.Context, presentationID string, requests []*slidesapi.Request) (*slidesapi.BatchUpdatePresentationResponse, error) {
	if f.failAll != nil {
		return nil, f.failAll
	}
	if len(requests) > 0 && requests[0].CreateSlide != nil {
		if err := f.failSlide[requests[0].CreateSlide.ObjectId]; err != nil {
			return nil, err
		}
	}
	f.batches = append(f.batches, requests)
	f.targets = append(f.targets, presentationID)
	if f.onBatch != nil {
		f.onBatch()
	}
	return &slidesapi.BatchUpdatePresentationResponse{PresentationId: "pres-1"}, nil
}

const deckMarkdown = `# Quarterly

## One
hello

## Two
world

## Three
![chart](https://e.com/c.png)
`

func TestCreateDeck(t *testing.T) {
	svc := &fakePresentationService{}

	result, err := CreateDeck(context.Background(), svc, "", deckMarkdown, DeckOptions{})
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Equal(t, "pres-1", result.PresentationID)
	assert.Equal(t, "https://docs.google.com/presentation/d/pres-1/edit", result.URL)
	assert.Equal(t, "Quarterly", result.Title)
	assert.Equal(t, 3, result.SlidesCreated)
	assert.Equal(t, 6, result.TotalElements)
	assert.Empty(t, result.Warnings)

	require.Len(t, svc.batches, 4, "one batch per slide plus the default slide removal")
	assert.Equal(t, len(svc.batches[0])+len(svc.batches[1])+len(svc.batches[2]), result.RequestCount)
	for i, id := range []string{"slide_1", "slide_2", "slide_3"} {
		assert.Equal(t, id, svc.batches[i][0].CreateSlide.ObjectId)
	}
	assert.Equal(t, "p", svc.batches[3][0].DeleteObject.ObjectId)
}

func TestCreateDeck_PartialFailure(t *testing.T) {
	svc := &fakePresentationService{failSlide: map[string]error{"slide_2": errors.New("quota exceeded")}}

	result, err := CreateDeck(context.Background(), svc, "Explicit", deckMarkdown, DeckOptions{})
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Equal(t, "Explicit", result.Title, "an explicit title wins over the H1")
	assert.Equal(t, 2, result.SlidesCreated)
	assert.Equal(t, 1, result.SlidesFailed)
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "Two")
	assert.Contains(t, result.Warnings[0], "quota exceeded")

	require.Len(t, svc.batches, 3)
	assert.Equal(t, "slide_1", svc.batches[0][0].CreateSlide.ObjectId)
	assert.Equal(t, "slide_3", svc.batches[1][0].CreateSlide.ObjectId)
}

func TestCreateDeck_CancelledKeepsPartialDeck(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	svc := &fakePresentationService{onBatch: cancel}

	result, err := CreateDeck(ctx, svc, "", deckMarkdown, DeckOptions{})
	require.NoError(t, err)

	assert.Equal(t, "pres-1", result.PresentationID)
	assert.Equal(t, 1, result.SlidesCreated)
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "stopped after 1 of 3 slides")
	require.Len(t, svc.batches, 1, "no further slides and no default slide removal")
}

func TestCreateDeck_AllSlidesFailKeepsDefaultSlide(t *testing.T) {
	boom := errors.New("boom")
	svc := &fakePresentationService{failSlide: map[string]error{"slide_1": boom}}

	result, err := CreateDeck(context.Background(), svc, "", "# T\n\n## Only\nbody\n", DeckOptions{})
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Zero(t, result.SlidesCreated)
	assert.Empty(t, svc.batches)
}

func TestCreateDeck_OutlineWarningsAreKept(t *testing.T) {
	svc := &fakePresentationService{}

	result, err := CreateDeck(context.Background(), svc, "", "# A\n\n# B\n\n## S\nx\n", DeckOptions{})
	require.NoError(t, err)

	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "Multiple H1")
}

func TestCreateDeck_Validation(t *testing.T) {
	svc := &fakePresentationService{}
	ctx := context.Background()

	_, err := CreateDeck(ctx, svc, "", " \n", DeckOptions{})
	assert.ErrorIs(t, err, ErrEmptyMarkdown)

	_, err = CreateDeck(ctx, svc, "", "## Slide\nbody\n", DeckOptions{})
	assert.ErrorIs(t, err, ErrMissingTitle)

	_, err = CreateDeck(ctx, svc, "", "# Title only\n\ntext\n", DeckOptions{})
	assert.ErrorIs(t, err, ErrNoSlides)

	svc.createErr = errors.New("forbidden")
	_, err = CreateDeck(ctx, svc, "", deckMarkdown, DeckOptions{})
	assert.ErrorContains(t, err, "forbidden")

	assert.Empty(t, svc.batches)
}
