package slides

import (
	"strings"
	"unicode/utf16"

	slidesapi "google.golang.org/api/slides/v1"

	"github.com/teemow/docsmith/internal/markdown"
)

const (
	// DefaultPageWidthPt and DefaultPageHeightPt are the 16:9 page size of a
	// new presentation.
	DefaultPageWidthPt  = 720.0
	DefaultPageHeightPt = 405.0

	// CodeFontFamily is applied to fenced code in slide bodies.
	CodeFontFamily = "Noto Sans Mono"

	unitPT        = "PT"
	shapeTextBox  = "TEXT_BOX"
	rangeAll      = "ALL"
	rangeFixed    = "FIXED_RANGE"
	margin        = 30.0
	gutter        = 20.0
	titleTop      = 20.0
	titleHeight   = 60.0
	bodyTop       = 100.0
	titleFontSize = 28.0
	bodyFontSize  = 16.0
	imageShare    = 0.4
)

// Geometry is the page size slides are laid out on.
type Geometry struct {
	PageWidthPt  float64
	PageHeightPt float64
}

// DefaultGeometry returns the geometry of a new presentation.
func DefaultGeometry() Geometry {
	return Geometry{PageWidthPt: DefaultPageWidthPt, PageHeightPt: DefaultPageHeightPt}
}

func (g Geometry) orDefault() Geometry {
	if g.PageWidthPt <= 0 {
		g.PageWidthPt = DefaultPageWidthPt
	}
	if g.PageHeightPt <= 0 {
		g.PageHeightPt = DefaultPageHeightPt
	}
	return g
}

type box struct {
	x, y, w, h float64
}

// layout places the title across the top and the body below it. With an
// image the body gives up the right-hand column to it.
func (g Geometry) layout(hasImage bool) (title, body, image box) {
	contentWidth := g.PageWidthPt - 2*margin
	bodyHeight := g.PageHeightPt - bodyTop - margin

	title = box{x: margin, y: titleTop, w: contentWidth, h: titleHeight}
	if !hasImage {
		body = box{x: margin, y: bodyTop, w: contentWidth, h: bodyHeight}
		return title, body, box{}
	}

	imageWidth := contentWidth * imageShare
	body = box{x: margin, y: bodyTop, w: contentWidth - imageWidth - gutter, h: bodyHeight}
	image = box{
		x: margin + body.w + gutter,
		y: bodyTop,
		w: imageWidth,
		h: min(imageWidth*3/4, bodyHeight),
	}
	return title, body, image
}

// Element is one page element created on a slide.
type Element struct {
	Type     string `json:"type"`
	ObjectID string `json:"objectId"`
}

// SlideBatch is the request list that creates one slide. Each batch is
// submitted on its own.
type SlideBatch struct {
	SlideID  string               `json:"slideId"`
	Title    string               `json:"title"`
	Requests []*slidesapi.Request `json:"requests"`
	Elements []Element            `json:"elements"`
}

// Builder turns slide records into Slides API requests.
type Builder struct {
	geometry Geometry
	ids      *IDGenerator
}

// NewBuilder returns a Builder that lays slides out on geometry and names
// objects with ids. A nil ids gets a fresh generator.
func NewBuilder(geometry Geometry, ids *IDGenerator) *Builder {
	if ids == nil {
		ids = NewIDGenerator()
	}
	return &Builder{geometry: geometry.orDefault(), ids: ids}
}

// Build returns one batch per slide of outline, in order.
func (b *Builder) Build(outline *markdown.Outline) []*SlideBatch {
	if outline == nil {
		return nil
	}
	batches := make([]*SlideBatch, 0, len(outline.Slides))
	for _, rec := range outline.Slides {
		batches = append(batches, b.Slide(rec))
	}
	return batches
}

// Slide returns the batch for a single slide: createSlide, then a title text
// box, a body text box when the body is not blank, and the image.
func (b *Builder) Slide(rec markdown.SlideRecord) *SlideBatch {
	layout := rec.Layout
	if layout == "" {
		layout = markdown.LayoutBlank
	}

	batch := &SlideBatch{SlideID: b.ids.Next(CategorySlide), Title: rec.Title}
	batch.Requests = append(batch.Requests, &slidesapi.Request{
		CreateSlide: &slidesapi.CreateSlideRequest{
			ObjectId:             batch.SlideID,
			SlideLayoutReference: &slidesapi.LayoutReference{PredefinedLayout: layout},
		},
	})

	titleBox, bodyBox, imageBox := b.geometry.layout(rec.ImageURL != "")

	if rec.Title != "" {
		id := b.ids.Next(CategoryTitle)
		batch.add(CategoryTitle, id, textBox(id, batch.SlideID, titleBox, rec.Title)...)
		batch.Requests = append(batch.Requests, &slidesapi.Request{
			UpdateTextStyle: &slidesapi.UpdateTextStyleRequest{
				ObjectId:  id,
				TextRange: &slidesapi.Range{Type: rangeAll},
				Style: &slidesapi.TextStyle{
					Bold:     true,
					FontSize: &slidesapi.Dimension{Magnitude: titleFontSize, Unit: unitPT},
				},
				Fields: "bold,fontSize",
			},
		})
	}

	if text, ranges := bodyContent(rec.BodyText); text != "" {
		id := b.ids.Next(CategoryBody)
		batch.add(CategoryBody, id, textBox(id, batch.SlideID, bodyBox, text)...)
		batch.Requests = append(batch.Requests, &slidesapi.Request{
			UpdateTextStyle: &slidesapi.UpdateTextStyleRequest{
				ObjectId:  id,
				TextRange: &slidesapi.Range{Type: rangeAll},
				Style:     &slidesapi.TextStyle{FontSize: &slidesapi.Dimension{Magnitude: bodyFontSize, Unit: unitPT}},
				Fields:    "fontSize",
			},
		})
		for _, r := range ranges {
			batch.Requests = append(batch.Requests, &slidesapi.Request{
				UpdateTextStyle: &slidesapi.UpdateTextStyleRequest{
					ObjectId:  id,
					TextRange: &slidesapi.Range{Type: rangeFixed, StartIndex: ptr(r.start), EndIndex: ptr(r.end)},
					Style:     r.style,
					Fields:    r.fields,
				},
			})
		}
	}

	if rec.ImageURL != "" {
		id := b.ids.Next(CategoryImage)
		batch.add(CategoryImage, id, &slidesapi.Request{
			CreateImage: &slidesapi.CreateImageRequest{
				ObjectId:          id,
				Url:               rec.ImageURL,
				ElementProperties: elementProperties(batch.SlideID, imageBox),
			},
		})
	}

	return batch
}

func (s *SlideBatch) add(kind, id string, reqs ...*slidesapi.Request) {
	s.Requests = append(s.Requests, reqs...)
	s.Elements = append(s.Elements, Element{Type: kind, ObjectID: id})
}

func textBox(id, pageID string, b box, text string) []*slidesapi.Request {
	return []*slidesapi.Request{
		{CreateShape: &slidesapi.CreateShapeRequest{
			ObjectId:          id,
			ShapeType:         shapeTextBox,
			ElementProperties: elementProperties(pageID, b),
		}},
		{InsertText: &slidesapi.InsertTextRequest{
			ObjectId: id,
			Text:     text,
		}},
	}
}

func elementProperties(pageID string, b box) *slidesapi.PageElementProperties {
	return &slidesapi.PageElementProperties{
		PageObjectId: pageID,
		Size: &slidesapi.Size{
			Width:  &slidesapi.Dimension{Magnitude: b.w, Unit: unitPT},
			Height: &slidesapi.Dimension{Magnitude: b.h, Unit: unitPT},
		},
		Transform: &slidesapi.AffineTransform{
			ScaleX:     1,
			ScaleY:     1,
			TranslateX: b.x,
			TranslateY: b.y,
			Unit:       unitPT,
		},
	}
}

type styledRange struct {
	start, end int64
	style      *slidesapi.TextStyle
	fields     string
}

// bodyContent strips the inline Markdown markers from a slide body and
// returns the text with the ranges to style. Fence lines are dropped and the
// code between them is set in CodeFontFamily.
func bodyContent(body string) (string, []styledRange) {
	body = strings.TrimSpace(body)
	if body == "" {
		return "", nil
	}

	var (
		sb     strings.Builder
		ranges []styledRange
		cursor int64
		inCode bool
		first  = true
	)
	write := func(s string) int64 {
		start := cursor
		sb.WriteString(s)
		cursor += textLength(s)
		return start
	}

	for line := range strings.SplitSeq(body, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			inCode = !inCode
			continue
		}
		if !first {
			write("\n")
		}
		first = false

		if inCode {
			if start := write(line); line != "" {
				ranges = append(ranges, styledRange{
					start:  start,
					end:    cursor,
					style:  &slidesapi.TextStyle{FontFamily: CodeFontFamily},
					fields: "fontFamily",
				})
			}
			continue
		}
		for _, seg := range markdown.ParseInline(line) {
			start := write(seg.Text)
			if seg.Styled() && seg.Text != "" {
				style, fields := segmentStyle(seg)
				ranges = append(ranges, styledRange{start: start, end: cursor, style: style, fields: fields})
			}
		}
	}

	text := sb.String()
	if strings.TrimSpace(text) == "" {
		return "", nil
	}
	return text, ranges
}

func segmentStyle(seg markdown.Segment) (*slidesapi.TextStyle, string) {
	style := &slidesapi.TextStyle{}
	var fields []string
	if seg.Bold {
		style.Bold = true
		fields = append(fields, "bold")
	}
	if seg.Italic {
		style.Italic = true
		fields = append(fields, "italic")
	}
	if seg.Link != "" {
		style.Link = &slidesapi.Link{Url: seg.Link}
		fields = append(fields, "link")
	}
	return style, strings.Join(fields, ",")
}

// textLength is the length of s in the UTF-16 code units Slides indexes by.
func textLength(s string) int64 {
	var n int64
	for _, r := range s {
		n += int64(utf16.RuneLen(r))
	}
	return n
}

func ptr[T any](v T) *T {
	return &v
}
