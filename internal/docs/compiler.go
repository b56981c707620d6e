package docs

import (
	"fmt"
	"strings"
	"unicode/utf16"

	docsapi "google.golang.org/api/docs/v1"

	"github.com/teemow/docsmith/internal/markdown"
)

const (
	// DefaultImageWidthPt is the width of inserted images. It stays well
	// inside the text width of a US Letter page with one-inch margins.
	DefaultImageWidthPt = 300.0

	BulletPresetOrdered   = "NUMBERED_DECIMAL_ALPHA_ROMAN"
	BulletPresetUnordered = "BULLET_DISC_CIRCLE_SQUARE"
)

// DividerText is inserted for a horizontal rule.
var DividerText = strings.Repeat("─", 40) + "\n"

// CompileResult is the outcome of compiling block elements.
type CompileResult struct {
	Requests       []*docsapi.Request `json:"requests"`
	EndIndex       int64              `json:"endIndex"`
	ImagesInserted int                `json:"imagesInserted"`
}

// Compiler turns block elements into a Docs batchUpdate request list.
type Compiler struct {
	// ImageWidthPt is the width inserted images are sized to.
	ImageWidthPt float64
}

// NewCompiler returns a Compiler with default settings.
func NewCompiler() *Compiler {
	return &Compiler{ImageWidthPt: DefaultImageWidthPt}
}

// Compile compiles elements with a default Compiler.
func Compile(elements []BlockElement, startIndex int64) *CompileResult {
	return NewCompiler().Compile(elements, startIndex)
}

// Compile emits the requests that insert elements at startIndex.
//
// Every index in the result is derived from a cursor that starts at
// startIndex and advances by the UTF-16 length of each text insertion and by
// one for each inline image, so the requests are valid only when applied in
// order as one batch against a document unchanged since startIndex was read.
func (c *Compiler) Compile(elements []BlockElement, startIndex int64) *CompileResult {
	cc := &compilation{cursor: startIndex, imageWidth: c.ImageWidthPt}
	if cc.imageWidth <= 0 {
		cc.imageWidth = DefaultImageWidthPt
	}

	for _, element := range elements {
		switch e := element.(type) {
		case *Heading:
			cc.heading(e)
		case *TextParagraph:
			cc.insertSegments(e.Segments)
		case *List:
			cc.list(e)
		case *Image:
			cc.image(e)
		case *Divider:
			cc.insertText(DividerText)
		}
	}

	return &CompileResult{
		Requests:       cc.requests,
		EndIndex:       cc.cursor,
		ImagesInserted: cc.images,
	}
}

type compilation struct {
	cursor     int64
	imageWidth float64
	requests   []*docsapi.Request
	images     int
}

func (c *compilation) add(req *docsapi.Request) {
	c.requests = append(c.requests, req)
}

// insertText inserts text at the cursor and returns where it started.
func (c *compilation) insertText(text string) int64 {
	start := c.cursor
	c.add(&docsapi.Request{
		InsertText: &docsapi.InsertTextRequest{
			Location: &docsapi.Location{Index: start},
			Text:     text,
		},
	})
	c.cursor += TextLength(text)
	return start
}

// insertSegments inserts the segments as one paragraph and styles them.
func (c *compilation) insertSegments(segments []markdown.Segment) int64 {
	start := c.insertText(markdown.PlainText(segments) + "\n")
	c.styleSegments(start, segments)
	return start
}

func (c *compilation) heading(h *Heading) {
	start := c.insertText(markdown.PlainText(h.Segments) + "\n")

	if end := c.cursor - 1; end > start {
		c.add(&docsapi.Request{
			UpdateParagraphStyle: &docsapi.UpdateParagraphStyleRequest{
				Range:          &docsapi.Range{StartIndex: start, EndIndex: end},
				ParagraphStyle: &docsapi.ParagraphStyle{NamedStyleType: headingStyle(h.Level)},
				Fields:         "namedStyleType",
			},
		})
	}

	c.styleSegments(start, h.Segments)
}

func headingStyle(level int) string {
	level = max(1, min(level, 6))
	return fmt.Sprintf("HEADING_%d", level)
}

// list inserts every item before any bullet is created so that the item
// ranges stay valid, then bullets and styles each item.
func (c *compilation) list(l *List) {
	type itemRange struct {
		start, end int64
		segments   []markdown.Segment
	}

	ranges := make([]itemRange, 0, len(l.Items))
	for _, item := range l.Items {
		start := c.insertText(markdown.PlainText(item) + "\n")
		ranges = append(ranges, itemRange{start: start, end: c.cursor - 1, segments: item})
	}

	preset := BulletPresetUnordered
	if l.Ordered {
		preset = BulletPresetOrdered
	}

	for _, r := range ranges {
		if r.end > r.start {
			c.add(&docsapi.Request{
				CreateParagraphBullets: &docsapi.CreateParagraphBulletsRequest{
					Range:        &docsapi.Range{StartIndex: r.start, EndIndex: r.end},
					BulletPreset: preset,
				},
			})
		}
		c.styleSegments(r.start, r.segments)
	}
}

func (c *compilation) image(img *Image) {
	c.add(&docsapi.Request{
		InsertInlineImage: &docsapi.InsertInlineImageRequest{
			Location: &docsapi.Location{Index: c.cursor},
			Uri:      img.URL,
			ObjectSize: &docsapi.Size{
				Width: &docsapi.Dimension{Magnitude: c.imageWidth, Unit: "PT"},
			},
		},
	})
	c.cursor++
	c.images++

	c.insertText("\n")
}

// styleSegments emits one updateTextStyle per styled segment, walking a
// secondary cursor from start. Plain segments only advance the cursor.
func (c *compilation) styleSegments(start int64, segments []markdown.Segment) {
	pos := start
	for _, seg := range segments {
		length := TextLength(seg.Text)
		if length > 0 && seg.Styled() {
			c.add(textStyleRequest(pos, pos+length, seg))
		}
		pos += length
	}
}

func textStyleRequest(start, end int64, seg markdown.Segment) *docsapi.Request {
	style := &docsapi.TextStyle{}
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
		style.Link = &docsapi.Link{Url: seg.Link}
		fields = append(fields, "link")
	}

	return &docsapi.Request{
		UpdateTextStyle: &docsapi.UpdateTextStyleRequest{
			Range:     &docsapi.Range{StartIndex: start, EndIndex: end},
			TextStyle: style,
			Fields:    strings.Join(fields, ","),
		},
	}
}

// TextLength returns the length of s in the Docs index space, which counts
// UTF-16 code units.
func TextLength(s string) int64 {
	return int64(len(utf16.Encode([]rune(s))))
}
