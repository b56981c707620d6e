package markdown

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/yuin/goldmark/ast"
)

// LayoutBlank is the predefined Slides layout used for generated slides.
const LayoutBlank = "BLANK"

// BulletGlyph prefixes unordered list items in slide bodies.
const BulletGlyph = "•"

// SlideRecord is one slide of a presentation outline.
type SlideRecord struct {
	Title    string `json:"title"`
	BodyText string `json:"bodyText"`
	ImageURL string `json:"imageUrl,omitempty"`
	Layout   string `json:"layout"`
}

// HasContent reports whether the slide accumulated a title, body or image.
func (s *SlideRecord) HasContent() bool {
	return s.Title != "" || s.BodyText != "" || s.ImageURL != ""
}

// Outline is the result of parsing Markdown into a presentation outline.
type Outline struct {
	Title    string        `json:"title,omitempty"`
	Slides   []SlideRecord `json:"slides"`
	Warnings []string      `json:"warnings"`
}

// ParseOutline converts Markdown into a slide outline. The first H1 becomes
// the presentation title, every H2 starts a new slide, and the remaining
// blocks accumulate into the body of the current slide. Problems that can be
// recovered from are reported as warnings; ParseOutline never fails.
func ParseOutline(markdown string) *Outline {
	source := []byte(markdown)
	p := &outlineParser{
		source:  source,
		outline: &Outline{Slides: []SlideRecord{}, Warnings: []string{}},
	}

	doc := Parse(source)
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		p.block(n)
	}
	p.finalize()

	return p.outline
}

// ParseSlide converts the Markdown body of one slide into a slide record
// titled title. The body is treated like the blocks below an H2 in
// ParseOutline, except that headings of every level become bold
// subheadings. The first image is lifted out of the body.
func ParseSlide(title, body string) (SlideRecord, []string) {
	source := []byte(body)
	p := &outlineParser{
		source:  source,
		outline: &Outline{Warnings: []string{}},
		current: &SlideRecord{Title: strings.TrimSpace(title), Layout: LayoutBlank},
		single:  true,
	}

	doc := Parse(source)
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		p.block(n)
	}

	return *p.current, p.outline.Warnings
}

type outlineParser struct {
	source  []byte
	outline *Outline
	current *SlideRecord
	titled  bool
	single  bool
}

func (p *outlineParser) warn(format string, args ...any) {
	p.outline.Warnings = append(p.outline.Warnings, fmt.Sprintf(format, args...))
}

func (p *outlineParser) finalize() {
	if p.current != nil && p.current.HasContent() {
		p.outline.Slides = append(p.outline.Slides, *p.current)
	}
	p.current = nil
}

func (p *outlineParser) startSlide(title string) {
	p.finalize()
	p.current = &SlideRecord{Title: title, Layout: LayoutBlank}
}

// appendBody adds a block to the body of the current slide, separated from
// the previous block by a newline.
func (p *outlineParser) appendBody(text string) {
	if p.current == nil {
		return
	}
	if p.current.BodyText != "" {
		p.current.BodyText += "\n"
	}
	p.current.BodyText += text
}

func (p *outlineParser) block(n ast.Node) {
	switch v := n.(type) {
	case *ast.Heading:
		p.heading(v)
	case *ast.Paragraph, *ast.TextBlock:
		p.paragraph(v)
	case *ast.List:
		p.list(v)
	case *ast.FencedCodeBlock, *ast.CodeBlock:
		code := strings.TrimSpace(CodeText(p.source, v))
		p.appendBody("\n```\n" + code + "\n```\n")
	case *ast.Blockquote:
		for c := v.FirstChild(); c != nil; c = c.NextSibling() {
			p.block(c)
		}
	}
}

func (p *outlineParser) heading(h *ast.Heading) {
	text := strings.TrimSpace(PlainInline(p.source, h))

	switch {
	case p.single && h.Level <= 3:
		p.appendBody("\n**" + EscapeInline(text) + "**\n")
	case h.Level == 1:
		if p.titled {
			p.warn("Multiple H1 headings found, ignoring %q (using %q as the presentation title)", text, p.outline.Title)
			return
		}
		p.outline.Title = text
		p.titled = true
	case h.Level == 2:
		p.startSlide(text)
	case h.Level == 3:
		if p.current == nil {
			p.warn("H3 heading %q appears before any H2 heading, creating a slide for it", text)
			p.startSlide(text)
			return
		}
		p.appendBody("\n**" + EscapeInline(text) + "**\n")
	default:
		p.appendBody("\n" + EscapeInline(text) + "\n")
	}
}

func (p *outlineParser) paragraph(n ast.Node) {
	inline := RenderInline(p.source, n)
	for _, img := range inline.Images() {
		p.image(img.URL)
	}
	text := strings.TrimSpace(inline.Text())
	if text == "" {
		return
	}
	p.appendBody(text + "\n")
}

func (p *outlineParser) image(url string) {
	if p.current == nil {
		p.warn("Image %s appears before any slide, ignoring it", url)
		return
	}
	if p.current.ImageURL != "" {
		p.warn("Slide %q has multiple images, using the first and ignoring %s", p.current.Title, url)
		return
	}
	p.current.ImageURL = url
}

func (p *outlineParser) list(l *ast.List) {
	lines := p.listLines(l, 0)
	if len(lines) == 0 {
		return
	}
	p.appendBody(strings.Join(lines, "\n") + "\n")
}

// listLines renders list items one per line. Nested lists are not supported
// and degrade to indented lines.
func (p *outlineParser) listLines(l *ast.List, depth int) []string {
	var lines []string
	number := l.Start
	if number == 0 {
		number = 1
	}
	indent := strings.Repeat("  ", depth)

	for item := l.FirstChild(); item != nil; item = item.NextSibling() {
		var texts []string
		var nested []string
		for c := item.FirstChild(); c != nil; c = c.NextSibling() {
			switch v := c.(type) {
			case *ast.List:
				nested = append(nested, p.listLines(v, depth+1)...)
			case *ast.Paragraph, *ast.TextBlock:
				inline := RenderInline(p.source, v)
				for _, img := range inline.Images() {
					p.image(img.URL)
				}
				if t := strings.TrimSpace(inline.Text()); t != "" {
					texts = append(texts, t)
				}
			}
		}

		marker := BulletGlyph + " "
		if l.IsOrdered() {
			marker = strconv.Itoa(number) + ". "
			number++
		}
		lines = append(lines, indent+marker+strings.Join(texts, " "))
		lines = append(lines, nested...)
	}

	return lines
}
