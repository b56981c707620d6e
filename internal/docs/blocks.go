package docs

import (
	"strings"

	"github.com/yuin/goldmark/ast"

	"github.com/teemow/docsmith/internal/markdown"
)

// BlockElement is one block of Markdown prepared for compilation into Docs
// requests. Implementations: *Heading, *TextParagraph, *List, *Image and
// *Divider.
type BlockElement interface {
	BlockKind() string
	blockElement()
}

// Heading is a heading of Level 1 to 6.
type Heading struct {
	Level    int                `json:"level"`
	Segments []markdown.Segment `json:"segments"`
}

// TextParagraph is a paragraph of styled text.
type TextParagraph struct {
	Segments []markdown.Segment `json:"segments"`
}

// List is a bulleted or numbered list. Each item is one paragraph.
type List struct {
	Items   [][]markdown.Segment `json:"items"`
	Ordered bool                 `json:"ordered"`
}

// Image is an image inserted inline from a public URL.
type Image struct {
	URL string `json:"url"`
	Alt string `json:"alt,omitempty"`
}

// Divider is a horizontal rule.
type Divider struct{}

func (*Heading) BlockKind() string       { return "heading" }
func (*TextParagraph) BlockKind() string { return "paragraph" }
func (*List) BlockKind() string          { return "list" }
func (*Image) BlockKind() string         { return "image" }
func (*Divider) BlockKind() string       { return "divider" }

func (*Heading) blockElement()       {}
func (*TextParagraph) blockElement() {}
func (*List) blockElement()          {}
func (*Image) blockElement()         {}
func (*Divider) blockElement()       {}

// ParseMarkdownBlocks splits Markdown into block elements.
//
// Images inside paragraphs become standalone Image blocks in document order.
// Code blocks become plain paragraphs, block quotes degrade to their content
// and nested lists are flattened into their parent list. Tables and raw HTML
// are not supported and are skipped.
func ParseMarkdownBlocks(source string) []BlockElement {
	src := []byte(source)
	p := &blockParser{source: src}

	doc := markdown.Parse(src)
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		p.block(n)
	}

	return p.blocks
}

type blockParser struct {
	source []byte
	blocks []BlockElement
}

func (p *blockParser) block(n ast.Node) {
	switch v := n.(type) {
	case *ast.Heading:
		inline := markdown.RenderInline(p.source, v)
		p.blocks = append(p.blocks, &Heading{
			Level:    v.Level,
			Segments: markdown.ParseInline(strings.TrimSpace(inline.Text())),
		})
		p.images(inline.Images())
	case *ast.Paragraph, *ast.TextBlock:
		p.paragraph(markdown.RenderInline(p.source, v))
	case *ast.List:
		list := &List{Ordered: v.IsOrdered()}
		var images []markdown.Image
		p.listItems(v, list, &images)
		if len(list.Items) > 0 {
			p.blocks = append(p.blocks, list)
		}
		p.images(images)
	case *ast.FencedCodeBlock, *ast.CodeBlock:
		code := strings.TrimRight(markdown.CodeText(p.source, v), "\n")
		if code != "" {
			p.blocks = append(p.blocks, &TextParagraph{Segments: []markdown.Segment{{Text: code}}})
		}
	case *ast.ThematicBreak:
		p.blocks = append(p.blocks, &Divider{})
	case *ast.Blockquote:
		for c := v.FirstChild(); c != nil; c = c.NextSibling() {
			p.block(c)
		}
	}
}

// paragraph emits the text between images as paragraphs and each image as
// an Image block, keeping source order.
func (p *blockParser) paragraph(inline markdown.Inline) {
	for _, part := range inline {
		if part.Image != nil {
			p.images([]markdown.Image{*part.Image})
			continue
		}
		text := strings.TrimSpace(part.Text)
		if text == "" {
			continue
		}
		p.blocks = append(p.blocks, &TextParagraph{Segments: markdown.ParseInline(text)})
	}
}

func (p *blockParser) images(images []markdown.Image) {
	for _, img := range images {
		if img.URL == "" {
			continue
		}
		p.blocks = append(p.blocks, &Image{URL: img.URL, Alt: img.Alt})
	}
}

func (p *blockParser) listItems(l *ast.List, list *List, images *[]markdown.Image) {
	for item := l.FirstChild(); item != nil; item = item.NextSibling() {
		var texts []string
		var nested []*ast.List
		for c := item.FirstChild(); c != nil; c = c.NextSibling() {
			switch v := c.(type) {
			case *ast.List:
				nested = append(nested, v)
			case *ast.Paragraph, *ast.TextBlock:
				inline := markdown.RenderInline(p.source, v)
				*images = append(*images, inline.Images()...)
				if t := strings.TrimSpace(inline.Text()); t != "" {
					texts = append(texts, t)
				}
			}
		}

		if len(texts) > 0 {
			list.Items = append(list.Items, markdown.ParseInline(strings.Join(texts, " ")))
		}
		for _, n := range nested {
			p.listItems(n, list, images)
		}
	}
}
