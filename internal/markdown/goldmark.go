package markdown

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// Image is an image reference found in Markdown inline content.
type Image struct {
	URL string `json:"url"`
	Alt string `json:"alt,omitempty"`
}

// InlinePart is either a run of lightweight-dialect text or an image.
// Exactly one of Text and Image is set.
type InlinePart struct {
	Text  string
	Image *Image
}

// Inline is the rendering of one block's inline content, in source order.
type Inline []InlinePart

// Text returns the concatenated text parts, images omitted.
func (in Inline) Text() string {
	var sb strings.Builder
	for _, p := range in {
		if p.Image == nil {
			sb.WriteString(p.Text)
		}
	}
	return sb.String()
}

// Images returns the images in source order.
func (in Inline) Images() []Image {
	var images []Image
	for _, p := range in {
		if p.Image != nil {
			images = append(images, *p.Image)
		}
	}
	return images
}

// Parse tokenizes Markdown source into a goldmark document tree.
func Parse(source []byte) ast.Node {
	md := goldmark.New()
	return md.Parser().Parse(text.NewReader(source))
}

// RenderInline re-serializes the inline children of n into the lightweight
// dialect understood by ParseInline (**bold**, *italic*, [text](url)), and
// lifts images out as separate parts.
func RenderInline(source []byte, n ast.Node) Inline {
	r := &inlineRenderer{source: source, markers: true}
	r.children(n)
	r.flush()
	return r.parts
}

// PlainInline returns the text of the inline children of n with all
// formatting markers and images dropped.
func PlainInline(source []byte, n ast.Node) string {
	r := &inlineRenderer{source: source}
	r.children(n)
	r.flush()
	return r.parts.Text()
}

// CodeText returns the raw lines of a code block.
func CodeText(source []byte, n ast.Node) string {
	var sb strings.Builder
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		sb.Write(seg.Value(source))
	}
	return sb.String()
}

type inlineRenderer struct {
	source  []byte
	markers bool
	buf     strings.Builder
	parts   Inline
}

func (r *inlineRenderer) flush() {
	if r.buf.Len() == 0 {
		return
	}
	r.parts = append(r.parts, InlinePart{Text: r.buf.String()})
	r.buf.Reset()
}

func (r *inlineRenderer) children(n ast.Node) {
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		r.node(c)
	}
}

func (r *inlineRenderer) node(n ast.Node) {
	switch v := n.(type) {
	case *ast.Text:
		r.text(v.Segment.Value(r.source))
		switch {
		case v.HardLineBreak():
			r.buf.WriteString("\n")
		case v.SoftLineBreak():
			r.buf.WriteString(" ")
		}
	case *ast.String:
		r.literal(string(v.Value))
	case *ast.Emphasis:
		marker := strings.Repeat("*", v.Level)
		if r.markers {
			r.buf.WriteString(marker)
		}
		r.children(v)
		if r.markers {
			r.buf.WriteString(marker)
		}
	case *ast.Link:
		if !r.markers {
			r.children(v)
			return
		}
		r.buf.WriteString("[")
		r.children(v)
		r.buf.WriteString("](")
		r.buf.WriteString(destinationEscaper.Replace(string(util.UnescapePunctuations(v.Destination))))
		r.buf.WriteString(")")
	case *ast.AutoLink:
		r.literal(string(v.URL(r.source)))
	case *ast.CodeSpan:
		if r.markers {
			r.buf.WriteString("`")
		}
		for c := v.FirstChild(); c != nil; c = c.NextSibling() {
			if t, ok := c.(*ast.Text); ok {
				r.literal(string(t.Segment.Value(r.source)))
			}
		}
		if r.markers {
			r.buf.WriteString("`")
		}
	case *ast.Image:
		if !r.markers {
			return
		}
		r.flush()
		alt := &inlineRenderer{source: r.source}
		alt.children(v)
		alt.flush()
		r.parts = append(r.parts, InlinePart{Image: &Image{
			URL: string(v.Destination),
			Alt: alt.parts.Text(),
		}})
	case *ast.RawHTML:
		// dropped
	default:
		r.children(n)
	}
}

// destinationEscaper percent-encodes the characters that would end a link
// destination early in the lightweight dialect.
var destinationEscaper = strings.NewReplacer("(", "%28", ")", "%29", " ", "%20")

// text writes a source text segment. Emphasis and links are separate nodes,
// so marker characters left in a text segment are literal and get escaped;
// escapes already present in the source are kept as they are.
func (r *inlineRenderer) text(raw []byte) {
	if !r.markers {
		r.buf.Write(util.UnescapePunctuations(raw))
		return
	}
	for i := 0; i < len(raw); i++ {
		c := raw[i]
		if c == '\\' && i+1 < len(raw) && util.IsPunct(raw[i+1]) {
			r.buf.WriteByte(c)
			r.buf.WriteByte(raw[i+1])
			i++
			continue
		}
		if c == '*' || c == '_' || c == '[' || c == ']' {
			r.buf.WriteByte('\\')
		}
		r.buf.WriteByte(c)
	}
}

// literal writes text that carries no markup of its own.
func (r *inlineRenderer) literal(s string) {
	if r.markers {
		s = EscapeInline(s)
	}
	r.buf.WriteString(s)
}
