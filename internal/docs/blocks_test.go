package docs

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/teemow/docsmith/internal/markdown"
)

func TestParseMarkdownBlocks(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []BlockElement
	}{
		{
			name:  "headings and paragraph",
			input: "# Title\n\nSome **bold** text.\n\n### Sub\n",
			want: []BlockElement{
				&Heading{Level: 1, Segments: []markdown.Segment{{Text: "Title"}}},
				&TextParagraph{Segments: []markdown.Segment{
					{Text: "Some "},
					{Text: "bold", Bold: true},
					{Text: " text."},
				}},
				&Heading{Level: 3, Segments: []markdown.Segment{{Text: "Sub"}}},
			},
		},
		{
			name:  "escaped markers and link destinations survive",
			input: "2\\*3\\*4 see [spec](https://e.com/a_(b))\n",
			want: []BlockElement{
				&TextParagraph{Segments: []markdown.Segment{
					{Text: "2*3*4 see "},
					{Text: "spec", Link: "https://e.com/a_%28b%29"},
				}},
			},
		},
		{
			name:  "soft line breaks join a paragraph",
			input: "one\ntwo\n",
			want: []BlockElement{
				&TextParagraph{Segments: []markdown.Segment{{Text: "one two"}}},
			},
		},
		{
			name:  "unordered and ordered lists",
			input: "- a\n- *b*\n\n1. x\n2. y\n",
			want: []BlockElement{
				&List{Items: [][]markdown.Segment{
					{{Text: "a"}},
					{{Text: "b", Italic: true}},
				}},
				&List{Ordered: true, Items: [][]markdown.Segment{
					{{Text: "x"}},
					{{Text: "y"}},
				}},
			},
		},
		{
			name:  "nested list items are flattened",
			input: "- a\n  - b\n- c\n",
			want: []BlockElement{
				&List{Items: [][]markdown.Segment{{{Text: "a"}}, {{Text: "b"}}, {{Text: "c"}}}},
			},
		},
		{
			name:  "image inside a paragraph is lifted out in order",
			input: "Before ![alt](https://e.com/i.png) after\n",
			want: []BlockElement{
				&TextParagraph{Segments: []markdown.Segment{{Text: "Before"}}},
				&Image{URL: "https://e.com/i.png", Alt: "alt"},
				&TextParagraph{Segments: []markdown.Segment{{Text: "after"}}},
			},
		},
		{
			name:  "thematic break and code block",
			input: "---\n\n```\ncode line\n```\n",
			want: []BlockElement{
				&Divider{},
				&TextParagraph{Segments: []markdown.Segment{{Text: "code line"}}},
			},
		},
		{
			name:  "link",
			input: "see [docs](https://e.com)\n",
			want: []BlockElement{
				&TextParagraph{Segments: []markdown.Segment{
					{Text: "see "},
					{Text: "docs", Link: "https://e.com"},
				}},
			},
		},
		{
			name:  "empty input",
			input: "",
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseMarkdownBlocks(tt.input)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ParseMarkdownBlocks() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
