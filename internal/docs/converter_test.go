package docs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderMarkdown(t *testing.T) {
	width := 100.0
	tests := []struct {
		name     string
		doc      *StructuredDocument
		expected string
		wantErr  bool
	}{
		{
			name:    "Nil document",
			doc:     nil,
			wantErr: true,
		},
		{
			name: "Simple document with title",
			doc: &StructuredDocument{
				Metadata: StructuredMetadata{Title: "Test Document"},
				Content:  []ContentBlock{NewParagraph(NewTextRun("This is a test.\n"))},
			},
			expected: "# Test Document\n\nThis is a test.\n\n",
		},
		{
			name: "Images, rules and blank paragraphs",
			doc: &StructuredDocument{
				Content: []ContentBlock{
					NewParagraph(&ImageRef{Type: ElementImage, ImageID: "i", Title: "Logo", ContentURI: "https://c/1", Width: &width}),
					NewParagraph(NewTextRun("\n")),
					NewStructural(HorizontalRule),
					NewStructural(SectionBreak),
				},
			},
			expected: "![Logo](https://c/1)\n\n---\n\n",
		},
		{
			name: "Table",
			doc: &StructuredDocument{
				Content: []ContentBlock{NewTable(
					TableRow{Cells: []TableCell{
						{Content: []ContentBlock{NewParagraph(NewTextRun("Name\n"))}},
						{Content: []ContentBlock{NewParagraph(NewTextRun("Age\n"))}},
					}},
					TableRow{Cells: []TableCell{
						{Content: []ContentBlock{NewParagraph(NewTextRun("Ann\n"))}},
						{},
					}},
				)},
			},
			expected: "| Name | Age |\n| --- | --- |\n| Ann |  |\n\n",
		},
		{
			name: "Tabs nest headings",
			doc: &StructuredDocument{
				Metadata: StructuredMetadata{Title: "Doc"},
				Tabs: []TabNode{{
					Title:   "First",
					Content: []ContentBlock{NewParagraph(NewTextRun("one\n"))},
					ChildTabs: []TabNode{{
						Title:   "Child",
						Level:   1,
						Content: []ContentBlock{NewParagraph(NewTextRun("two\n"))},
					}},
				}},
			},
			expected: "# Doc\n\n## First\n\none\n\n### Child\n\ntwo\n\n",
		},
		{
			name: "Header is quoted",
			doc: &StructuredDocument{
				Content: []ContentBlock{NewHeaderFooter(Header, "h", []ContentBlock{NewParagraph(NewTextRun("Confidential\n"))})},
			},
			expected: "> Confidential\n\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := RenderMarkdown(tt.doc)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestRenderPlainText(t *testing.T) {
	_, err := RenderPlainText(nil)
	require.Error(t, err)

	text, err := RenderPlainText(&StructuredDocument{
		Metadata: StructuredMetadata{Title: "Doc"},
		Tabs: []TabNode{{
			Title: "First",
			Content: []ContentBlock{
				NewParagraph(NewTextRun("Hello "), &ImageRef{Type: ElementImage}, NewTextRun("world\n")),
				NewTable(TableRow{Cells: []TableCell{
					{Content: []ContentBlock{NewParagraph(NewTextRun("a\n"))}},
					{Content: []ContentBlock{NewParagraph(NewTextRun("b\n"))}},
				}}),
			},
			ChildTabs: []TabNode{{Title: "Nested", Level: 1, Content: []ContentBlock{NewParagraph(NewTextRun("deep\n"))}}},
		}},
	})
	require.NoError(t, err)

	assert.Equal(t, "Doc\n\n=== First ===\n\nHello world\na\tb\t\n  === Nested ===\n\ndeep\n\n\n", text)
}
