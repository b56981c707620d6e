package docs

import (
	"fmt"
	"strings"
)

// RenderMarkdown renders a structured document as Markdown.
// The document title becomes an H1 and each tab a heading one level deeper
// than its parent tab, starting at H2.
func RenderMarkdown(doc *StructuredDocument) (string, error) {
	if doc == nil {
		return "", fmt.Errorf("document is nil")
	}

	var md strings.Builder

	if doc.Metadata.Title != "" {
		md.WriteString("# ")
		md.WriteString(doc.Metadata.Title)
		md.WriteString("\n\n")
	}

	if len(doc.Tabs) > 0 {
		renderTabsMarkdown(&md, doc.Tabs, 2)
	} else {
		renderBlocksMarkdown(&md, doc.Content)
	}

	return md.String(), nil
}

func renderTabsMarkdown(md *strings.Builder, tabs []TabNode, headingLevel int) {
	for _, tab := range tabs {
		md.WriteString(strings.Repeat("#", min(headingLevel, 6)))
		md.WriteString(" ")
		md.WriteString(tab.Title)
		md.WriteString("\n\n")

		renderBlocksMarkdown(md, tab.Content)
		renderTabsMarkdown(md, tab.ChildTabs, headingLevel+1)
	}
}

func renderBlocksMarkdown(md *strings.Builder, blocks []ContentBlock) {
	for _, block := range blocks {
		switch b := block.(type) {
		case *Paragraph:
			text := strings.TrimRight(paragraphMarkdown(b), "\n")
			if strings.TrimSpace(text) == "" {
				continue
			}
			md.WriteString(text)
			md.WriteString("\n\n")
		case *Table:
			renderTableMarkdown(md, b)
		case *Structural:
			switch b.Kind {
			case HorizontalRule, PageBreak:
				md.WriteString("---\n\n")
			}
		case *HeaderFooter:
			var inner strings.Builder
			renderBlocksMarkdown(&inner, b.Content)
			for _, line := range strings.Split(strings.TrimRight(inner.String(), "\n"), "\n") {
				md.WriteString("> ")
				md.WriteString(line)
				md.WriteString("\n")
			}
			md.WriteString("\n")
		}
	}
}

func paragraphMarkdown(p *Paragraph) string {
	var sb strings.Builder
	for _, elem := range p.Elements {
		switch e := elem.(type) {
		case *TextRun:
			sb.WriteString(e.Content)
		case *ImageRef:
			alt := e.Title
			if alt == "" {
				alt = e.Description
			}
			fmt.Fprintf(&sb, "![%s](%s)", alt, e.ContentURI)
		}
	}
	return sb.String()
}

// renderTableMarkdown writes a pipe table. The first row is the header row.
func renderTableMarkdown(md *strings.Builder, table *Table) {
	for rowIndex, row := range table.Rows {
		md.WriteString("|")
		for _, cell := range row.Cells {
			md.WriteString(" ")
			md.WriteString(cellText(cell, paragraphMarkdown))
			md.WriteString(" |")
		}
		md.WriteString("\n")

		if rowIndex == 0 {
			md.WriteString("|")
			for range row.Cells {
				md.WriteString(" --- |")
			}
			md.WriteString("\n")
		}
	}
	md.WriteString("\n")
}

// cellText flattens the paragraphs of a cell onto one line.
func cellText(cell TableCell, render func(*Paragraph) string) string {
	var parts []string
	for _, block := range cell.Content {
		if p, ok := block.(*Paragraph); ok {
			if t := strings.TrimSpace(strings.ReplaceAll(render(p), "\n", " ")); t != "" {
				parts = append(parts, t)
			}
		}
	}
	return strings.Join(parts, " ")
}

// RenderPlainText extracts the text of a structured document. Tabs are
// introduced by "=== title ===" banners, indented by nesting level.
func RenderPlainText(doc *StructuredDocument) (string, error) {
	if doc == nil {
		return "", fmt.Errorf("document is nil")
	}

	var text strings.Builder

	if doc.Metadata.Title != "" {
		text.WriteString(doc.Metadata.Title)
		text.WriteString("\n\n")
	}

	if len(doc.Tabs) > 0 {
		renderTabsText(&text, doc.Tabs)
	} else {
		renderBlocksText(&text, doc.Content)
	}

	return text.String(), nil
}

func renderTabsText(text *strings.Builder, tabs []TabNode) {
	for _, tab := range tabs {
		text.WriteString(strings.Repeat("  ", tab.Level))
		fmt.Fprintf(text, "=== %s ===\n\n", tab.Title)

		renderBlocksText(text, tab.Content)
		renderTabsText(text, tab.ChildTabs)

		text.WriteString("\n")
	}
}

func renderBlocksText(text *strings.Builder, blocks []ContentBlock) {
	for _, block := range blocks {
		switch b := block.(type) {
		case *Paragraph:
			text.WriteString(paragraphText(b))
		case *Table:
			for _, row := range b.Rows {
				for _, cell := range row.Cells {
					text.WriteString(cellText(cell, paragraphText))
					text.WriteString("\t")
				}
				text.WriteString("\n")
			}
		case *HeaderFooter:
			renderBlocksText(text, b.Content)
		}
	}
}

func paragraphText(p *Paragraph) string {
	var sb strings.Builder
	for _, elem := range p.Elements {
		if run, ok := elem.(*TextRun); ok {
			sb.WriteString(run.Content)
		}
	}
	return sb.String()
}
