package docs

import (
	"sort"

	docsapi "google.golang.org/api/docs/v1"
)

// WalkElements converts Docs API structural elements into content blocks.
//
// Inline images are resolved against images by inline object ID; references
// that cannot be resolved are dropped. Elements of unknown or empty shape are
// skipped. Empty paragraphs and tables without rows are never emitted.
// WalkElements never fails: every missing field defaults to empty.
func WalkElements(elements []*docsapi.StructuralElement, images map[string]ImageMetadata) []ContentBlock {
	var blocks []ContentBlock
	for _, element := range elements {
		blocks = append(blocks, walkElement(element, images)...)
	}
	return blocks
}

func walkElement(element *docsapi.StructuralElement, images map[string]ImageMetadata) []ContentBlock {
	if element == nil {
		return nil
	}

	switch {
	case element.Paragraph != nil:
		return walkParagraph(element.Paragraph, images)
	case element.Table != nil:
		if table := walkTable(element.Table, images); table != nil {
			return []ContentBlock{table}
		}
	case element.SectionBreak != nil:
		return []ContentBlock{NewStructural(SectionBreak)}
	case element.TableOfContents != nil:
		return []ContentBlock{NewStructural(TableOfContents)}
	}

	return nil
}

// walkParagraph returns the paragraph's text and images as a Paragraph.
// Page breaks and horizontal rules are paragraph elements in the Docs API;
// they split the paragraph and surface as Structural blocks in place.
func walkParagraph(para *docsapi.Paragraph, images map[string]ImageMetadata) []ContentBlock {
	var blocks []ContentBlock
	var elements []ParagraphElement

	flush := func() {
		if len(elements) > 0 {
			blocks = append(blocks, NewParagraph(elements...))
			elements = nil
		}
	}

	for _, elem := range para.Elements {
		if elem == nil {
			continue
		}
		switch {
		case elem.TextRun != nil:
			elements = append(elements, NewTextRun(elem.TextRun.Content))
		case elem.InlineObjectElement != nil:
			if ref := resolveImage(elem.InlineObjectElement.InlineObjectId, images); ref != nil {
				elements = append(elements, ref)
			}
		case elem.PageBreak != nil:
			flush()
			blocks = append(blocks, NewStructural(PageBreak))
		case elem.HorizontalRule != nil:
			flush()
			blocks = append(blocks, NewStructural(HorizontalRule))
		}
	}
	flush()

	return blocks
}

func resolveImage(id string, images map[string]ImageMetadata) *ImageRef {
	meta, ok := images[id]
	if !ok {
		return nil
	}
	return &ImageRef{
		Type:        ElementImage,
		ImageID:     id,
		Title:       meta.Title,
		Description: meta.Description,
		ContentURI:  meta.ContentURI,
		Width:       meta.Width,
		Height:      meta.Height,
		WidthUnit:   meta.WidthUnit,
		HeightUnit:  meta.HeightUnit,
	}
}

// walkTable recurses into every cell. Rows whose cells are all empty are
// dropped, and so is a table left without rows.
func walkTable(table *docsapi.Table, images map[string]ImageMetadata) *Table {
	var rows []TableRow
	for _, row := range table.TableRows {
		if row == nil {
			continue
		}

		var cells []TableCell
		nonEmpty := 0
		for _, cell := range row.TableCells {
			if cell == nil {
				continue
			}
			content := WalkElements(cell.Content, images)
			if len(content) > 0 {
				nonEmpty++
			}
			cells = append(cells, TableCell{Content: content})
		}

		if nonEmpty == 0 {
			continue
		}
		rows = append(rows, TableRow{Cells: cells})
	}

	if len(rows) == 0 {
		return nil
	}
	return NewTable(rows...)
}

// WalkHeaderFooter walks the content of one header or footer and wraps it.
// It returns nil when the content produces no blocks.
func WalkHeaderFooter(kind HeaderFooterKind, id string, content []*docsapi.StructuralElement, images map[string]ImageMetadata) *HeaderFooter {
	blocks := WalkElements(content, images)
	if len(blocks) == 0 {
		return nil
	}
	return NewHeaderFooter(kind, id, blocks)
}

// headerFooterBlocks walks every header, then every footer, each group
// ordered by ID.
func headerFooterBlocks(headers map[string]docsapi.Header, footers map[string]docsapi.Footer, images map[string]ImageMetadata) []ContentBlock {
	var blocks []ContentBlock

	for _, id := range sortedKeys(headers) {
		if hf := WalkHeaderFooter(Header, id, headers[id].Content, images); hf != nil {
			blocks = append(blocks, hf)
		}
	}
	for _, id := range sortedKeys(footers) {
		if hf := WalkHeaderFooter(Footer, id, footers[id].Content, images); hf != nil {
			blocks = append(blocks, hf)
		}
	}

	return blocks
}

// UntitledImage is the title of images that carry none.
const UntitledImage = "Untitled Image"

// ImagesFromInlineObjects builds the image metadata map from a document's
// inline objects. Objects without an embedded object are skipped.
func ImagesFromInlineObjects(objects map[string]docsapi.InlineObject) map[string]ImageMetadata {
	images := make(map[string]ImageMetadata, len(objects))
	mergeImages(images, objects)
	return images
}

func mergeImages(dst map[string]ImageMetadata, objects map[string]docsapi.InlineObject) {
	for id, obj := range objects {
		if obj.InlineObjectProperties == nil || obj.InlineObjectProperties.EmbeddedObject == nil {
			continue
		}
		embedded := obj.InlineObjectProperties.EmbeddedObject

		meta := ImageMetadata{
			ImageID:     id,
			Title:       embedded.Title,
			Description: embedded.Description,
		}
		if meta.Title == "" {
			meta.Title = UntitledImage
		}
		if obj.ObjectId != "" {
			meta.ImageID = obj.ObjectId
		}
		if embedded.ImageProperties != nil {
			meta.ContentURI = embedded.ImageProperties.ContentUri
			meta.SourceURI = embedded.ImageProperties.SourceUri
		}
		if embedded.Size != nil {
			meta.Width, meta.WidthUnit = dimension(embedded.Size.Width)
			meta.Height, meta.HeightUnit = dimension(embedded.Size.Height)
		}

		dst[id] = meta
	}
}

func dimension(d *docsapi.Dimension) (*float64, *string) {
	if d == nil || d.Magnitude == 0 {
		return nil, nil
	}
	magnitude := d.Magnitude
	if d.Unit == "" {
		return &magnitude, nil
	}
	unit := d.Unit
	return &magnitude, &unit
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
