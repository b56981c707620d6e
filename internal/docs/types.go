package docs

// DocumentMetadata represents metadata about a Google Drive file
type DocumentMetadata struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	MimeType     string `json:"mimeType"`
	CreatedTime  string `json:"createdTime"`
	ModifiedTime string `json:"modifiedTime"`
	WebViewLink  string `json:"webViewLink,omitempty"`
	Size         int64  `json:"size,omitempty"`
	Owners       []User `json:"owners,omitempty"`
}

// User represents a Google Drive user
type User struct {
	DisplayName  string `json:"displayName"`
	EmailAddress string `json:"emailAddress"`
}

// Block type discriminators used in the JSON form of the content tree.
const (
	BlockParagraph  = "paragraph"
	BlockTable      = "table"
	BlockStructural = "structural"
	BlockHeader     = "header"
	BlockFooter     = "footer"

	ElementTextRun = "text_run"
	ElementImage   = "image"
)

// ContentBlock is one node of the normalized document tree. The set of
// implementations is closed: *Paragraph, *Table, *Structural and
// *HeaderFooter.
type ContentBlock interface {
	BlockType() string
	contentBlock()
}

// ParagraphElement is one element of a paragraph: *TextRun or *ImageRef.
type ParagraphElement interface {
	ElementType() string
	paragraphElement()
}

// Paragraph is a run of text and inline images. It always has at least one
// element.
type Paragraph struct {
	Type     string             `json:"type"`
	Elements []ParagraphElement `json:"elements"`
}

// Table holds rows of cells; each cell holds nested content blocks.
type Table struct {
	Type string     `json:"type"`
	Rows []TableRow `json:"rows"`
}

// TableRow is one row of a Table.
type TableRow struct {
	Cells []TableCell `json:"cells"`
}

// TableCell is one cell of a TableRow.
type TableCell struct {
	Content []ContentBlock `json:"content"`
}

// StructuralKind identifies a Structural block.
type StructuralKind string

const (
	SectionBreak    StructuralKind = "section_break"
	PageBreak       StructuralKind = "page_break"
	HorizontalRule  StructuralKind = "horizontal_rule"
	TableOfContents StructuralKind = "table_of_contents"
)

// Structural is a break, rule or table of contents marker.
type Structural struct {
	Type string         `json:"type"`
	Kind StructuralKind `json:"kind"`
}

// HeaderFooterKind identifies a HeaderFooter block.
type HeaderFooterKind string

const (
	Header HeaderFooterKind = "header"
	Footer HeaderFooterKind = "footer"
)

// HeaderFooter wraps the content of a document header or footer.
type HeaderFooter struct {
	Type    string           `json:"type"`
	Kind    HeaderFooterKind `json:"kind"`
	ID      string           `json:"id,omitempty"`
	Content []ContentBlock   `json:"content"`
}

// TextRun is literal text content, including any newline the source embeds.
type TextRun struct {
	Type    string `json:"type"`
	Content string `json:"content"`
}

// ImageRef is an inline image resolved against the document's image map.
// Width and Height are nil when the source object carries no magnitude.
type ImageRef struct {
	Type        string   `json:"type"`
	ImageID     string   `json:"imageId"`
	Title       string   `json:"title,omitempty"`
	Description string   `json:"description,omitempty"`
	ContentURI  string   `json:"contentUri,omitempty"`
	Width       *float64 `json:"width,omitempty"`
	Height      *float64 `json:"height,omitempty"`
	WidthUnit   *string  `json:"widthUnit,omitempty"`
	HeightUnit  *string  `json:"heightUnit,omitempty"`
}

// ImageMetadata describes an inline object of the document, keyed by its ID.
type ImageMetadata struct {
	ImageID     string   `json:"imageId"`
	Title       string   `json:"title,omitempty"`
	Description string   `json:"description,omitempty"`
	ContentURI  string   `json:"contentUri,omitempty"`
	SourceURI   string   `json:"sourceUri,omitempty"`
	Width       *float64 `json:"width,omitempty"`
	Height      *float64 `json:"height,omitempty"`
	WidthUnit   *string  `json:"widthUnit,omitempty"`
	HeightUnit  *string  `json:"heightUnit,omitempty"`
}

// TabNode is one tab of a document. Level is 0 for root tabs and Index is
// the 1-based position among its siblings.
type TabNode struct {
	TabID     string         `json:"tabId"`
	Title     string         `json:"title"`
	Level     int            `json:"level"`
	Index     int            `json:"index"`
	Content   []ContentBlock `json:"content"`
	ChildTabs []TabNode      `json:"childTabs"`
}

// StructuredMetadata identifies the document a StructuredDocument came from.
type StructuredMetadata struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	MimeType string `json:"mimeType"`
	Link     string `json:"link"`
}

// StructuredDocument is the typed form of a Google Doc. Exactly one of
// Content and Tabs is populated: Tabs when the source exposes a tabs
// collection, Content otherwise.
type StructuredDocument struct {
	Metadata StructuredMetadata       `json:"metadata"`
	Content  []ContentBlock           `json:"content,omitempty"`
	Tabs     []TabNode                `json:"tabs,omitempty"`
	Images   map[string]ImageMetadata `json:"images"`
}

func (*Paragraph) BlockType() string      { return BlockParagraph }
func (*Table) BlockType() string          { return BlockTable }
func (*Structural) BlockType() string     { return BlockStructural }
func (h *HeaderFooter) BlockType() string { return string(h.Kind) }

func (*Paragraph) contentBlock()    {}
func (*Table) contentBlock()        {}
func (*Structural) contentBlock()   {}
func (*HeaderFooter) contentBlock() {}

func (*TextRun) ElementType() string  { return ElementTextRun }
func (*ImageRef) ElementType() string { return ElementImage }

func (*TextRun) paragraphElement()  {}
func (*ImageRef) paragraphElement() {}

// NewParagraph returns a Paragraph holding elements.
func NewParagraph(elements ...ParagraphElement) *Paragraph {
	return &Paragraph{Type: BlockParagraph, Elements: elements}
}

// NewTable returns a Table holding rows.
func NewTable(rows ...TableRow) *Table {
	return &Table{Type: BlockTable, Rows: rows}
}

// NewStructural returns a Structural block of the given kind.
func NewStructural(kind StructuralKind) *Structural {
	return &Structural{Type: BlockStructural, Kind: kind}
}

// NewHeaderFooter returns a HeaderFooter block of the given kind.
func NewHeaderFooter(kind HeaderFooterKind, id string, content []ContentBlock) *HeaderFooter {
	return &HeaderFooter{Type: string(kind), Kind: kind, ID: id, Content: content}
}

// NewTextRun returns a TextRun with content.
func NewTextRun(content string) *TextRun {
	return &TextRun{Type: ElementTextRun, Content: content}
}
