package docs

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"path"
	"sort"
	"strings"
	"unicode/utf8"

	docsapi "google.golang.org/api/docs/v1"
)

// Drive MIME types with special handling when reading a file that is not a
// Google Doc.
const (
	MimeTypePresentation = "application/vnd.google-apps.presentation"
	MimeTypeSpreadsheet  = "application/vnd.google-apps.spreadsheet"
	MimeTypeDocx         = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	MimeTypePptx         = "application/vnd.openxmlformats-officedocument.presentationml.presentation"
	MimeTypeXlsx         = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// MaxDownloadBytes caps the size of a file read through the Drive API.
const MaxDownloadBytes = 20 << 20

// ErrTabsUnsupported is returned when a tab ID is given for a file that is
// not a Google Doc.
var ErrTabsUnsupported = errors.New("tab_id is not supported for non-Google Docs files")

// exportTypes maps native Google Workspace files, which have no binary
// content, to the export format their text is read from.
var exportTypes = map[string]string{
	MimeTypePresentation: "text/plain",
	MimeTypeSpreadsheet:  "text/csv",
}

// ExportMimeType returns the export format for a native Workspace file, or
// "" when the file content can be downloaded directly.
func ExportMimeType(mimeType string) string {
	return exportTypes[mimeType]
}

// DocumentReader is the read side of a Docs account: the document itself,
// its Drive metadata and the raw content of other Drive files.
type DocumentReader interface {
	GetDocument(ctx context.Context, documentID string) (*docsapi.Document, error)
	GetFileMetadata(ctx context.Context, fileID string) (*DocumentMetadata, error)
	DownloadFile(ctx context.Context, fileID, mimeType string) ([]byte, error)
}

// FetchStructuredDocument reads any Drive file as a structured document.
// Google Docs go through the Docs API. Other files are downloaded and their
// text is returned as a single paragraph; tabID must be empty for them.
func FetchStructuredDocument(ctx context.Context, r DocumentReader, documentID, tabID string) (*StructuredDocument, error) {
	meta, err := r.GetFileMetadata(ctx, documentID)
	if err != nil {
		return nil, err
	}

	if meta.MimeType != "" && meta.MimeType != MimeTypeDocument {
		if tabID != "" {
			return nil, &ValidationError{
				Message: fmt.Sprintf("tab_id is not supported for non-Google Docs files (File: %q, Type: %s)", meta.Name, meta.MimeType),
				Err:     ErrTabsUnsupported,
			}
		}
		data, err := r.DownloadFile(ctx, documentID, meta.MimeType)
		if err != nil {
			return nil, err
		}
		return BuildFileDocument(meta, data), nil
	}

	doc, err := r.GetDocument(ctx, documentID)
	if err != nil {
		return nil, err
	}
	return BuildStructuredDocument(Source{Document: doc, Metadata: meta}, tabID)
}

// BuildFileDocument wraps the text of a downloaded Drive file in a
// structured document with one paragraph.
func BuildFileDocument(meta *DocumentMetadata, data []byte) *StructuredDocument {
	link := meta.WebViewLink
	if link == "" {
		link = "https://drive.google.com/file/d/" + meta.ID + "/view"
	}
	return &StructuredDocument{
		Metadata: StructuredMetadata{
			ID:       meta.ID,
			Title:    meta.Name,
			MimeType: meta.MimeType,
			Link:     link,
		},
		Content: []ContentBlock{NewParagraph(NewTextRun(FileText(data, meta.MimeType)))},
		Images:  map[string]ImageMetadata{},
	}
}

// FileText extracts readable text from file content. Office Open XML files
// yield their text runs, valid UTF-8 is returned as is, and anything else is
// described by a placeholder.
func FileText(data []byte, mimeType string) string {
	if text, ok := officeText(data, mimeType); ok {
		return text
	}
	if utf8.Valid(data) {
		return string(data)
	}
	return fmt.Sprintf("[Binary or unsupported text encoding for mimeType '%s' - %d bytes]", mimeType, len(data))
}

func officeText(data []byte, mimeType string) (string, bool) {
	var parts []string
	switch mimeType {
	case MimeTypeDocx:
		parts = []string{"word/document.xml"}
	case MimeTypePptx:
		parts = []string{"ppt/slides/slide*.xml"}
	case MimeTypeXlsx:
		parts = []string{"xl/sharedStrings.xml"}
	default:
		return "", false
	}

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", false
	}

	var files []*zip.File
	for _, f := range zr.File {
		for _, pattern := range parts {
			if ok, _ := path.Match(pattern, f.Name); ok {
				files = append(files, f)
			}
		}
	}
	if len(files) == 0 {
		return "", false
	}
	sort.Slice(files, func(i, j int) bool { return slideLess(files[i].Name, files[j].Name) })

	var texts []string
	for _, f := range files {
		text, err := xmlText(f)
		if err != nil {
			return "", false
		}
		if text != "" {
			texts = append(texts, text)
		}
	}
	return strings.Join(texts, "\n"), true
}

// slideLess orders slide2.xml before slide10.xml.
func slideLess(a, b string) bool {
	if len(a) != len(b) {
		return len(a) < len(b)
	}
	return a < b
}

// xmlText collects the character data of text elements (w:t, a:t, t),
// starting a new line at each paragraph or shared string.
func xmlText(f *zip.File) (string, error) {
	rc, err := f.Open()
	if err != nil {
		return "", err
	}
	defer rc.Close()

	var (
		sb     strings.Builder
		line   strings.Builder
		inRun  bool
		inText bool
	)
	flush := func() {
		if line.Len() > 0 {
			if sb.Len() > 0 {
				sb.WriteByte('\n')
			}
			sb.WriteString(line.String())
			line.Reset()
		}
	}

	dec := xml.NewDecoder(io.LimitReader(rc, MaxDownloadBytes))
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "r":
				inRun = true
			case "t":
				inText = true
			case "tab":
				// Tab stops in paragraph properties are not text.
				if inRun {
					line.WriteByte('\t')
				}
			case "br":
				line.WriteByte('\n')
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "r":
				inRun = false
			case "t":
				inText = false
			case "p", "si":
				flush()
			}
		case xml.CharData:
			if inText {
				line.Write(t)
			}
		}
	}
	flush()
	return sb.String(), nil
}
