package docs

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := NewClient(context.Background(), "default", srv.Client(), option.WithEndpoint(srv.URL+"/"))
	require.NoError(t, err)
	return client
}

func TestClient_GetStructuredDocument(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasSuffix(r.URL.Path, "/documents/doc-1"):
			assert.Equal(t, "true", r.URL.Query().Get("includeTabsContent"))
			_, _ = io.WriteString(w, `{
				"documentId": "doc-1",
				"title": "Remote",
				"tabs": [{
					"tabProperties": {"tabId": "t.0", "title": "Main"},
					"documentTab": {"body": {"content": [
						{"paragraph": {"elements": [{"textRun": {"content": "hi\n"}}]}}
					]}}
				}]
			}`)
		case strings.HasSuffix(r.URL.Path, "/files/doc-1"):
			_, _ = io.WriteString(w, `{"id":"doc-1","name":"Remote","mimeType":"application/vnd.google-apps.document","webViewLink":"https://docs.example/doc-1"}`)
		default:
			http.NotFound(w, r)
		}
	})

	doc, err := client.GetStructuredDocument(context.Background(), "doc-1", "")
	require.NoError(t, err)

	assert.Equal(t, "Remote", doc.Metadata.Title)
	assert.Equal(t, "https://docs.example/doc-1", doc.Metadata.Link)
	require.Len(t, doc.Tabs, 1)
	assert.Equal(t, []ContentBlock{NewParagraph(NewTextRun("hi\n"))}, doc.Tabs[0].Content)
	assert.Equal(t, "default", client.Account())
}

func docxFile(t *testing.T, documentXML string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	require.NoError(t, err)
	_, err = io.WriteString(w, documentXML)
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestClient_GetStructuredDocument_DriveFiles(t *testing.T) {
	docx := docxFile(t, `<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>`+
		`<w:p><w:pPr><w:tabs><w:tab w:val="left" w:pos="720"/></w:tabs></w:pPr><w:r><w:t>Quarterly</w:t><w:tab/><w:t>report</w:t></w:r></w:p>`+
		`<w:p><w:r><w:t xml:space="preserve">Revenue &amp; costs</w:t></w:r></w:p>`+
		`</w:body></w:document>`)

	var exported string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasSuffix(r.URL.Path, "/files/report") && r.URL.Query().Get("alt") == "media":
			_, _ = w.Write(docx)
		case strings.HasSuffix(r.URL.Path, "/files/report"):
			_, _ = io.WriteString(w, `{"id":"report","name":"Report.docx","mimeType":"`+MimeTypeDocx+`","webViewLink":"https://drive.example/report"}`)
		case strings.HasSuffix(r.URL.Path, "/files/deck/export"):
			exported = r.URL.Query().Get("mimeType")
			_, _ = io.WriteString(w, "Slide one\nSlide two\n")
		case strings.HasSuffix(r.URL.Path, "/files/deck"):
			_, _ = io.WriteString(w, `{"id":"deck","name":"Deck","mimeType":"`+MimeTypePresentation+`"}`)
		case strings.HasSuffix(r.URL.Path, "/files/blob") && r.URL.Query().Get("alt") == "media":
			_, _ = w.Write([]byte{0xff, 0xfe, 0x00, 0x01})
		case strings.HasSuffix(r.URL.Path, "/files/blob"):
			_, _ = io.WriteString(w, `{"id":"blob","name":"blob.bin","mimeType":"application/octet-stream"}`)
		case strings.Contains(r.URL.Path, "/documents/"):
			t.Errorf("Docs API called for a Drive file: %s", r.URL.Path)
			http.NotFound(w, r)
		default:
			http.NotFound(w, r)
		}
	})
	ctx := context.Background()

	t.Run("word document", func(t *testing.T) {
		doc, err := client.GetStructuredDocument(ctx, "report", "")
		require.NoError(t, err)

		assert.Equal(t, StructuredMetadata{
			ID:       "report",
			Title:    "Report.docx",
			MimeType: MimeTypeDocx,
			Link:     "https://drive.example/report",
		}, doc.Metadata)
		assert.Equal(t, []ContentBlock{NewParagraph(NewTextRun("Quarterly\treport\nRevenue & costs"))}, doc.Content)
		assert.Empty(t, doc.Tabs)
		assert.Empty(t, doc.Images)
	})

	t.Run("tab id is rejected", func(t *testing.T) {
		_, err := client.GetStructuredDocument(ctx, "report", "t.0")
		require.ErrorIs(t, err, ErrTabsUnsupported)
		assert.EqualError(t, err, `tab_id is not supported for non-Google Docs files (File: "Report.docx", Type: `+MimeTypeDocx+`)`)
	})

	t.Run("native presentation is exported", func(t *testing.T) {
		doc, err := client.GetStructuredDocument(ctx, "deck", "")
		require.NoError(t, err)
		assert.Equal(t, "text/plain", exported)
		assert.Equal(t, []ContentBlock{NewParagraph(NewTextRun("Slide one\nSlide two\n"))}, doc.Content)
		assert.Equal(t, "https://drive.google.com/file/d/deck/view", doc.Metadata.Link)
	})

	t.Run("binary content", func(t *testing.T) {
		doc, err := client.GetStructuredDocument(ctx, "blob", "")
		require.NoError(t, err)
		assert.Equal(t, []ContentBlock{NewParagraph(NewTextRun(
			"[Binary or unsupported text encoding for mimeType 'application/octet-stream' - 4 bytes]"))}, doc.Content)
	})
}

func TestFileText(t *testing.T) {
	tests := []struct {
		name     string
		data     []byte
		mimeType string
		want     string
	}{
		{"plain text", []byte("hello\nworld"), "text/plain", "hello\nworld"},
		{"markdown", []byte("# Title"), "text/markdown", "# Title"},
		{"corrupt docx falls back to text", []byte("not a zip"), MimeTypeDocx, "not a zip"},
		{"binary", []byte{0xc3, 0x28}, "image/png", "[Binary or unsupported text encoding for mimeType 'image/png' - 2 bytes]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FileText(tt.data, tt.mimeType))
		})
	}
}

func TestClient_BatchUpdate(t *testing.T) {
	var received struct {
		Requests []map[string]any `json:"requests"`
	}
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/documents/doc-1:batchUpdate"), r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		_, _ = io.WriteString(w, `{"documentId":"doc-1"}`)
	})

	compiled := Compile([]BlockElement{&Divider{}}, 1)
	resp, err := client.BatchUpdate(context.Background(), "doc-1", compiled.Requests)
	require.NoError(t, err)

	assert.Equal(t, "doc-1", resp.DocumentId)
	require.Len(t, received.Requests, 1)
	assert.Contains(t, received.Requests[0], "insertText")
}

func TestClient_Errors(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"error":{"code":404,"message":"Requested entity was not found."}}`)
	})

	_, err := client.GetDocument(context.Background(), "")
	assert.Error(t, err)

	_, err = client.GetDocument(context.Background(), "nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to get document nope")

	_, err = client.GetFileMetadata(context.Background(), "nope")
	assert.Error(t, err)
}
