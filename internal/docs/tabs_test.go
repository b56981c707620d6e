package docs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	docsapi "google.golang.org/api/docs/v1"
)

func rawTab(id, title, text string, children ...*RawTab) *RawTab {
	return &RawTab{
		TabProperties: &docsapi.TabProperties{TabId: id, Title: title},
		DocumentTab: &docsapi.DocumentTab{Body: &docsapi.Body{Content: []*docsapi.StructuralElement{
			paragraphElement(textElement(text)),
		}}},
		ChildTabs: children,
	}
}

func TestWalkTabs_Forest(t *testing.T) {
	tabs := []*RawTab{
		rawTab("t.a", "A", "a\n", rawTab("t.a1", "A1", "a1\n")),
		rawTab("t.b", "B", "b\n"),
	}

	nodes := WalkTabs(tabs, 0, "", nil)

	require.Len(t, nodes, 2)
	assert.Equal(t, "t.a", nodes[0].TabID)
	assert.Equal(t, 0, nodes[0].Level)
	assert.Equal(t, 1, nodes[0].Index)
	assert.Equal(t, []ContentBlock{NewParagraph(NewTextRun("a\n"))}, nodes[0].Content)

	require.Len(t, nodes[0].ChildTabs, 1)
	child := nodes[0].ChildTabs[0]
	assert.Equal(t, "A1", child.Title)
	assert.Equal(t, 1, child.Level)
	assert.Equal(t, 1, child.Index)
	assert.Empty(t, child.ChildTabs)

	assert.Equal(t, 2, nodes[1].Index)
}

func TestWalkTabs_TargetIsolation(t *testing.T) {
	tabs := []*RawTab{
		rawTab("t.root", "Root", "root\n",
			rawTab("t.child", "Child", "child\n",
				rawTab("t.grandchild", "Grandchild", "grandchild\n"),
			),
		),
		rawTab("t.other", "Other", "other\n"),
	}

	nodes := WalkTabs(tabs, 0, "t.grandchild", nil)

	require.Len(t, nodes, 1)
	assert.Equal(t, "t.grandchild", nodes[0].TabID)
	assert.Equal(t, 2, nodes[0].Level)
	assert.Equal(t, []ContentBlock{NewParagraph(NewTextRun("grandchild\n"))}, nodes[0].Content)
}

func TestWalkTabs_TargetNotFound(t *testing.T) {
	tabs := []*RawTab{rawTab("t.a", "A", "a\n")}

	assert.Empty(t, WalkTabs(tabs, 0, "t.missing", nil))
}

func TestWalkTabs_SecondaryLocationAppendedAfterPrimary(t *testing.T) {
	tab := rawTab("t.p", "Parent", "p\n", rawTab("t.c1", "Primary", "c1\n"))
	tab.Tabs = []*RawTab{rawTab("t.c2", "Secondary", "c2\n")}

	nodes := WalkTabs([]*RawTab{tab}, 0, "", nil)

	require.Len(t, nodes, 1)
	require.Len(t, nodes[0].ChildTabs, 2)
	assert.Equal(t, "t.c1", nodes[0].ChildTabs[0].TabID)
	assert.Equal(t, "t.c2", nodes[0].ChildTabs[1].TabID)

	found := WalkTabs([]*RawTab{tab}, 0, "t.c2", nil)
	require.Len(t, found, 1)
	assert.Equal(t, "Secondary", found[0].Title)
}

func TestWalkTabs_Defaults(t *testing.T) {
	nodes := WalkTabs([]*RawTab{nil, {}, {TabProperties: &docsapi.TabProperties{}}}, 0, "", nil)

	require.Len(t, nodes, 2)
	assert.Equal(t, "unknown", nodes[0].TabID)
	assert.Equal(t, "Tab 2", nodes[0].Title)
	assert.Equal(t, "Tab 3", nodes[1].Title)
	assert.NotNil(t, nodes[0].Content)
	assert.Empty(t, nodes[0].Content)
}

func TestWalkTabs_HeadersAndFootersFollowBody(t *testing.T) {
	tab := rawTab("t.a", "A", "body\n")
	tab.DocumentTab.Footers = map[string]docsapi.Footer{
		"f.1": {Content: []*docsapi.StructuralElement{paragraphElement(textElement("foot\n"))}},
	}

	nodes := WalkTabs([]*RawTab{tab}, 0, "", nil)

	require.Len(t, nodes, 1)
	require.Len(t, nodes[0].Content, 2)
	assert.Equal(t, BlockFooter, nodes[0].Content[1].BlockType())
}

func TestDecodeDocument(t *testing.T) {
	payload := []byte(`{
		"documentId": "doc-1",
		"title": "Doc",
		"tabs": [{
			"tabProperties": {"tabId": "t.0", "title": "First"},
			"documentTab": {"body": {"content": [
				{"paragraph": {"elements": [{"textRun": {"content": "hi\n"}}]}}
			]}},
			"childTabs": [{"tabProperties": {"tabId": "t.1"}}],
			"tabs": [{"tabProperties": {"tabId": "t.2"}}]
		}]
	}`)

	doc, tabs, err := DecodeDocument(payload)
	require.NoError(t, err)
	assert.Equal(t, "doc-1", doc.DocumentId)
	require.Len(t, doc.Tabs, 1)

	require.Len(t, tabs, 1)
	require.Len(t, tabs[0].ChildTabs, 1)
	require.Len(t, tabs[0].Tabs, 1)
	assert.Equal(t, "t.2", tabs[0].Tabs[0].TabProperties.TabId)

	_, _, err = DecodeDocument([]byte(`{`))
	assert.Error(t, err)
}

func TestRawTabs(t *testing.T) {
	raw := RawTabs([]*docsapi.Tab{
		{TabProperties: &docsapi.TabProperties{TabId: "t.0"}, ChildTabs: []*docsapi.Tab{{TabProperties: &docsapi.TabProperties{TabId: "t.1"}}}},
		nil,
	})

	require.Len(t, raw, 1)
	require.Len(t, raw[0].ChildTabs, 1)
	assert.Equal(t, "t.1", raw[0].ChildTabs[0].TabProperties.TabId)
	assert.Nil(t, RawTabs(nil))
}
