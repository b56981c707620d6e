package docs

import (
	"encoding/json"
	"fmt"
	"log/slog"

	docsapi "google.golang.org/api/docs/v1"

	"github.com/teemow/docsmith/internal/logging"
)

// RawTab is a document tab as it appears on the wire. Besides the childTabs
// collection modelled by the client library it also decodes an alternate
// nested "tabs" key, which is walked after childTabs.
type RawTab struct {
	TabProperties *docsapi.TabProperties `json:"tabProperties,omitempty"`
	DocumentTab   *docsapi.DocumentTab   `json:"documentTab,omitempty"`
	ChildTabs     []*RawTab              `json:"childTabs,omitempty"`
	Tabs          []*RawTab              `json:"tabs,omitempty"`
}

// RawTabs converts the typed tabs of a document into RawTabs.
func RawTabs(tabs []*docsapi.Tab) []*RawTab {
	if tabs == nil {
		return nil
	}
	raw := make([]*RawTab, 0, len(tabs))
	for _, tab := range tabs {
		if tab == nil {
			continue
		}
		raw = append(raw, &RawTab{
			TabProperties: tab.TabProperties,
			DocumentTab:   tab.DocumentTab,
			ChildTabs:     RawTabs(tab.ChildTabs),
		})
	}
	return raw
}

// rawDocument captures the keys of a document payload that the typed client
// library drops.
type rawDocument struct {
	Tabs []*RawTab `json:"tabs"`
}

// DecodeDocument decodes a Docs API document payload. The returned tabs keep
// every nested tab collection found in the payload.
func DecodeDocument(data []byte) (*docsapi.Document, []*RawTab, error) {
	var doc docsapi.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, nil, fmt.Errorf("failed to decode document: %w", err)
	}
	var raw rawDocument
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, nil, fmt.Errorf("failed to decode document tabs: %w", err)
	}
	return &doc, raw.Tabs, nil
}

// WalkTabs converts a tab forest into TabNodes. Level is the depth of tabs.
//
// When targetTabID is set, only the matching tab is returned, wherever it
// sits in the forest; non-matching tabs are traversed but never emitted.
// An empty result for a non-empty target means the tab does not exist.
func WalkTabs(tabs []*RawTab, level int, targetTabID string, images map[string]ImageMetadata) []TabNode {
	var nodes []TabNode

	for i, tab := range tabs {
		if tab == nil {
			continue
		}

		id := "unknown"
		title := fmt.Sprintf("Tab %d", i+1)
		if props := tab.TabProperties; props != nil {
			if props.TabId != "" {
				id = props.TabId
			}
			if props.Title != "" {
				title = props.Title
			}
		}

		if len(tab.ChildTabs) > 0 && len(tab.Tabs) > 0 {
			slog.Debug("tab has both childTabs and tabs populated, walking childTabs first",
				logging.TabID(id),
				slog.Int("child_tabs", len(tab.ChildTabs)),
				slog.Int("tabs", len(tab.Tabs)))
		}

		if targetTabID != "" && id != targetTabID {
			nodes = append(nodes, WalkTabs(tab.ChildTabs, level+1, targetTabID, images)...)
			nodes = append(nodes, WalkTabs(tab.Tabs, level+1, targetTabID, images)...)
			continue
		}

		children := WalkTabs(tab.ChildTabs, level+1, targetTabID, images)
		children = append(children, WalkTabs(tab.Tabs, level+1, targetTabID, images)...)
		if children == nil {
			children = []TabNode{}
		}

		nodes = append(nodes, TabNode{
			TabID:     id,
			Title:     title,
			Level:     level,
			Index:     i + 1,
			Content:   tabContent(tab.DocumentTab, images),
			ChildTabs: children,
		})
	}

	return nodes
}

func tabContent(tab *docsapi.DocumentTab, images map[string]ImageMetadata) []ContentBlock {
	content := []ContentBlock{}
	if tab == nil {
		return content
	}
	if tab.Body != nil {
		content = append(content, WalkElements(tab.Body.Content, images)...)
	}
	return append(content, headerFooterBlocks(tab.Headers, tab.Footers, images)...)
}

// tabImages collects the inline objects of every tab in the forest.
func tabImages(dst map[string]ImageMetadata, tabs []*RawTab) {
	for _, tab := range tabs {
		if tab == nil {
			continue
		}
		if tab.DocumentTab != nil {
			mergeImages(dst, tab.DocumentTab.InlineObjects)
		}
		tabImages(dst, tab.ChildTabs)
		tabImages(dst, tab.Tabs)
	}
}
