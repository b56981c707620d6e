// Package docs converts between Google Docs and docsmith's document models.
//
// The read path turns a Docs API document into a StructuredDocument:
// WalkElements converts structural elements into a closed set of content
// blocks, and WalkTabs converts the tab forest, delegating each tab body to
// WalkElements. Both are total: unknown or partial input is skipped, never
// rejected. BuildStructuredDocument ties them together and validates tab
// selection.
//
// The write path parses Markdown into block elements (ParseMarkdownBlocks)
// and compiles them into an ordered batchUpdate request list (Compile). The
// compiler tracks the insertion cursor arithmetically, in UTF-16 code units,
// so the whole list can be submitted as one atomic batch.
//
// Example usage:
//
//	client, err := docs.NewClientForAccountWithProvider(ctx, "default", provider, google.HTTPOptions{})
//	if err != nil {
//	    return err
//	}
//
//	doc, err := client.GetStructuredDocument(ctx, "1ABC123xyz", "")
//	if err != nil {
//	    return err
//	}
//
//	md, err := docs.RenderMarkdown(doc)
package docs
