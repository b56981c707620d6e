// Package markdown parses the lightweight Markdown dialect accepted by the
// Docs and Slides tools.
//
// It provides two parsers:
//   - ParseInline splits a run of text into styled segments (bold, italic,
//     bold+italic, link). Only one style applies per segment.
//   - ParseOutline turns a Markdown document into a presentation outline:
//     the first H1 is the presentation title, each H2 starts a slide, and
//     everything else accumulates into the current slide's body.
//
// Block structure is tokenized with goldmark. Inline content is re-serialized
// into the same dialect ParseInline reads, so styling survives the trip from
// Markdown to slide body text.
package markdown
