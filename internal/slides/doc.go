// Package slides builds Google Slides presentations from Markdown outlines.
//
// A Builder turns each markdown.SlideRecord into one batch of Slides API
// requests (createSlide, createShape, insertText, updateTextStyle and
// createImage). Object IDs come from an IDGenerator owned by the build, so
// two builds never share counters.
//
// CreateDeck submits one batch per slide. A failing slide becomes a warning
// on the DeckResult and the remaining slides are still created.
package slides
