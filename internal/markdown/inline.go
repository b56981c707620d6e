package markdown

import (
	"regexp"
	"strings"
)

// Segment is a run of text carrying at most one inline style.
// A plain run has Bold and Italic false and an empty Link.
type Segment struct {
	Text   string `json:"text"`
	Bold   bool   `json:"bold"`
	Italic bool   `json:"italic"`
	Link   string `json:"link,omitempty"`
}

// Styled reports whether the segment carries any formatting.
func (s Segment) Styled() bool {
	return s.Bold || s.Italic || s.Link != ""
}

// Alternatives are ordered longest-first so that "**x**" is never read as
// two italic markers. RE2 alternation is leftmost-first, so at any position
// the earliest listed alternative that matches wins.
var inlinePattern = regexp.MustCompile(
	`\*\*\*(.+?)\*\*\*` + // 1: bold+italic
		`|___(.+?)___` + // 2: bold+italic
		`|\*\*(.+?)\*\*` + // 3: bold
		`|__(.+?)__` + // 4: bold
		`|\*(.+?)\*` + // 5: italic
		`|_(.+?)_` + // 6: italic
		`|\[([^\]]+)\]\(([^)\s]+)\)`, // 7,8: link text, url
)

// Backslash-escaped ASCII punctuation is held in this private use block
// while the pattern runs, so an escaped marker never opens a style.
const escapeBase = 0xE000

// ParseInline splits text into styled segments. Nesting is not supported:
// each segment carries exactly one style (bold, italic, bold+italic or link).
// Text between matches is returned as plain segments. A backslash before an
// ASCII punctuation character makes it literal. Empty input yields no
// segments.
func ParseInline(text string) []Segment {
	if text == "" {
		return nil
	}

	text, escaped := protectEscapes(text)
	segments := parseSegments(text)
	if escaped {
		for i := range segments {
			segments[i].Text = restoreEscapes(segments[i].Text)
			segments[i].Link = restoreEscapes(segments[i].Link)
		}
	}
	return segments
}

func parseSegments(text string) []Segment {
	matches := inlinePattern.FindAllStringSubmatchIndex(text, -1)
	if len(matches) == 0 {
		return []Segment{{Text: text}}
	}

	var segments []Segment
	last := 0
	for _, m := range matches {
		if m[0] > last {
			segments = append(segments, Segment{Text: text[last:m[0]]})
		}
		segments = append(segments, segmentFromMatch(text, m))
		last = m[1]
	}
	if last < len(text) {
		segments = append(segments, Segment{Text: text[last:]})
	}

	return segments
}

func segmentFromMatch(text string, m []int) Segment {
	group := func(n int) (string, bool) {
		start, end := m[2*n], m[2*n+1]
		if start < 0 {
			return "", false
		}
		return text[start:end], true
	}

	if s, ok := group(1); ok {
		return Segment{Text: s, Bold: true, Italic: true}
	}
	if s, ok := group(2); ok {
		return Segment{Text: s, Bold: true, Italic: true}
	}
	if s, ok := group(3); ok {
		return Segment{Text: s, Bold: true}
	}
	if s, ok := group(4); ok {
		return Segment{Text: s, Bold: true}
	}
	if s, ok := group(5); ok {
		return Segment{Text: s, Italic: true}
	}
	if s, ok := group(6); ok {
		return Segment{Text: s, Italic: true}
	}
	label, _ := group(7)
	url, _ := group(8)
	return Segment{Text: label, Link: url}
}

// PlainText concatenates the text of all segments.
func PlainText(segments []Segment) string {
	var sb strings.Builder
	for _, s := range segments {
		sb.WriteString(s.Text)
	}
	return sb.String()
}

func isASCIIPunct(c byte) bool {
	return c >= '!' && c <= '/' || c >= ':' && c <= '@' || c >= '[' && c <= '`' || c >= '{' && c <= '~'
}

func protectEscapes(text string) (string, bool) {
	if !strings.Contains(text, `\`) {
		return text, false
	}
	var sb strings.Builder
	escaped := false
	for i := 0; i < len(text); i++ {
		if text[i] == '\\' && i+1 < len(text) && isASCIIPunct(text[i+1]) {
			sb.WriteRune(rune(escapeBase + int(text[i+1])))
			escaped = true
			i++
			continue
		}
		sb.WriteByte(text[i])
	}
	return sb.String(), escaped
}

func restoreEscapes(text string) string {
	return strings.Map(func(r rune) rune {
		if r > escapeBase && r < escapeBase+0x80 && isASCIIPunct(byte(r-escapeBase)) {
			return r - escapeBase
		}
		return r
	}, text)
}

// dialectMarkers are the characters ParseInline treats as markup.
const dialectMarkers = "*_[]()\\"

// EscapeInline returns text with every marker character escaped, so that
// ParseInline reads it back as one plain segment.
func EscapeInline(text string) string {
	if !strings.ContainsAny(text, dialectMarkers) {
		return text
	}
	var sb strings.Builder
	for i := 0; i < len(text); i++ {
		if strings.IndexByte(dialectMarkers, text[i]) >= 0 {
			sb.WriteByte('\\')
		}
		sb.WriteByte(text[i])
	}
	return sb.String()
}
