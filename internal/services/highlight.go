package services

import (
	"html"
	"sort"
	"strings"
	"unicode/utf8"
)

// HighlightSnippet renders the first maxLen characters of text as an HTML
// snippet with each keyword occurrence wrapped in <mark> tags. The snippet is
// escaped before any matching, so markup in the source text cannot survive as
// live HTML. Longer keywords claim their spans first, which keeps a shorter
// keyword (e.g. "node") from splitting a longer one ("node.js").
func HighlightSnippet(text string, keywords []string, maxLen int) string {
	snippet := text
	// Truncate on rune boundaries so multi-byte text is never cut mid-rune
	if maxLen > 0 && utf8.RuneCountInString(snippet) > maxLen {
		runes := []rune(snippet)
		snippet = string(runes[:maxLen])
	}

	safe := html.EscapeString(snippet)
	if len(keywords) == 0 {
		return safe
	}

	unique := make(map[string]struct{}, len(keywords))
	for _, kw := range keywords {
		if kw != "" {
			unique[kw] = struct{}{}
		}
	}

	ordered := make([]string, 0, len(unique))
	for kw := range unique {
		ordered = append(ordered, kw)
	}
	sort.Slice(ordered, func(i, j int) bool {
		if len(ordered[i]) != len(ordered[j]) {
			return len(ordered[i]) > len(ordered[j])
		}
		return ordered[i] < ordered[j]
	})

	type span struct {
		start, end int
	}
	var spans []span
	overlaps := func(start, end int) bool {
		for _, s := range spans {
			if start < s.end && end > s.start {
				return true
			}
		}
		return false
	}

	for _, kw := range ordered {
		escaped := html.EscapeString(kw)
		for offset := 0; offset < len(safe); {
			i := strings.Index(safe[offset:], escaped)
			if i < 0 {
				break
			}
			start := offset + i
			end := start + len(escaped)
			if !overlaps(start, end) {
				spans = append(spans, span{start: start, end: end})
			}
			offset = end
		}
	}

	if len(spans) == 0 {
		return safe
	}

	sort.Slice(spans, func(i, j int) bool { return spans[i].start < spans[j].start })

	var builder strings.Builder
	prev := 0
	for _, s := range spans {
		builder.WriteString(safe[prev:s.start])
		builder.WriteString("<mark>")
		builder.WriteString(safe[s.start:s.end])
		builder.WriteString("</mark>")
		prev = s.end
	}
	builder.WriteString(safe[prev:])

	return builder.String()
}
