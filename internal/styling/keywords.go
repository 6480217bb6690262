package styling

import (
	"sort"
	"strings"
	"unicode/utf8"
)

// Keyword is a phrase to style wherever it first occurs.
type Keyword struct {
	Word string `json:"word"`
	Flags
}

// FindAndStyle builds a range over the first occurrence of search in text.
// It is the fallback when a generator's offsets are wrong but the styled
// phrase is known.
func FindAndStyle(text, search string, flags Flags) (StyleRange, bool) {
	if search == "" {
		return StyleRange{}, false
	}
	idx := strings.Index(text, search)
	if idx < 0 {
		return StyleRange{}, false
	}
	start := utf8.RuneCountInString(text[:idx])
	return StyleRange{
		Start: start,
		End:   start + utf8.RuneCountInString(search),
		Flags: flags,
	}, true
}

// AutoStyleKeywords styles the first occurrence of each keyword. Keywords
// that do not occur are skipped.
func AutoStyleKeywords(text string, keywords []Keyword) []StyleRange {
	ranges := make([]StyleRange, 0, len(keywords))
	for _, kw := range keywords {
		if r, ok := FindAndStyle(text, kw.Word, kw.Flags); ok {
			ranges = append(ranges, r)
		}
	}
	return ranges
}

// Visualize renders ranges inline as "[BU:text]" for debugging. Ranges are
// drawn in start order; offsets outside the text are clamped.
func Visualize(text string, ranges []StyleRange) string {
	runes := []rune(text)
	n := len(runes)
	clamp := func(i int) int { return min(max(i, 0), n) }

	sorted := make([]StyleRange, len(ranges))
	copy(sorted, ranges)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Start < sorted[j].Start })

	var sb strings.Builder
	last := 0
	for _, r := range sorted {
		start, end := clamp(r.Start), clamp(r.End)
		if start > last {
			sb.WriteString(string(runes[last:start]))
		}
		sb.WriteString("[")
		sb.WriteString(r.Code())
		sb.WriteString(":")
		if end > start {
			sb.WriteString(string(runes[start:end]))
		}
		sb.WriteString("]")
		last = max(last, end)
	}
	if last < n {
		sb.WriteString(string(runes[last:]))
	}
	return sb.String()
}
