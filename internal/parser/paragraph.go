package parser

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/dgallion1/examstyle/internal/content"
	"github.com/dgallion1/examstyle/internal/styling"
)

// maxIndent is the deepest paragraph indent a passage uses.
const maxIndent = 2

// paragraphWriter accumulates one paragraph's text and records a style
// range for every formatted run written into it. Offsets are runes.
type paragraphWriter struct {
	buf    strings.Builder
	n      int
	ranges []content.RawStyleRange
	indent int

	// collapse folds whitespace runs into one space, as HTML rendering does.
	collapse bool
	lastWS   bool
}

func (w *paragraphWriter) write(s string, f styling.Flags) {
	if w.collapse {
		s = w.collapseSpace(s)
	}
	if s == "" {
		return
	}
	start := w.n
	w.buf.WriteString(s)
	w.n += utf8.RuneCountInString(s)
	if !f.Any() {
		return
	}
	// Adjacent runs with identical styling become one range.
	if k := len(w.ranges); k > 0 && w.ranges[k-1].End == start && w.ranges[k-1].Flags == f {
		w.ranges[k-1].End = w.n
		return
	}
	w.ranges = append(w.ranges, content.RawStyleRange{Start: start, End: w.n, Flags: f})
}

// lineBreak writes a hard break that survives whitespace collapsing.
func (w *paragraphWriter) lineBreak() {
	w.buf.WriteByte('\n')
	w.n++
	w.lastWS = true
}

func (w *paragraphWriter) collapseSpace(s string) string {
	var sb strings.Builder
	for _, r := range s {
		if unicode.IsSpace(r) {
			if w.lastWS {
				continue
			}
			w.lastWS = true
			sb.WriteByte(' ')
			continue
		}
		w.lastWS = false
		sb.WriteRune(r)
	}
	return sb.String()
}

// flush returns the accumulated paragraph and resets the writer. Surrounding
// whitespace is trimmed and a leading circled-letter marker becomes the
// annotation. ok is false when nothing but whitespace was written.
func (w *paragraphWriter) flush() (p content.RawParagraph, ok bool) {
	runes := []rune(w.buf.String())
	ranges, indent := w.ranges, w.indent
	w.buf.Reset()
	w.n = 0
	w.ranges = nil
	w.lastWS = false

	lo, hi := 0, len(runes)
	for lo < hi && unicode.IsSpace(runes[lo]) {
		lo++
	}
	for hi > lo && unicode.IsSpace(runes[hi-1]) {
		hi--
	}
	if lo == hi {
		return content.RawParagraph{}, false
	}

	var annotation string
	if isAnnotationMarker(runes[lo]) && (lo+1 == hi || unicode.IsSpace(runes[lo+1])) {
		annotation = string(runes[lo])
		lo++
		for lo < hi && unicode.IsSpace(runes[lo]) {
			lo++
		}
	}

	text := string(runes[lo:hi])
	var kept []content.RawStyleRange
	for _, r := range ranges {
		start, end := max(r.Start, lo)-lo, min(r.End, hi)-lo
		if start >= end {
			continue
		}
		r.Start, r.End = start, end
		kept = append(kept, r)
	}
	return content.RawParagraph{
		Text:        &text,
		StyleRanges: kept,
		Annotation:  annotation,
		Indent:      min(max(indent, 0), maxIndent),
	}, true
}

// isAnnotationMarker reports whether r is a circled Hangul letter or
// syllable such as ㉠, used to label paragraphs in exam passages.
func isAnnotationMarker(r rune) bool {
	return r >= '㉠' && r <= '㉿'
}

// passageBuilder collects paragraphs for a passage.
type passageBuilder struct {
	passage content.RawPassage
	w       paragraphWriter
}

func newPassageBuilder(title string, collapse bool) *passageBuilder {
	b := &passageBuilder{passage: content.RawPassage{Title: title, Paragraphs: []content.RawParagraph{}}}
	b.w.collapse = collapse
	return b
}

// end closes the current paragraph, if any text was written.
func (b *passageBuilder) end() {
	if p, ok := b.w.flush(); ok {
		b.passage.Paragraphs = append(b.passage.Paragraphs, p)
	}
}

func (b *passageBuilder) result() *content.RawPassage {
	b.end()
	return &b.passage
}
