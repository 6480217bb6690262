// Package styling turns text plus character-offset style ranges into
// non-overlapping styled segments, and validates untrusted ranges first.
//
// All offsets count runes: every logical character, whitespace and
// punctuation included, advances the offset by one.
package styling

import (
	"strings"
	"unicode/utf8"
)

// Flags is the set of inline styles a range or segment carries.
type Flags struct {
	Bold      bool `json:"bold,omitempty"`
	Underline bool `json:"underline,omitempty"`
	Box       bool `json:"box,omitempty"`
	Highlight bool `json:"highlight,omitempty"`
}

// Any reports whether at least one flag is set.
func (f Flags) Any() bool {
	return f.Bold || f.Underline || f.Box || f.Highlight
}

// Union returns the flags set in either f or o.
func (f Flags) Union(o Flags) Flags {
	return Flags{
		Bold:      f.Bold || o.Bold,
		Underline: f.Underline || o.Underline,
		Box:       f.Box || o.Box,
		Highlight: f.Highlight || o.Highlight,
	}
}

// Code returns a compact marker such as "BU" used in debug output.
func (f Flags) Code() string {
	var sb strings.Builder
	if f.Bold {
		sb.WriteString("B")
	}
	if f.Underline {
		sb.WriteString("U")
	}
	if f.Box {
		sb.WriteString("□")
	}
	if f.Highlight {
		sb.WriteString("H")
	}
	return sb.String()
}

// StyleRange is a half-open rune interval [Start, End) with style flags.
type StyleRange struct {
	Start int `json:"start"`
	End   int `json:"end"`
	Flags
}

// Len returns the number of runes covered by the range.
func (r StyleRange) Len() int {
	return r.End - r.Start
}

// inBounds reports whether the range is structurally valid for a text of n runes.
func (r StyleRange) inBounds(n int) bool {
	return r.Start >= 0 && r.End <= n && r.Start < r.End
}

// TextSegment is a contiguous slice of the source text with uniform styling.
type TextSegment struct {
	Text string `json:"text"`
	Flags
}

// RuneLen returns the length of text in offset units.
func RuneLen(text string) int {
	return utf8.RuneCountInString(text)
}
