package content

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"

	"github.com/dgallion1/examstyle/internal/styling"
)

// RawResponse is a generator payload as received, before cleaning.
type RawResponse struct {
	Passage  *RawPassage  `json:"passage"`
	Problems []RawProblem `json:"problems"`
}

// RawPassage is the passage level of the payload.
type RawPassage struct {
	Title      string            `json:"title,omitempty"`
	Author     string            `json:"author,omitempty"`
	Source     string            `json:"source,omitempty"`
	Paragraphs []RawParagraph    `json:"paragraphs"`
	Footnotes  map[string]string `json:"footnotes,omitempty"`
}

// RawParagraph pairs a text with its sibling style ranges. Annotation and
// Indent belong here and never inside a range.
type RawParagraph struct {
	Text        *string         `json:"text"`
	StyleRanges []RawStyleRange `json:"styleRanges,omitempty"`
	Annotation  string          `json:"annotation,omitempty"`
	Indent      int             `json:"indent,omitempty"`
}

// RawProblem is one multiple-choice question.
type RawProblem struct {
	ID                  int             `json:"id"`
	Type                string          `json:"type"`
	Category            string          `json:"category,omitempty"`
	QuestionText        *string         `json:"questionText"`
	QuestionStyleRanges []RawStyleRange `json:"questionStyleRanges,omitempty"`
	Premise             *RawPremise     `json:"premise,omitempty"`
	Options             []RawOption     `json:"options"`
	Answer              *int            `json:"answer"`
	Difficulty          string          `json:"difficulty,omitempty"`
	Points              int             `json:"points,omitempty"`
	TimeEstimate        int             `json:"timeEstimate,omitempty"`
}

// RawPremise is the supplementary "<보기>" box of a question.
type RawPremise struct {
	Title       string          `json:"title,omitempty"`
	Text        string          `json:"text"`
	StyleRanges []RawStyleRange `json:"styleRanges,omitempty"`
	Items       []string        `json:"items,omitempty"`
}

// RawOption is one answer choice.
type RawOption struct {
	Text        *string         `json:"text"`
	StyleRanges []RawStyleRange `json:"styleRanges,omitempty"`
	Explanation string          `json:"explanation,omitempty"`
}

// RawStyleRange is a span-level style entry as the generator wrote it.
//
// Decoding never fails on a bad range: offsets that are missing or not
// integers are recorded in Problems, and paragraph-level keys found at this
// level are captured so they can be hoisted.
type RawStyleRange struct {
	Start int
	End   int
	styling.Flags

	// Paragraph-level metadata nested at the wrong level.
	Annotation string
	Indent     *int

	// Problems make the range unusable. Notes are informational.
	Problems []string
	Notes    []string
}

// Range returns the span as a core style range.
func (r RawStyleRange) Range() styling.StyleRange {
	return styling.StyleRange{Start: r.Start, End: r.End, Flags: r.Flags}
}

// Misplaced reports whether paragraph metadata was nested inside the range.
func (r RawStyleRange) Misplaced() bool {
	return r.Annotation != "" || r.Indent != nil
}

// Diagnostics returns the range's problems as errors and its notes as
// warnings, prefixed with index i. Nested paragraph metadata is dropped from
// a lone field and reported as a warning.
func (r RawStyleRange) Diagnostics(i int) (errs, warnings []string) {
	for _, p := range r.Problems {
		errs = append(errs, fmt.Sprintf("range %d: %s", i, p))
	}
	for _, n := range r.Notes {
		warnings = append(warnings, fmt.Sprintf("range %d: %s", i, n))
	}
	if r.Misplaced() {
		warnings = append(warnings, fmt.Sprintf("range %d: paragraph metadata found inside style range; stripped", i))
	}
	return errs, warnings
}

func (r *RawStyleRange) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil || fields == nil {
		r.Problems = append(r.Problems, "style range is not an object")
		return nil
	}

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var hasStart, hasEnd bool
	for _, key := range keys {
		raw := fields[key]
		switch key {
		case "start":
			hasStart = true
			n, ok := decodeInt(raw)
			if !ok {
				r.Problems = append(r.Problems, fmt.Sprintf("start is not an integer: %s", raw))
			}
			r.Start = n
		case "end":
			hasEnd = true
			n, ok := decodeInt(raw)
			if !ok {
				r.Problems = append(r.Problems, fmt.Sprintf("end is not an integer: %s", raw))
			}
			r.End = n
		case "bold":
			r.Bold = r.decodeFlag(key, raw)
		case "underline":
			r.Underline = r.decodeFlag(key, raw)
		case "box":
			r.Box = r.decodeFlag(key, raw)
		case "highlight":
			r.Highlight = r.decodeFlag(key, raw)
		case "annotation":
			var s string
			if err := json.Unmarshal(raw, &s); err == nil {
				r.Annotation = s
			}
		case "indent":
			if n, ok := decodeInt(raw); ok {
				r.Indent = &n
			}
		default:
			r.Notes = append(r.Notes, fmt.Sprintf("unknown key %q ignored", key))
		}
	}
	if !hasStart {
		r.Problems = append(r.Problems, "start is missing")
	}
	if !hasEnd {
		r.Problems = append(r.Problems, "end is missing")
	}
	return nil
}

func (r *RawStyleRange) decodeFlag(key string, raw json.RawMessage) bool {
	var b bool
	if err := json.Unmarshal(raw, &b); err != nil {
		r.Notes = append(r.Notes, fmt.Sprintf("flag %q is not a boolean; ignored", key))
		return false
	}
	return b
}

// decodeInt accepts JSON numbers with no fractional part.
func decodeInt(raw json.RawMessage) (int, bool) {
	var f float64
	if err := json.Unmarshal(raw, &f); err != nil {
		return 0, false
	}
	if f != math.Trunc(f) || f > math.MaxInt32 || f < math.MinInt32 {
		return 0, false
	}
	return int(f), true
}

// MarshalJSON writes the range back in the generator's flat shape, without
// any misplaced metadata.
func (r RawStyleRange) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.Range())
}
