package styling

import (
	"fmt"
	"strings"

	"github.com/rivo/uniseg"
	"golang.org/x/text/unicode/norm"
)

// ValidationResult reports structural errors and quality warnings for one
// text field. CorrectedRanges is nil (JSON null) whenever IsValid is false
// and a non-nil list, possibly empty, otherwise.
type ValidationResult struct {
	IsValid         bool         `json:"isValid"`
	Errors          []string     `json:"errors"`
	Warnings        []string     `json:"warnings"`
	CorrectedRanges []StyleRange `json:"correctedRanges"`
}

// Validate checks every range against text. A negative start, an end past
// the text, or an empty/inverted range is a structural error and makes the
// whole set unusable. Whitespace-only selections, ranges without flags and
// ranges that cut through a grapheme cluster only produce warnings.
func Validate(text string, ranges []StyleRange) ValidationResult {
	res := ValidationResult{
		Errors:   []string{},
		Warnings: []string{},
	}
	runes := []rune(text)
	n := len(runes)
	accepted := make([]StyleRange, 0, len(ranges))

	var clusters map[int]bool
	for i, r := range ranges {
		if r.Start < 0 {
			res.Errors = append(res.Errors, fmt.Sprintf("range %d: start (%d) is negative", i, r.Start))
			continue
		}
		if r.End > n {
			res.Errors = append(res.Errors, fmt.Sprintf("range %d: end (%d) exceeds text length (%d)", i, r.End, n))
			continue
		}
		if r.Start >= r.End {
			res.Errors = append(res.Errors, fmt.Sprintf("range %d: start (%d) is not before end (%d)", i, r.Start, r.End))
			continue
		}

		selected := string(runes[r.Start:r.End])
		if strings.TrimSpace(selected) == "" {
			res.Warnings = append(res.Warnings, fmt.Sprintf("range %d: selected text is whitespace only: %q", i, selected))
		}
		if !r.Any() {
			res.Warnings = append(res.Warnings, fmt.Sprintf("range %d: no style flags set", i))
		}
		if clusters == nil {
			clusters = graphemeBoundaries(text)
		}
		if !clusters[r.Start] || !clusters[r.End] {
			res.Warnings = append(res.Warnings, fmt.Sprintf("range %d: boundary splits a grapheme cluster", i))
		}
		accepted = append(accepted, r)
	}

	if len(ranges) > 0 && !norm.NFC.IsNormalString(text) {
		res.Warnings = append(res.Warnings, "text is not NFC-normalized; offsets may not match displayed characters")
	}

	res.IsValid = len(res.Errors) == 0
	if res.IsValid {
		res.CorrectedRanges = accepted
	}
	return res
}

// graphemeBoundaries returns the rune offsets at which a grapheme cluster
// starts, plus the end of the text.
func graphemeBoundaries(text string) map[int]bool {
	bounds := map[int]bool{0: true}
	offset := 0
	g := uniseg.NewGraphemes(text)
	for g.Next() {
		offset += len(g.Runes())
		bounds[offset] = true
	}
	return bounds
}
