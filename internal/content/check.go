package content

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/dgallion1/examstyle/internal/styling"
)

const (
	// OptionCount is the number of choices every problem must offer.
	OptionCount = 5
	// MinPremiseText is the shortest premise text that does not draw a warning.
	MinPremiseText = 10
	// MinPremiseItems is the smallest item list that does not draw a warning.
	MinPremiseItems = 3
)

// Report collects payload- and field-level diagnostics. Valid is false only
// for payload-level errors; a field whose styling was rejected is reported
// in Fields and rendered unstyled without invalidating the payload.
type Report struct {
	Valid    bool          `json:"valid"`
	Errors   []string      `json:"errors"`
	Warnings []string      `json:"warnings"`
	Fields   []FieldReport `json:"fields,omitempty"`
}

// FieldReport is the styling outcome for one text field.
type FieldReport struct {
	Path     string             `json:"path"`
	Valid    bool               `json:"valid"`
	Unstyled bool               `json:"unstyled"`
	Errors   []string           `json:"errors,omitempty"`
	Warnings []string           `json:"warnings,omitempty"`
	Balance  *styling.Balance   `json:"balance,omitempty"`
	Stats    styling.Statistics `json:"stats"`
}

// UnstyledCount returns how many fields fell back to plain text.
func (r Report) UnstyledCount() int {
	n := 0
	for _, f := range r.Fields {
		if f.Unstyled {
			n++
		}
	}
	return n
}

func (r *Report) errorf(format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

func (r *Report) warnf(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

// Check inspects the payload structure. Offsets are not checked here; each
// field's ranges are validated on their own when the session is built.
func Check(raw *RawResponse) (rep Report) {
	rep = Report{Errors: []string{}, Warnings: []string{}}
	defer func() { rep.Valid = len(rep.Errors) == 0 }()

	if raw == nil {
		rep.errorf("payload is empty")
		return rep
	}
	if raw.Passage == nil {
		rep.errorf("passage is missing")
		return rep
	}
	if raw.Passage.Paragraphs == nil {
		rep.errorf("passage.paragraphs is not an array")
		return rep
	}

	for i, p := range raw.Passage.Paragraphs {
		if p.Text == nil || *p.Text == "" {
			rep.warnf("paragraph %d: text is missing; rendered empty", i+1)
		}
		checkRanges(&rep, fmt.Sprintf("paragraph %d", i+1), p.StyleRanges, true)
	}

	if raw.Problems == nil {
		rep.errorf("problems is not an array")
		return rep
	}
	if len(raw.Problems) == 0 {
		rep.warnf("no problems were generated")
	}
	for i, p := range raw.Problems {
		checkProblem(&rep, i+1, p)
	}
	return rep
}

func checkProblem(rep *Report, n int, p RawProblem) {
	if p.QuestionText == nil || *p.QuestionText == "" {
		rep.warnf("problem %d: questionText is missing; rendered empty", n)
	}
	checkRanges(rep, fmt.Sprintf("problem %d question", n), p.QuestionStyleRanges, false)

	if p.Options == nil {
		rep.errorf("problem %d: options is not an array", n)
	} else if len(p.Options) != OptionCount {
		rep.errorf("problem %d: has %d options; exactly %d are required", n, len(p.Options), OptionCount)
	}
	for j, o := range p.Options {
		if o.Text == nil {
			rep.warnf("problem %d, option %d: text is missing; rendered empty", n, j+1)
		}
		checkRanges(rep, fmt.Sprintf("problem %d, option %d", n, j+1), o.StyleRanges, false)
	}

	switch {
	case p.Answer == nil:
		rep.errorf("problem %d: answer is missing", n)
	case *p.Answer < 0 || *p.Answer >= OptionCount:
		rep.errorf("problem %d: answer %d is outside 0..%d", n, *p.Answer, OptionCount-1)
	}

	if p.Type != ProblemWithPremise {
		return
	}
	if p.Premise == nil {
		rep.errorf("problem %d: type %s has no premise", n, ProblemWithPremise)
		return
	}
	hasText := strings.TrimSpace(p.Premise.Text) != ""
	hasItems := len(p.Premise.Items) > 0
	if !hasText && !hasItems {
		rep.errorf("problem %d: premise is empty; text or items is required", n)
	}
	if hasText && utf8.RuneCountInString(p.Premise.Text) < MinPremiseText {
		rep.warnf("problem %d: premise text is short (%d chars); at least %d recommended",
			n, utf8.RuneCountInString(p.Premise.Text), MinPremiseText)
	}
	if hasItems && len(p.Premise.Items) < MinPremiseItems {
		rep.warnf("problem %d: premise has %d items; at least %d recommended", n, len(p.Premise.Items), MinPremiseItems)
	}
	checkRanges(rep, fmt.Sprintf("problem %d premise", n), p.Premise.StyleRanges, false)
}

// checkRanges warns about paragraph metadata nested inside span ranges.
func checkRanges(rep *Report, where string, ranges []RawStyleRange, hoistable bool) {
	for i, r := range ranges {
		if !r.Misplaced() {
			continue
		}
		if hoistable {
			rep.warnf("%s, range %d: paragraph metadata found inside style range; moved to paragraph level", where, i+1)
		} else {
			rep.warnf("%s, range %d: paragraph metadata found inside style range; stripped", where, i+1)
		}
	}
}
