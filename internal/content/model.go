package content

import "github.com/dgallion1/examstyle/internal/styling"

// Problem types.
const (
	ProblemMultipleChoice = "multiple-choice"
	ProblemWithPremise    = "with-premise"
	ProblemMatching       = "matching"
	ProblemSequence       = "sequence"
	ProblemFillBlank      = "fill-blank"
)

// DefaultCategory is used when a problem does not name one.
const DefaultCategory = "내용 이해"

// Session is a compiled passage together with its problems.
type Session struct {
	Topic        string    `json:"topic,omitempty"`
	Difficulty   string    `json:"difficulty,omitempty"`
	ProblemCount int       `json:"problem_count"`
	Passage      Passage   `json:"passage"`
	Problems     []Problem `json:"problems"`
}

type Passage struct {
	Title      string            `json:"title,omitempty"`
	Author     string            `json:"author,omitempty"`
	Source     string            `json:"source,omitempty"`
	Paragraphs []Paragraph       `json:"paragraphs"`
	Footnotes  map[string]string `json:"footnotes,omitempty"`
}

// Paragraph is one passage paragraph. Annotation is the side marker such
// as ㉠ and Indent the nesting level.
type Paragraph struct {
	ID         string                `json:"id"`
	Text       string                `json:"text"`
	Segments   []styling.TextSegment `json:"segments"`
	Annotation string                `json:"annotation,omitempty"`
	Indent     int                   `json:"indent"`
}

type Premise struct {
	Title    string                `json:"title,omitempty"`
	Text     string                `json:"text"`
	Segments []styling.TextSegment `json:"segments"`
	Items    []string              `json:"items,omitempty"`
}

// Option IDs are 1-based.
type Option struct {
	ID          int                   `json:"id"`
	Text        string                `json:"text"`
	Segments    []styling.TextSegment `json:"segments"`
	Explanation string                `json:"explanation,omitempty"`
}

type Problem struct {
	ID               int                   `json:"id"`
	Type             string                `json:"type"`
	Category         string                `json:"category"`
	QuestionText     string                `json:"question_text"`
	QuestionSegments []styling.TextSegment `json:"question_segments"`
	Premise          *Premise              `json:"premise,omitempty"`
	Options          []Option              `json:"options"`
	Answer           int                   `json:"answer"`
	Difficulty       string                `json:"difficulty,omitempty"`
	Points           int                   `json:"points,omitempty"`
	TimeEstimate     int                   `json:"time_estimate,omitempty"`
}
