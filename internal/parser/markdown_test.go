package parser

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/dgallion1/examstyle/internal/content"
	"github.com/dgallion1/examstyle/internal/styling"
)

// plainParagraph strips a raw paragraph down to comparable values.
type plainParagraph struct {
	Text       string
	Annotation string
	Indent     int
	Ranges     []styling.StyleRange
}

func flatten(p *content.RawPassage) []plainParagraph {
	out := make([]plainParagraph, 0, len(p.Paragraphs))
	for _, para := range p.Paragraphs {
		pp := plainParagraph{Text: *para.Text, Annotation: para.Annotation, Indent: para.Indent}
		for _, r := range para.StyleRanges {
			pp.Ranges = append(pp.Ranges, r.Range())
		}
		out = append(out, pp)
	}
	return out
}

func TestMarkdownParser_InlineStyles(t *testing.T) {
	input := "# 시간의 본질\n\n" +
		"㉠ **물리적 시간**은 *누구에게나* 같다.\n\n" +
		"> `심리적` 시간은\n> 다르다.\n\n" +
		"- item one\n  - nested **two**\n\n" +
		"## Part\n"

	p := &MarkdownParser{}
	passage, err := p.Parse(strings.NewReader(input), "doc.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if passage.Title != "시간의 본질" {
		t.Errorf("expected title from h1, got %q", passage.Title)
	}

	want := []plainParagraph{
		{
			Text:       "물리적 시간은 누구에게나 같다.",
			Annotation: "㉠",
			Ranges: []styling.StyleRange{
				{Start: 0, End: 6, Flags: styling.Flags{Bold: true}},
				{Start: 8, End: 13, Flags: styling.Flags{Underline: true}},
			},
		},
		{
			Text:   "심리적 시간은 다르다.",
			Indent: 1,
			Ranges: []styling.StyleRange{{Start: 0, End: 3, Flags: styling.Flags{Box: true}}},
		},
		{Text: "item one"},
		{
			Text:   "nested two",
			Indent: 1,
			Ranges: []styling.StyleRange{{Start: 7, End: 10, Flags: styling.Flags{Bold: true}}},
		},
		{
			Text:   "Part",
			Ranges: []styling.StyleRange{{Start: 0, End: 4, Flags: styling.Flags{Bold: true}}},
		},
	}
	if diff := cmp.Diff(want, flatten(passage)); diff != "" {
		t.Errorf("paragraphs mismatch (-want +got):\n%s", diff)
	}
}

func TestMarkdownParser_NoHeadingUsesFilename(t *testing.T) {
	p := &MarkdownParser{}
	passage, err := p.Parse(strings.NewReader("Just text."), "notes/intro.markdown")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if passage.Title != "intro" {
		t.Errorf("expected title %q, got %q", "intro", passage.Title)
	}
	if len(passage.Paragraphs) != 1 || *passage.Paragraphs[0].Text != "Just text." {
		t.Errorf("unexpected paragraphs: %+v", flatten(passage))
	}
}

func TestMarkdownParser_RangesValidate(t *testing.T) {
	input := "**a** *b* `c` and ***d***\n"
	p := &MarkdownParser{}
	passage, err := p.Parse(strings.NewReader(input), "x.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	para := passage.Paragraphs[0]
	ranges := make([]styling.StyleRange, 0, len(para.StyleRanges))
	for _, r := range para.StyleRanges {
		ranges = append(ranges, r.Range())
	}
	res := styling.Validate(*para.Text, ranges)
	if !res.IsValid {
		t.Fatalf("expected parser output to validate, got %v", res.Errors)
	}
	last := ranges[len(ranges)-1]
	if !last.Bold || !last.Underline {
		t.Errorf("expected nested emphasis to be bold and underline, got %+v", last)
	}
}
