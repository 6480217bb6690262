package parser

import (
	"strings"
	"testing"
)

func TestTextParser_BasicParagraphSplitting(t *testing.T) {
	input := "First paragraph line one.\nFirst paragraph line two.\n\nSecond paragraph.\n\n\n\tThird paragraph."
	p := &TextParser{}
	passage, err := p.Parse(strings.NewReader(input), "notes.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if passage.Title != "notes" {
		t.Errorf("expected title %q, got %q", "notes", passage.Title)
	}
	if len(passage.Paragraphs) != 3 {
		t.Fatalf("expected 3 paragraphs, got %d", len(passage.Paragraphs))
	}

	want := []string{
		"First paragraph line one.\nFirst paragraph line two.",
		"Second paragraph.",
		"Third paragraph.",
	}
	for i, w := range want {
		if got := *passage.Paragraphs[i].Text; got != w {
			t.Errorf("paragraph[%d]: expected %q, got %q", i, w, got)
		}
		if len(passage.Paragraphs[i].StyleRanges) != 0 {
			t.Errorf("paragraph[%d]: expected no style ranges", i)
		}
	}
	if passage.Paragraphs[2].Indent != 1 {
		t.Errorf("expected indent 1 for tabbed paragraph, got %d", passage.Paragraphs[2].Indent)
	}
}

func TestTextParser_EmptyInput(t *testing.T) {
	p := &TextParser{}
	passage, err := p.Parse(strings.NewReader(""), "empty.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if passage.Paragraphs == nil || len(passage.Paragraphs) != 0 {
		t.Errorf("expected empty paragraph list, got %v", passage.Paragraphs)
	}
}

func TestTextParser_AnnotationMarker(t *testing.T) {
	input := "㉠ 물리적 시간은 같다.\n\n㉡ 심리적 시간은 다르다.\n\n㉠㉡ not a marker"
	p := &TextParser{}
	passage, err := p.Parse(strings.NewReader(input), "passage.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(passage.Paragraphs) != 3 {
		t.Fatalf("expected 3 paragraphs, got %d", len(passage.Paragraphs))
	}

	tests := []struct {
		annotation string
		text       string
	}{
		{"㉠", "물리적 시간은 같다."},
		{"㉡", "심리적 시간은 다르다."},
		{"", "㉠㉡ not a marker"},
	}
	for i, tc := range tests {
		got := passage.Paragraphs[i]
		if got.Annotation != tc.annotation || *got.Text != tc.text {
			t.Errorf("paragraph[%d]: expected %q %q, got %q %q", i, tc.annotation, tc.text, got.Annotation, *got.Text)
		}
	}
}

func TestIndentOf(t *testing.T) {
	tests := []struct {
		line string
		want int
	}{
		{"none", 0},
		{"\ttab", 1},
		{"  two spaces", 1},
		{"   three spaces", 1},
		{"\t\t  deep", 3},
	}
	for _, tc := range tests {
		if got := indentOf(tc.line); got != tc.want {
			t.Errorf("indentOf(%q) = %d, want %d", tc.line, got, tc.want)
		}
	}
}
