package styling

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestValidate_EndPastText(t *testing.T) {
	res := Validate("hi", []StyleRange{bold(0, 5)})
	if res.IsValid {
		t.Fatal("expected invalid result")
	}
	if len(res.Errors) == 0 {
		t.Fatal("expected at least one error")
	}
	if res.CorrectedRanges != nil {
		t.Errorf("expected no corrected ranges, got %+v", res.CorrectedRanges)
	}
}

func TestValidate_StructuralErrors(t *testing.T) {
	tests := []struct {
		name  string
		r     StyleRange
		match string
	}{
		{"negative start", bold(-1, 2), "negative"},
		{"end past text", bold(0, 6), "exceeds"},
		{"empty range", bold(2, 2), "not before"},
		{"inverted range", bold(4, 1), "not before"},
		{"negative start beats other checks", bold(-3, 99), "negative"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			res := Validate("hello", []StyleRange{tc.r})
			if res.IsValid {
				t.Fatal("expected invalid result")
			}
			if len(res.Errors) != 1 {
				t.Fatalf("expected 1 error, got %v", res.Errors)
			}
			if !strings.Contains(res.Errors[0], tc.match) {
				t.Errorf("expected error containing %q, got %q", tc.match, res.Errors[0])
			}
		})
	}
}

func TestValidate_OneBadRangeFailsTheBatch(t *testing.T) {
	res := Validate("hello world", []StyleRange{bold(0, 5), bold(6, 40)})
	if res.IsValid {
		t.Fatal("expected batch to be invalid")
	}
	if res.CorrectedRanges != nil {
		t.Errorf("expected corrected ranges to be omitted, got %+v", res.CorrectedRanges)
	}
	if !strings.HasPrefix(res.Errors[0], "range 1:") {
		t.Errorf("expected error to name range 1, got %q", res.Errors[0])
	}
}

func TestValidate_ValidRangesPassThrough(t *testing.T) {
	ranges := []StyleRange{bold(0, 5), {Start: 6, End: 11, Flags: Flags{Underline: true}}}
	res := Validate("hello world", ranges)
	if !res.IsValid {
		t.Fatalf("expected valid, got errors %v", res.Errors)
	}
	if len(res.Warnings) != 0 {
		t.Errorf("expected no warnings, got %v", res.Warnings)
	}
	if diff := cmp.Diff(ranges, res.CorrectedRanges); diff != "" {
		t.Errorf("corrected ranges mismatch (-want +got):\n%s", diff)
	}
}

func TestValidate_EmptyRangeList(t *testing.T) {
	res := Validate("hello", nil)
	if !res.IsValid {
		t.Fatal("expected valid result")
	}
	if res.CorrectedRanges == nil || len(res.CorrectedRanges) != 0 {
		t.Errorf("expected empty corrected ranges, got %#v", res.CorrectedRanges)
	}
	if res.Errors == nil || res.Warnings == nil {
		t.Error("expected non-nil errors and warnings slices")
	}
}

func TestValidate_WhitespaceSelectionWarns(t *testing.T) {
	res := Validate("a   b", []StyleRange{bold(1, 4)})
	if !res.IsValid {
		t.Fatalf("expected valid, got %v", res.Errors)
	}
	if len(res.Warnings) != 1 || !strings.Contains(res.Warnings[0], "whitespace") {
		t.Errorf("expected one whitespace warning, got %v", res.Warnings)
	}
	if len(res.CorrectedRanges) != 1 {
		t.Errorf("expected range to be kept, got %v", res.CorrectedRanges)
	}
}

func TestValidate_NoFlagsWarns(t *testing.T) {
	res := Validate("hello", []StyleRange{{Start: 0, End: 2}})
	if !res.IsValid {
		t.Fatalf("expected valid, got %v", res.Errors)
	}
	if len(res.Warnings) != 1 || !strings.Contains(res.Warnings[0], "no style flags") {
		t.Errorf("expected one no-op warning, got %v", res.Warnings)
	}
}

func TestValidate_GraphemeSplitWarns(t *testing.T) {
	text := "\U0001F44D\U0001F3FDok"
	res := Validate(text, []StyleRange{bold(0, 1)})
	if !res.IsValid {
		t.Fatalf("expected valid, got %v", res.Errors)
	}
	if len(res.Warnings) != 1 || !strings.Contains(res.Warnings[0], "grapheme") {
		t.Errorf("expected one grapheme warning, got %v", res.Warnings)
	}

	res = Validate(text, []StyleRange{bold(0, 2)})
	if len(res.Warnings) != 0 {
		t.Errorf("expected no warnings for whole cluster, got %v", res.Warnings)
	}
}

func TestValidate_DecomposedTextWarns(t *testing.T) {
	res := Validate("e\u0301", []StyleRange{bold(0, 2)})
	if !res.IsValid {
		t.Fatalf("expected valid, got %v", res.Errors)
	}
	if len(res.Warnings) != 1 || !strings.Contains(res.Warnings[0], "NFC") {
		t.Errorf("expected one NFC warning, got %v", res.Warnings)
	}
}

func TestValidate_ThenCompileFallsBackUnstyled(t *testing.T) {
	text := "hi"
	res := Validate(text, []StyleRange{bold(0, 5)})
	segments := Compile(text, res.CorrectedRanges)
	want := []TextSegment{{Text: "hi"}}
	if diff := cmp.Diff(want, segments); diff != "" {
		t.Errorf("segments mismatch (-want +got):\n%s", diff)
	}
}

func TestValidationResult_CorrectedRangesJSON(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		ranges []StyleRange
		want   string
	}{
		{"valid without ranges", "plain", nil, `"correctedRanges":[]`},
		{"invalid", "hi", []StyleRange{bold(0, 5)}, `"correctedRanges":null`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			data, err := json.Marshal(Validate(tc.text, tc.ranges))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !strings.Contains(string(data), tc.want) {
				t.Errorf("expected %s in %s", tc.want, data)
			}
		})
	}
}
