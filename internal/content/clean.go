package content

import (
	"maps"
	"slices"
)

// Clean returns a copy of raw with paragraph metadata removed from every
// style range. For passage paragraphs the first annotation and indent found
// in a range move up to the paragraph unless the paragraph already has its
// own value. Elsewhere they are dropped. The count of values moved up is
// returned. raw is not modified.
func Clean(raw *RawResponse) (*RawResponse, int) {
	if raw == nil {
		return nil, 0
	}
	out := &RawResponse{}
	hoisted := 0

	if raw.Passage != nil {
		p := *raw.Passage
		p.Footnotes = maps.Clone(raw.Passage.Footnotes)
		if raw.Passage.Paragraphs != nil {
			p.Paragraphs = make([]RawParagraph, len(raw.Passage.Paragraphs))
			for i, para := range raw.Passage.Paragraphs {
				var n int
				p.Paragraphs[i], n = cleanParagraph(para)
				hoisted += n
			}
		}
		out.Passage = &p
	}

	if raw.Problems != nil {
		out.Problems = make([]RawProblem, len(raw.Problems))
		for i, prob := range raw.Problems {
			out.Problems[i] = cleanProblem(prob)
		}
	}
	return out, hoisted
}

func cleanParagraph(p RawParagraph) (RawParagraph, int) {
	hoisted := 0
	for _, r := range p.StyleRanges {
		if r.Annotation != "" && p.Annotation == "" {
			p.Annotation = r.Annotation
			hoisted++
		}
		if r.Indent != nil && p.Indent == 0 && *r.Indent > 0 {
			p.Indent = *r.Indent
			hoisted++
		}
	}
	p.StyleRanges = stripRanges(p.StyleRanges)
	return p, hoisted
}

func cleanProblem(p RawProblem) RawProblem {
	p.QuestionStyleRanges = stripRanges(p.QuestionStyleRanges)
	if p.Premise != nil {
		pr := *p.Premise
		pr.StyleRanges = stripRanges(pr.StyleRanges)
		pr.Items = slices.Clone(pr.Items)
		p.Premise = &pr
	}
	if p.Options != nil {
		opts := make([]RawOption, len(p.Options))
		for i, o := range p.Options {
			o.StyleRanges = stripRanges(o.StyleRanges)
			opts[i] = o
		}
		p.Options = opts
	}
	return p
}

func stripRanges(ranges []RawStyleRange) []RawStyleRange {
	if ranges == nil {
		return nil
	}
	out := make([]RawStyleRange, len(ranges))
	for i, r := range ranges {
		r.Annotation = ""
		r.Indent = nil
		r.Problems = slices.Clone(r.Problems)
		r.Notes = slices.Clone(r.Notes)
		out[i] = r
	}
	return out
}
