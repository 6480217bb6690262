package styling

import (
	"slices"
)

// Compile splits text at every range boundary and returns the segments in
// order. Concatenating the segment texts reproduces text exactly.
//
// A segment carries a flag when some range fully covers it. Empty text
// yields an empty (non-nil) slice. Ranges that are out of bounds, empty or
// inverted are ignored rather than clamped: they contribute neither
// boundaries nor flags. Callers should pass ranges that already went
// through Validate.
func Compile(text string, ranges []StyleRange) []TextSegment {
	runes := []rune(text)
	n := len(runes)
	segments := make([]TextSegment, 0, 2*len(ranges)+1)
	if n == 0 {
		return segments
	}

	usable := make([]StyleRange, 0, len(ranges))
	points := make([]int, 0, 2*len(ranges)+2)
	points = append(points, 0, n)
	for _, r := range ranges {
		if !r.inBounds(n) {
			continue
		}
		usable = append(usable, r)
		points = append(points, r.Start, r.End)
	}
	slices.Sort(points)
	points = slices.Compact(points)

	for i := 0; i+1 < len(points); i++ {
		a, b := points[i], points[i+1]
		if a == b {
			continue
		}
		seg := TextSegment{Text: string(runes[a:b])}
		for _, r := range usable {
			if r.Start <= a && r.End >= b {
				seg.Flags = seg.Flags.Union(r.Flags)
			}
		}
		segments = append(segments, seg)
	}
	return segments
}

// RangesFromSegments is the inverse of Compile: it emits one range per
// styled segment. Compiling the result against the concatenated segment
// text yields the same segments when adjacent segments differ in style.
func RangesFromSegments(segments []TextSegment) []StyleRange {
	ranges := make([]StyleRange, 0, len(segments))
	offset := 0
	for _, seg := range segments {
		n := RuneLen(seg.Text)
		if seg.Any() && n > 0 {
			ranges = append(ranges, StyleRange{Start: offset, End: offset + n, Flags: seg.Flags})
		}
		offset += n
	}
	return ranges
}
