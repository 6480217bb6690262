package styling

import (
	"sort"
)

// MergeOverlapping collapses ranges that overlap or touch into single ranges
// whose flags are the union of the merged inputs. The input is not modified.
// Applying it twice gives the same result as applying it once.
//
// Flags are unioned across the whole merged span, so this is only meant for
// sources that emit redundant copies of the same styling.
func MergeOverlapping(ranges []StyleRange) []StyleRange {
	merged := make([]StyleRange, 0, len(ranges))
	if len(ranges) == 0 {
		return merged
	}

	sorted := make([]StyleRange, len(ranges))
	copy(sorted, ranges)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Start < sorted[j].Start })

	cur := sorted[0]
	for _, next := range sorted[1:] {
		if next.Start <= cur.End {
			cur.End = max(cur.End, next.End)
			cur.Flags = cur.Flags.Union(next.Flags)
			continue
		}
		merged = append(merged, cur)
		cur = next
	}
	return append(merged, cur)
}
