package styling

import "fmt"

// BalanceLimits bounds how much styling a single text field should carry.
type BalanceLimits struct {
	MaxRanges        int
	MaxStyledPercent float64
}

// DefaultBalanceLimits allows up to 5 ranges covering at most 30% of the text.
var DefaultBalanceLimits = BalanceLimits{MaxRanges: 5, MaxStyledPercent: 30}

// Balance is an advisory verdict on how heavily a field is styled.
type Balance struct {
	Balanced       bool    `json:"balanced"`
	RangeCount     int     `json:"range_count"`
	StyledPercent  float64 `json:"styled_percent"`
	Recommendation string  `json:"recommendation"`
}

// CheckBalance flags over-styled text. It never rejects input. Overlapping
// ranges are counted once per range, so heavy overlap raises the percentage.
func CheckBalance(text string, ranges []StyleRange, limits BalanceLimits) Balance {
	if limits.MaxRanges <= 0 {
		limits.MaxRanges = DefaultBalanceLimits.MaxRanges
	}
	if limits.MaxStyledPercent <= 0 {
		limits.MaxStyledPercent = DefaultBalanceLimits.MaxStyledPercent
	}

	styled := 0
	for _, r := range ranges {
		if r.End > r.Start {
			styled += r.Len()
		}
	}
	var pct float64
	if n := RuneLen(text); n > 0 {
		pct = float64(styled) * 100 / float64(n)
	}

	b := Balance{
		Balanced:      true,
		RangeCount:    len(ranges),
		StyledPercent: pct,
	}
	switch {
	case len(ranges) > limits.MaxRanges:
		b.Balanced = false
		b.Recommendation = fmt.Sprintf("too many style ranges (%d); %d or fewer recommended", len(ranges), limits.MaxRanges)
	case pct > limits.MaxStyledPercent:
		b.Balanced = false
		b.Recommendation = fmt.Sprintf("%.1f%% of the text is styled; %.0f%% or less recommended", pct, limits.MaxStyledPercent)
	default:
		b.Recommendation = "styling is balanced"
	}
	return b
}

// Statistics counts ranges per style flag.
type Statistics struct {
	Total     int `json:"total"`
	Bold      int `json:"bold"`
	Underline int `json:"underline"`
	Box       int `json:"box"`
	Highlight int `json:"highlight"`
}

// Stats tallies how many ranges set each flag.
func Stats(ranges []StyleRange) Statistics {
	s := Statistics{Total: len(ranges)}
	for _, r := range ranges {
		if r.Bold {
			s.Bold++
		}
		if r.Underline {
			s.Underline++
		}
		if r.Box {
			s.Box++
		}
		if r.Highlight {
			s.Highlight++
		}
	}
	return s
}
