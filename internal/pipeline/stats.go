package pipeline

import (
	"slices"
	"sync"
	"time"
)

type sample struct {
	at       time.Time
	duration int64
	fields   int
	unstyled int
}

// StatsSnapshot aggregates recent import jobs.
type StatsSnapshot struct {
	Jobs         int     `json:"jobs"`
	MinMs        int64   `json:"min_ms"`
	MaxMs        int64   `json:"max_ms"`
	AvgMs        float64 `json:"avg_ms"`
	P50Ms        float64 `json:"p50_ms"`
	P95Ms        float64 `json:"p95_ms"`
	P99Ms        float64 `json:"p99_ms"`
	Fields       int     `json:"fields"`
	Unstyled     int     `json:"unstyled"`
	UnstyledRate float64 `json:"unstyled_rate"`
}

// ProcessingStats keeps job latencies and fallback counts within a rolling
// window.
type ProcessingStats struct {
	mu      sync.Mutex
	samples []sample
	window  time.Duration
}

func NewProcessingStats(window time.Duration) *ProcessingStats {
	if window <= 0 {
		window = time.Hour
	}
	return &ProcessingStats{
		samples: make([]sample, 0, 256),
		window:  window,
	}
}

// Record adds one finished job. Negative durations count as zero.
func (s *ProcessingStats) Record(elapsed time.Duration, fields, unstyled int) {
	ms := max(elapsed.Milliseconds(), 0)
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.pruneLocked(now)
	s.samples = append(s.samples, sample{at: now, duration: ms, fields: fields, unstyled: unstyled})
}

func (s *ProcessingStats) Snapshot() StatsSnapshot {
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.pruneLocked(now)
	if len(s.samples) == 0 {
		return StatsSnapshot{}
	}

	snap := StatsSnapshot{Jobs: len(s.samples)}
	values := make([]int64, 0, len(s.samples))
	var sum int64
	for _, sm := range s.samples {
		values = append(values, sm.duration)
		sum += sm.duration
		snap.Fields += sm.fields
		snap.Unstyled += sm.unstyled
	}
	slices.Sort(values)

	snap.MinMs = values[0]
	snap.MaxMs = values[len(values)-1]
	snap.AvgMs = float64(sum) / float64(len(values))
	snap.P50Ms = percentile(values, 50)
	snap.P95Ms = percentile(values, 95)
	snap.P99Ms = percentile(values, 99)
	if snap.Fields > 0 {
		snap.UnstyledRate = float64(snap.Unstyled) / float64(snap.Fields)
	}
	return snap
}

func (s *ProcessingStats) pruneLocked(now time.Time) {
	cutoff := now.Add(-s.window)
	s.samples = slices.DeleteFunc(s.samples, func(sm sample) bool {
		return sm.at.Before(cutoff)
	})
}

// percentile interpolates linearly between the closest ranks.
func percentile(sorted []int64, pct float64) float64 {
	switch {
	case len(sorted) == 0:
		return 0
	case pct <= 0:
		return float64(sorted[0])
	case pct >= 100:
		return float64(sorted[len(sorted)-1])
	}
	idx := float64(len(sorted)-1) * pct / 100
	lower := int(idx)
	if lower+1 >= len(sorted) {
		return float64(sorted[lower])
	}
	lo, hi := float64(sorted[lower]), float64(sorted[lower+1])
	return lo + (hi-lo)*(idx-float64(lower))
}
