package content

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/dgallion1/examstyle/internal/styling"
)

// BuildConfig controls how a session is compiled.
type BuildConfig struct {
	// MaxConcurrent bounds how many fields are styled at once.
	MaxConcurrent int
	// MergeOverlaps collapses overlapping accepted ranges before compiling.
	MergeOverlaps bool
	Balance       styling.BalanceLimits
}

// Observer receives per-field outcomes. Implementations must be safe for
// concurrent use.
type Observer interface {
	ObserveField(valid bool, warnings int)
	ObserveHoisted(n int)
}

type nopObserver struct{}

func (nopObserver) ObserveField(bool, int) {}
func (nopObserver) ObserveHoisted(int)     {}

// Builder turns raw generator payloads into compiled sessions.
type Builder struct {
	cfg BuildConfig
	log *slog.Logger
	obs Observer
}

// NewBuilder creates a Builder. obs may be nil.
func NewBuilder(cfg BuildConfig, log *slog.Logger, obs Observer) *Builder {
	if cfg.MaxConcurrent <= 0 {
		cfg.MaxConcurrent = 8
	}
	if obs == nil {
		obs = nopObserver{}
	}
	return &Builder{cfg: cfg, log: log, obs: obs}
}

// field is one styleable text. Each task writes only its own segs slot and
// its own report slot.
type field struct {
	path   string
	text   string
	ranges []RawStyleRange
	segs   *[]styling.TextSegment
}

// Build checks and cleans raw, then validates and compiles every text field
// in parallel. A field whose ranges fail validation is rendered unstyled and
// reported; it never fails the build. The returned error is non-nil only
// when there is no passage to build or ctx is cancelled.
func (b *Builder) Build(ctx context.Context, raw *RawResponse) (*Session, Report, error) {
	rep := Check(raw)
	if raw == nil || raw.Passage == nil {
		return nil, rep, ErrMissingPassage
	}

	cleaned, hoisted := Clean(raw)
	if hoisted > 0 {
		b.obs.ObserveHoisted(hoisted)
	}

	sess, fields := b.layout(cleaned)
	rep.Fields = make([]FieldReport, len(fields))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.cfg.MaxConcurrent)
	for i, f := range fields {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			segs, fr := b.StyleField(f.path, f.text, f.ranges)
			*f.segs = segs
			rep.Fields[i] = fr
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, rep, fmt.Errorf("building session: %w", err)
	}

	b.log.Debug("session built",
		"paragraphs", len(sess.Passage.Paragraphs),
		"problems", len(sess.Problems),
		"fields", len(fields),
		"unstyled", rep.UnstyledCount(),
		"hoisted", hoisted,
	)
	return sess, rep, nil
}

// layout allocates the session and lists its fields in document order.
func (b *Builder) layout(raw *RawResponse) (*Session, []field) {
	var fields []field
	rp := raw.Passage

	sess := &Session{
		Passage: Passage{
			Title:      rp.Title,
			Author:     rp.Author,
			Source:     rp.Source,
			Paragraphs: make([]Paragraph, len(rp.Paragraphs)),
			Footnotes:  rp.Footnotes,
		},
		Problems: make([]Problem, len(raw.Problems)),
	}

	for i, p := range rp.Paragraphs {
		para := &sess.Passage.Paragraphs[i]
		para.ID = NewID()
		para.Text = deref(p.Text)
		para.Annotation = p.Annotation
		para.Indent = max(p.Indent, 0)
		fields = append(fields, field{
			path:   fmt.Sprintf("passage.paragraphs[%d]", i),
			text:   para.Text,
			ranges: p.StyleRanges,
			segs:   &para.Segments,
		})
	}

	for i, p := range raw.Problems {
		prob := &sess.Problems[i]
		prob.ID = p.ID
		if prob.ID == 0 {
			prob.ID = i + 1
		}
		prob.Type = p.Type
		if prob.Type == "" {
			prob.Type = ProblemMultipleChoice
		}
		prob.Category = p.Category
		if prob.Category == "" {
			prob.Category = DefaultCategory
		}
		prob.QuestionText = deref(p.QuestionText)
		if p.Answer != nil {
			prob.Answer = *p.Answer
		}
		prob.Difficulty = p.Difficulty
		prob.Points = p.Points
		prob.TimeEstimate = p.TimeEstimate

		prefix := fmt.Sprintf("problems[%d]", i)
		fields = append(fields, field{
			path:   prefix + ".question",
			text:   prob.QuestionText,
			ranges: p.QuestionStyleRanges,
			segs:   &prob.QuestionSegments,
		})

		if p.Premise != nil {
			prob.Premise = &Premise{
				Title: p.Premise.Title,
				Text:  p.Premise.Text,
				Items: p.Premise.Items,
			}
			fields = append(fields, field{
				path:   prefix + ".premise",
				text:   p.Premise.Text,
				ranges: p.Premise.StyleRanges,
				segs:   &prob.Premise.Segments,
			})
		}

		prob.Options = make([]Option, len(p.Options))
		for j, o := range p.Options {
			opt := &prob.Options[j]
			opt.ID = j + 1
			opt.Text = deref(o.Text)
			opt.Explanation = o.Explanation
			fields = append(fields, field{
				path:   fmt.Sprintf("%s.options[%d]", prefix, j),
				text:   opt.Text,
				ranges: o.StyleRanges,
				segs:   &opt.Segments,
			})
		}
	}
	sess.ProblemCount = len(sess.Problems)
	return sess, fields
}

// StyleField validates raw ranges against text and compiles the result.
// Any structural problem discards every range of the field.
func (b *Builder) StyleField(path, text string, raw []RawStyleRange) ([]styling.TextSegment, FieldReport) {
	fr := FieldReport{Path: path}
	ranges := make([]styling.StyleRange, 0, len(raw))
	for i, r := range raw {
		errs, warns := r.Diagnostics(i)
		fr.Errors = append(fr.Errors, errs...)
		fr.Warnings = append(fr.Warnings, warns...)
		ranges = append(ranges, r.Range())
	}

	var accepted []styling.StyleRange
	if len(fr.Errors) == 0 {
		res := styling.Validate(text, ranges)
		fr.Errors = append(fr.Errors, res.Errors...)
		fr.Warnings = append(fr.Warnings, res.Warnings...)
		accepted = res.CorrectedRanges
	}

	fr.Valid = len(fr.Errors) == 0
	if !fr.Valid {
		fr.Unstyled = true
		accepted = nil
		b.log.Warn("style ranges rejected; rendering unstyled",
			"field", path, "ranges", len(raw), "errors", fr.Errors)
	} else {
		if b.cfg.MergeOverlaps {
			accepted = styling.MergeOverlapping(accepted)
		}
		bal := styling.CheckBalance(text, accepted, b.cfg.Balance)
		if !bal.Balanced {
			fr.Warnings = append(fr.Warnings, bal.Recommendation)
		}
		fr.Balance = &bal
		fr.Stats = styling.Stats(accepted)
		if len(fr.Warnings) > 0 {
			b.log.Warn("style range warnings", "field", path, "warnings", fr.Warnings)
		}
	}

	b.obs.ObserveField(fr.Valid, len(fr.Warnings))
	return styling.Compile(text, accepted), fr
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
