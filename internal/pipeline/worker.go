package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgallion1/examstyle/internal/content"
	"github.com/dgallion1/examstyle/internal/parser"
)

// Worker processes a single import job.
type Worker struct {
	builder *content.Builder
	opts    parser.Options
	stats   *ProcessingStats
	obs     JobObserver
	log     *slog.Logger
}

func NewWorker(builder *content.Builder, opts parser.Options, stats *ProcessingStats, obs JobObserver, log *slog.Logger) *Worker {
	return &Worker{
		builder: builder,
		opts:    opts,
		stats:   stats,
		obs:     obs,
		log:     log,
	}
}

// Process parses the uploaded document and compiles its paragraphs. A job
// where some field fell back to plain text ends as partial.
func (w *Worker) Process(ctx context.Context, job *Job) {
	start := time.Now()
	log := w.log.With("job_id", job.ID, "filename", job.Filename)

	status, phase := w.process(ctx, job, log)
	elapsed := time.Since(start)

	// A job that reads as done is already counted.
	snap := job.Snapshot()
	if w.stats != nil {
		w.stats.Record(elapsed, snap.Progress.Fields, snap.Progress.FieldsUnstyled)
	}
	if w.obs != nil {
		w.obs.ObserveJob(string(status), elapsed)
	}
	log.Info("import finished",
		"status", status,
		"paragraphs", snap.Progress.Paragraphs,
		"unstyled", snap.Progress.FieldsUnstyled,
		"elapsed_ms", elapsed.Milliseconds(),
	)
	job.SetStatus(status, phase)
}

func (w *Worker) process(ctx context.Context, job *Job, log *slog.Logger) (JobStatus, string) {
	// Phase 1: Parse
	job.SetStatus(StatusParsing, "parsing")
	p, err := parser.ForFile(job.Filename, w.opts)
	if err != nil {
		log.Error("unsupported format", "error", err)
		return w.fail(job, "parsing", err.Error())
	}

	passage, err := p.Parse(bytes.NewReader(job.FileData()), job.Filename)
	if err != nil {
		log.Error("parse failed", "error", err)
		return w.fail(job, "parsing", fmt.Sprintf("parse: %s", err))
	}
	if job.Title != "" {
		passage.Title = job.Title
	}
	if len(passage.Paragraphs) == 0 {
		log.Warn("no paragraphs produced")
		return w.fail(job, "parsing", "no extractable text")
	}

	// Phase 2: Validate and compile every paragraph.
	job.SetStatus(StatusStyling, "styling")
	raw := &content.RawResponse{Passage: passage, Problems: []content.RawProblem{}}
	sess, rep, err := w.builder.Build(ctx, raw)
	if err != nil {
		log.Error("styling failed", "error", err)
		return w.fail(job, "styling", fmt.Sprintf("styling: %s", err))
	}
	job.SetResult(sess, rep)
	for _, f := range rep.Fields {
		for _, e := range f.Errors {
			job.AddError(fmt.Sprintf("%s: %s", f.Path, e))
		}
	}

	if rep.UnstyledCount() > 0 {
		return StatusPartial, "done"
	}
	return StatusCompleted, "done"
}

func (w *Worker) fail(job *Job, phase, msg string) (JobStatus, string) {
	job.AddError(msg)
	return StatusFailed, phase
}
