package pipeline

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dgallion1/examstyle/internal/config"
	"github.com/dgallion1/examstyle/internal/content"
	"github.com/dgallion1/examstyle/internal/parser"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type recordingObserver struct {
	mu       sync.Mutex
	statuses []string
}

func (r *recordingObserver) ObserveJob(status string, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.statuses = append(r.statuses, status)
}

func newTestWorker(obs JobObserver) (*Worker, *ProcessingStats) {
	b := content.NewBuilder(content.BuildConfig{MaxConcurrent: 2}, testLogger(), nil)
	stats := NewProcessingStats(time.Hour)
	return NewWorker(b, parser.Options{}, stats, obs, testLogger()), stats
}

func TestWorker_ProcessMarkdown(t *testing.T) {
	obs := &recordingObserver{}
	w, stats := newTestWorker(obs)
	job := NewJob("passage.md", "Override", []byte("# Title\n\n㉠ **물리적** 시간\n\nplain"))

	w.Process(context.Background(), job)

	snap := job.Snapshot()
	if snap.Status != StatusCompleted {
		t.Fatalf("expected completed, got %q (errors %v)", snap.Status, snap.Progress.Errors)
	}
	sess, rep := job.Result()
	if sess.Passage.Title != "Override" {
		t.Errorf("expected job title to override, got %q", sess.Passage.Title)
	}
	if len(sess.Passage.Paragraphs) != 2 || sess.Passage.Paragraphs[0].Annotation != "㉠" {
		t.Errorf("unexpected paragraphs %+v", sess.Passage.Paragraphs)
	}
	if !sess.Passage.Paragraphs[0].Segments[0].Bold {
		t.Errorf("expected first segment bold, got %+v", sess.Passage.Paragraphs[0].Segments)
	}
	if rep.UnstyledCount() != 0 {
		t.Errorf("expected no unstyled fields, got %d", rep.UnstyledCount())
	}
	if len(obs.statuses) != 1 || obs.statuses[0] != "completed" {
		t.Errorf("expected one completed observation, got %v", obs.statuses)
	}
	if stats.Snapshot().Jobs != 1 {
		t.Error("expected job recorded in stats")
	}
}

func TestWorker_ProcessPartial(t *testing.T) {
	w, _ := newTestWorker(nil)
	payload := `{"passage": {"paragraphs": [
		{"text": "good", "styleRanges": [{"start": 0, "end": 4, "bold": true}]},
		{"text": "bad", "styleRanges": [{"start": 0, "end": 10, "bold": true}]}
	]}}`
	job := NewJob("gen.json", "", []byte(payload))

	w.Process(context.Background(), job)

	snap := job.Snapshot()
	if snap.Status != StatusPartial {
		t.Fatalf("expected partial, got %q", snap.Status)
	}
	if snap.Progress.FieldsUnstyled != 1 {
		t.Errorf("expected 1 unstyled field, got %d", snap.Progress.FieldsUnstyled)
	}
	if len(snap.Progress.Errors) != 1 || !strings.HasPrefix(snap.Progress.Errors[0], "passage.paragraphs[1]:") {
		t.Errorf("expected error for paragraph 1, got %v", snap.Progress.Errors)
	}
	sess, _ := job.Result()
	if segs := sess.Passage.Paragraphs[1].Segments; len(segs) != 1 || segs[0].Any() {
		t.Errorf("expected unstyled fallback, got %+v", segs)
	}
}

func TestWorker_ProcessFailures(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		data     string
		phase    string
	}{
		{"unsupported", "sheet.csv", "a,b", "parsing"},
		{"malformed json", "gen.json", "{", "parsing"},
		{"empty text", "blank.txt", "\n\n  \n", "parsing"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			obs := &recordingObserver{}
			w, _ := newTestWorker(obs)
			job := NewJob(tc.filename, "", []byte(tc.data))
			w.Process(context.Background(), job)

			snap := job.Snapshot()
			if snap.Status != StatusFailed || snap.Phase != tc.phase {
				t.Errorf("expected failed in %s, got %q in %q", tc.phase, snap.Status, snap.Phase)
			}
			if len(snap.Progress.Errors) == 0 {
				t.Error("expected an error to be recorded")
			}
			if len(obs.statuses) != 1 || obs.statuses[0] != "failed" {
				t.Errorf("expected failed observation, got %v", obs.statuses)
			}
		})
	}
}

func waitDone(t *testing.T, job *Job) JobSnapshot {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if snap := job.Snapshot(); snap.Status.Done() {
			return snap
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("job %s did not finish", job.ID)
	return JobSnapshot{}
}

func TestOrchestrator_SubmitAndProcess(t *testing.T) {
	cfg := config.Config{WorkerCount: 2, MaxQueueSize: 4, JobTTL: time.Hour, StatsWindow: time.Hour}
	b := content.NewBuilder(content.BuildConfig{}, testLogger(), nil)
	o := NewOrchestrator(cfg, b, nil, testLogger())
	o.Start(context.Background())
	defer o.Stop()

	job := NewJob("a.txt", "", []byte("first\n\nsecond"))
	if err := o.Submit(job); err != nil {
		t.Fatalf("submit: %v", err)
	}
	snap := waitDone(t, job)
	if snap.Status != StatusCompleted || snap.Progress.Paragraphs != 2 {
		t.Errorf("unexpected final snapshot %+v", snap)
	}
	if o.GetJob(job.ID) != job {
		t.Error("expected job to be retrievable")
	}
	if o.FindDuplicate([]byte("first\n\nsecond")) != job {
		t.Error("expected duplicate lookup by content")
	}
	if o.Stats().Snapshot().Jobs != 1 {
		t.Error("expected stats to record the job")
	}
}

func TestOrchestrator_QueueFull(t *testing.T) {
	cfg := config.Config{WorkerCount: 1, MaxQueueSize: 1, JobTTL: time.Hour}
	b := content.NewBuilder(content.BuildConfig{}, testLogger(), nil)
	o := NewOrchestrator(cfg, b, nil, testLogger())
	// Workers are not started, so the queue never drains.

	if err := o.Submit(NewJob("a.txt", "", []byte("a"))); err != nil {
		t.Fatalf("first submit: %v", err)
	}
	second := NewJob("b.txt", "", []byte("b"))
	if err := o.Submit(second); err == nil {
		t.Fatal("expected queue full error")
	}
	if snap := second.Snapshot(); snap.Status != StatusFailed || snap.Phase != "queue_full" {
		t.Errorf("expected queue_full failure, got %q %q", snap.Status, snap.Phase)
	}
	if o.QueueDepth() != 1 {
		t.Errorf("expected queue depth 1, got %d", o.QueueDepth())
	}
}
