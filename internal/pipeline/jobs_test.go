package pipeline

import (
	"testing"
	"time"

	"github.com/dgallion1/examstyle/internal/content"
)

func TestContentHashHex_Consistency(t *testing.T) {
	data := []byte("hello world")
	h1 := ContentHashHex(data)
	h2 := ContentHashHex(data)
	if h1 != h2 {
		t.Errorf("expected identical hashes, got %q and %q", h1, h2)
	}
	// SHA-256 of "hello world" is well-known.
	want := "b94d27b9934d3e08a52e52d7da7dabfac484efe37a5380ee9088f7ace2efcde9"
	if h1 != want {
		t.Errorf("expected hash %q, got %q", want, h1)
	}
}

func TestNewJob(t *testing.T) {
	job := NewJob("passage.md", "시간", []byte("hello world"))
	if job.ID == "" {
		t.Fatal("expected job ID")
	}
	if job.Status != StatusQueued || job.Phase != "queued" {
		t.Errorf("expected queued job, got %q %q", job.Status, job.Phase)
	}
	if job.ContentHash != ContentHashHex([]byte("hello world")) {
		t.Errorf("unexpected content hash %q", job.ContentHash)
	}
	if string(job.FileData()) != "hello world" {
		t.Errorf("expected file data to be kept, got %q", job.FileData())
	}
	if other := NewJob("x.txt", "", nil); other.ID == job.ID {
		t.Error("expected unique job IDs")
	}
}

func TestJob_StateTransitions(t *testing.T) {
	job := &Job{
		ID:        "test-1",
		Status:    StatusQueued,
		Phase:     "queued",
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	transitions := []struct {
		status JobStatus
		phase  string
	}{
		{StatusParsing, "parsing"},
		{StatusStyling, "styling"},
		{StatusCompleted, "done"},
	}

	for _, tr := range transitions {
		before := job.UpdatedAt
		time.Sleep(time.Millisecond)
		job.SetStatus(tr.status, tr.phase)

		if job.Status != tr.status {
			t.Errorf("expected status %q, got %q", tr.status, job.Status)
		}
		if job.Phase != tr.phase {
			t.Errorf("expected phase %q, got %q", tr.phase, job.Phase)
		}
		if !job.UpdatedAt.After(before) {
			t.Errorf("expected UpdatedAt to advance after SetStatus(%q)", tr.status)
		}
	}
}

func TestJobStatus_Done(t *testing.T) {
	for status, want := range map[JobStatus]bool{
		StatusQueued:    false,
		StatusParsing:   false,
		StatusStyling:   false,
		StatusCompleted: true,
		StatusPartial:   true,
		StatusFailed:    true,
	} {
		if got := status.Done(); got != want {
			t.Errorf("%s.Done() = %v, want %v", status, got, want)
		}
	}
}

func TestJob_AddError(t *testing.T) {
	job := &Job{ID: "err-test", UpdatedAt: time.Now()}
	job.AddError("paragraph 3 rejected")
	job.AddError("paragraph 7 rejected")

	snap := job.Snapshot()
	if len(snap.Progress.Errors) != 2 {
		t.Fatalf("expected 2 errors, got %d", len(snap.Progress.Errors))
	}
	if snap.Progress.Errors[0] != "paragraph 3 rejected" {
		t.Errorf("expected first error %q, got %q", "paragraph 3 rejected", snap.Progress.Errors[0])
	}
}

func TestJob_SetResult(t *testing.T) {
	job := NewJob("a.txt", "", []byte("abc"))
	sess := &content.Session{Passage: content.Passage{Paragraphs: make([]content.Paragraph, 2)}}
	rep := content.Report{
		Valid:    true,
		Warnings: []string{"no problems were generated"},
		Fields: []content.FieldReport{
			{Path: "passage.paragraphs[0]", Valid: true, Warnings: []string{"range 0: no style flags set"}},
			{Path: "passage.paragraphs[1]", Unstyled: true, Errors: []string{"range 0: end (9) exceeds text length (3)"}},
		},
	}
	job.SetResult(sess, rep)

	snap := job.Snapshot()
	want := Progress{Paragraphs: 2, Fields: 2, FieldsUnstyled: 1, Warnings: 2, Errors: []string{}}
	if snap.Progress.Paragraphs != want.Paragraphs || snap.Progress.Fields != want.Fields ||
		snap.Progress.FieldsUnstyled != want.FieldsUnstyled || snap.Progress.Warnings != want.Warnings {
		t.Errorf("expected progress %+v, got %+v", want, snap.Progress)
	}
	if job.FileData() != nil {
		t.Error("expected file data to be released")
	}
	gotSess, gotRep := job.Result()
	if gotSess != sess || len(gotRep.Fields) != 2 {
		t.Error("expected stored result")
	}
}

func TestJob_SnapshotErrorsNotNil(t *testing.T) {
	job := &Job{ID: "snap-test", UpdatedAt: time.Now()}
	snap := job.Snapshot()
	if snap.Progress.Errors == nil {
		t.Error("expected non-nil errors slice in snapshot")
	}
	if len(snap.Progress.Errors) != 0 {
		t.Errorf("expected empty errors, got %d", len(snap.Progress.Errors))
	}
}

func TestJobStore_PutGet(t *testing.T) {
	store := NewJobStore(time.Hour)
	job := &Job{ID: "store-1", UpdatedAt: time.Now()}
	store.Put(job)

	got := store.Get("store-1")
	if got == nil {
		t.Fatal("expected to get job back")
	}
	if got.ID != "store-1" {
		t.Errorf("expected ID %q, got %q", "store-1", got.ID)
	}
	if store.Get("nonexistent") != nil {
		t.Error("expected nil for missing job")
	}
}

func TestJobStore_FindByHash(t *testing.T) {
	store := NewJobStore(time.Hour)
	failed := NewJob("a.txt", "", []byte("same"))
	failed.SetStatus(StatusFailed, "parsing")
	store.Put(failed)

	if store.FindByHash(ContentHashHex([]byte("same"))) != nil {
		t.Error("expected failed job to be ignored")
	}

	live := NewJob("b.txt", "", []byte("same"))
	store.Put(live)
	if got := store.FindByHash(ContentHashHex([]byte("same"))); got != live {
		t.Errorf("expected live job, got %v", got)
	}
}

func TestJobStore_TTLCleanup(t *testing.T) {
	store := NewJobStore(50 * time.Millisecond)

	expired := &Job{ID: "old", UpdatedAt: time.Now()}
	store.Put(expired)

	time.Sleep(100 * time.Millisecond)

	fresh := &Job{ID: "new", UpdatedAt: time.Now()}
	store.Put(fresh)

	store.Cleanup()

	if store.Get("old") != nil {
		t.Error("expected expired job to be cleaned up")
	}
	if store.Get("new") == nil {
		t.Error("expected fresh job to survive cleanup")
	}
	if store.Len() != 1 {
		t.Errorf("expected 1 job left, got %d", store.Len())
	}
}
