package pipeline

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestNewJob(t *testing.T) {
	since := time.Now().Add(-24 * time.Hour)
	job := NewJob(since)

	if _, err := uuid.Parse(job.ID); err != nil {
		t.Errorf("expected uuid job id, got %q: %v", job.ID, err)
	}
	if job.Status != StatusQueued {
		t.Errorf("expected status %q, got %q", StatusQueued, job.Status)
	}
	if !job.Since.Equal(since) {
		t.Errorf("expected since %v, got %v", since, job.Since)
	}
	if NewJob(since).ID == job.ID {
		t.Error("expected distinct ids")
	}
}

func TestJob_StateTransitions(t *testing.T) {
	job := NewJob(time.Now())

	transitions := []struct {
		status JobStatus
		phase  string
	}{
		{StatusRunning, "clearing"},
		{StatusRetrying, "retry 1"},
		{StatusRunning, "clearing"},
		{StatusCompleted, "done"},
	}

	for _, tr := range transitions {
		before := job.UpdatedAt
		// Small sleep to ensure time difference is detectable.
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

func TestJob_AddError(t *testing.T) {
	job := NewJob(time.Now())
	job.AddError("bridge timeout")
	job.AddError("bridge refused")

	snap := job.Snapshot()
	if len(snap.Errors) != 2 {
		t.Fatalf("expected 2 errors, got %d", len(snap.Errors))
	}
	if snap.Errors[0] != "bridge timeout" {
		t.Errorf("expected first error %q, got %q", "bridge timeout", snap.Errors[0])
	}

	// The snapshot owns its slice.
	snap.Errors[0] = "changed"
	if job.Snapshot().Errors[0] != "bridge timeout" {
		t.Error("expected snapshot errors to be a copy")
	}
}

func TestJob_IncrAttempts(t *testing.T) {
	job := NewJob(time.Now())
	job.IncrAttempts()
	if n := job.IncrAttempts(); n != 2 {
		t.Errorf("expected 2 attempts, got %d", n)
	}
	if snap := job.Snapshot(); snap.Attempts != 2 {
		t.Errorf("expected snapshot attempts 2, got %d", snap.Attempts)
	}
}

func TestJob_SnapshotErrorsNotNil(t *testing.T) {
	snap := NewJob(time.Now()).Snapshot()
	if snap.Errors == nil {
		t.Error("expected non-nil errors slice in snapshot")
	}
	if snap.Done() {
		t.Error("queued job should not be done")
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

func TestJobStore_TTLCleanup(t *testing.T) {
	store := NewJobStore(50 * time.Millisecond)

	expired := &Job{ID: "old", UpdatedAt: time.Now()}
	store.Put(expired)

	// Wait for the TTL to pass.
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
}
