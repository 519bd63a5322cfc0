package queue

import (
	"testing"
	"time"
)

func TestNewNarrationJob(t *testing.T) {
	job := NewNarrationJob("Il pleuvait sur la ville.", "fr-siwis", false, 5*time.Second, "key123")

	if job.ID == "" {
		t.Error("expected non-empty job ID")
	}
	if job.Text != "Il pleuvait sur la ville." {
		t.Errorf("unexpected text %q", job.Text)
	}
	if job.Voice != "fr-siwis" {
		t.Errorf("expected voice 'fr-siwis', got '%s'", job.Voice)
	}
	if job.TTL != 5*time.Second {
		t.Errorf("expected TTL 5s, got %v", job.TTL)
	}
	if job.DedupeKey != "key123" {
		t.Errorf("expected dedupe_key 'key123', got '%s'", job.DedupeKey)
	}
	if job.ExpiresAt.IsZero() {
		t.Error("expected non-zero expires_at when TTL is set")
	}
	if job.status != StatusQueued {
		t.Errorf("expected status queued, got %s", job.status)
	}
}

func TestNewNarrationJobNoTTL(t *testing.T) {
	job := NewNarrationJob("Hello", "", false, 0, "")

	if !job.ExpiresAt.IsZero() {
		t.Error("expected zero expires_at when TTL is zero")
	}
	if job.IsExpired() {
		t.Error("job with no TTL should not be expired")
	}
}

func TestIsExpired(t *testing.T) {
	job := NewNarrationJob("Hello", "", false, time.Hour, "")
	if job.IsExpired() {
		t.Error("job with future expiry should not be expired")
	}

	job = NewNarrationJob("Hello", "", false, time.Millisecond, "")
	time.Sleep(5 * time.Millisecond)
	if !job.IsExpired() {
		t.Error("job with past expiry should be expired")
	}
}

func TestJobIDsAreUnique(t *testing.T) {
	job1 := NewNarrationJob("Hello", "", false, 0, "")
	job2 := NewNarrationJob("Hello", "", false, 0, "")

	if job1.ID == job2.ID {
		t.Error("expected unique job IDs")
	}
}

func TestStatusFinished(t *testing.T) {
	tests := []struct {
		status Status
		want   bool
	}{
		{StatusQueued, false},
		{StatusRunning, false},
		{StatusDone, true},
		{StatusFailed, true},
		{StatusCancelled, true},
		{StatusExpired, true},
	}
	for _, tt := range tests {
		if got := tt.status.Finished(); got != tt.want {
			t.Errorf("%s.Finished() = %v, want %v", tt.status, got, tt.want)
		}
	}
}

func TestSnapshotCopiesTimes(t *testing.T) {
	job := NewNarrationJob("Hello", "", false, 0, "")
	s := job.snapshot()
	if s.StartedAt != nil || s.FinishedAt != nil {
		t.Errorf("expected nil times for a queued job, got %+v", s)
	}

	job.startedAt = time.Now()
	job.finishedAt = job.startedAt.Add(time.Second)
	s = job.snapshot()
	if s.StartedAt == nil || s.FinishedAt == nil {
		t.Fatal("expected times to be set")
	}
	job.startedAt = time.Time{}
	if s.StartedAt.IsZero() {
		t.Error("snapshot should not alias job fields")
	}
	if s.TextLength != 5 {
		t.Errorf("TextLength = %d, want 5", s.TextLength)
	}
}
