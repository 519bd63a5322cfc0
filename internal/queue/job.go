package queue

import (
	"time"

	"github.com/google/uuid"
)

// Status is the lifecycle state of a narration job.
type Status string

const (
	StatusQueued    Status = "queued"
	StatusRunning   Status = "running"
	StatusDone      Status = "done"
	StatusFailed    Status = "failed"
	StatusCancelled Status = "cancelled"
	StatusExpired   Status = "expired"
)

// Finished reports whether the status is terminal.
func (s Status) Finished() bool {
	switch s {
	case StatusDone, StatusFailed, StatusCancelled, StatusExpired:
		return true
	}
	return false
}

// NarrationJob is one narration request waiting for, or done with, rendering.
// Fields below the blank line are owned by the queue and read through Snapshot.
type NarrationJob struct {
	ID        string
	Text      string
	Voice     string
	Engine    string
	Interrupt bool
	TTL       time.Duration
	DedupeKey string
	CreatedAt time.Time
	ExpiresAt time.Time

	status     Status
	startedAt  time.Time
	finishedAt time.Time
	err        string
	result     any
}

// NewNarrationJob creates a new narration job with a unique ID.
func NewNarrationJob(text, voice string, interrupt bool, ttl time.Duration, dedupeKey string) *NarrationJob {
	now := time.Now()
	job := &NarrationJob{
		ID:        uuid.New().String(),
		Text:      text,
		Voice:     voice,
		Interrupt: interrupt,
		TTL:       ttl,
		DedupeKey: dedupeKey,
		CreatedAt: now,
		status:    StatusQueued,
	}

	if ttl > 0 {
		job.ExpiresAt = now.Add(ttl)
	}

	return job
}

// IsExpired returns true if the job has passed its TTL.
func (j *NarrationJob) IsExpired() bool {
	if j.ExpiresAt.IsZero() {
		return false
	}
	return time.Now().After(j.ExpiresAt)
}

// Snapshot is a point-in-time copy of a job, safe to hand to other goroutines.
type Snapshot struct {
	ID         string     `json:"id"`
	Status     Status     `json:"status"`
	Voice      string     `json:"voice,omitempty"`
	Engine     string     `json:"engine,omitempty"`
	TextLength int        `json:"text_length"`
	CreatedAt  time.Time  `json:"created_at"`
	StartedAt  *time.Time `json:"started_at,omitempty"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
	Error      string     `json:"error,omitempty"`
	Result     any        `json:"-"`
}

func (j *NarrationJob) snapshot() Snapshot {
	s := Snapshot{
		ID:         j.ID,
		Status:     j.status,
		Voice:      j.Voice,
		Engine:     j.Engine,
		TextLength: len(j.Text),
		CreatedAt:  j.CreatedAt,
		Error:      j.err,
		Result:     j.result,
	}
	if !j.startedAt.IsZero() {
		t := j.startedAt
		s.StartedAt = &t
	}
	if !j.finishedAt.IsZero() {
		t := j.finishedAt
		s.FinishedAt = &t
	}
	return s
}
