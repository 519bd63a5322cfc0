package queue

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"
)

var (
	// ErrQueueFull is returned when the queue is at capacity.
	ErrQueueFull = errors.New("queue is full")
	// ErrQueueClosed is returned when attempting to enqueue to a closed queue.
	ErrQueueClosed = errors.New("queue is closed")
	// ErrDuplicateJob is returned when a job with the same dedupe key exists.
	ErrDuplicateJob = errors.New("duplicate job")
)

// DefaultMaxRetained caps how many finished jobs are kept for lookup.
const DefaultMaxRetained = 256

// Handler renders one job. The returned value is stored as the job result.
type Handler func(ctx context.Context, job *NarrationJob) (any, error)

// CompletedCallback is called after a job reaches a terminal status.
type CompletedCallback func(Snapshot)

// Queue is a bounded queue with a single rendering worker. Finished jobs stay
// readable by ID until the retention window passes.
type Queue struct {
	mu            sync.Mutex
	pending       []*NarrationJob
	jobs          map[string]*NarrationJob
	finished      []*NarrationJob
	capacity      int
	retention     time.Duration
	maxRetained   int
	dedupeKeys    map[string]bool
	logger        *slog.Logger
	closed        bool
	handler       Handler
	onCompleted   CompletedCallback
	current       *NarrationJob
	cancelCurrent context.CancelFunc
	wg            sync.WaitGroup
	stopCh        chan struct{}
	enqueueCh     chan struct{}
}

// NewQueue creates a new bounded queue. A zero retention keeps finished jobs
// until the DefaultMaxRetained cap evicts them.
func NewQueue(capacity int, retention time.Duration, logger *slog.Logger) *Queue {
	return &Queue{
		pending:     make([]*NarrationJob, 0, capacity),
		jobs:        make(map[string]*NarrationJob),
		capacity:    capacity,
		retention:   retention,
		maxRetained: DefaultMaxRetained,
		dedupeKeys:  make(map[string]bool),
		logger:      logger,
		stopCh:      make(chan struct{}),
		enqueueCh:   make(chan struct{}, 1),
	}
}

// SetHandler sets the function called to render each job.
func (q *Queue) SetHandler(fn Handler) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.handler = fn
}

// SetJobCompletedCallback sets the function called when a job finishes.
func (q *Queue) SetJobCompletedCallback(fn CompletedCallback) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.onCompleted = fn
}

// Enqueue adds a job to the queue.
func (q *Queue) Enqueue(job *NarrationJob) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return ErrQueueClosed
	}

	if len(q.pending) >= q.capacity {
		return ErrQueueFull
	}

	if job.DedupeKey != "" && q.dedupeKeys[job.DedupeKey] {
		return ErrDuplicateJob
	}

	job.status = StatusQueued
	q.pending = append(q.pending, job)
	q.jobs[job.ID] = job
	if job.DedupeKey != "" {
		q.dedupeKeys[job.DedupeKey] = true
	}

	q.logger.Debug("job enqueued", "job_id", job.ID, "queue_depth", len(q.pending))

	select {
	case q.enqueueCh <- struct{}{}:
	default:
	}

	return nil
}

// Interrupt cancels the running job and every pending one.
func (q *Queue) Interrupt() {
	q.mu.Lock()

	if q.cancelCurrent != nil {
		q.cancelCurrent()
		q.cancelCurrent = nil
	}

	cleared := q.pending
	q.pending = make([]*NarrationJob, 0, q.capacity)
	q.dedupeKeys = make(map[string]bool)

	var done []Snapshot
	for _, job := range cleared {
		done = append(done, q.finishLocked(job, StatusCancelled, "interrupted", nil))
	}
	callback := q.onCompleted
	q.mu.Unlock()

	q.logger.Info("queue interrupted", "jobs_cleared", len(cleared))
	if callback != nil {
		for _, s := range done {
			callback(s)
		}
	}
}

// Len returns the number of pending jobs.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

// Get returns a snapshot of the job with the given ID.
func (q *Queue) Get(id string) (Snapshot, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.pruneLocked(time.Now())
	job, ok := q.jobs[id]
	if !ok {
		return Snapshot{}, false
	}
	return job.snapshot(), true
}

// Start begins the rendering worker goroutine.
func (q *Queue) Start() {
	q.wg.Add(1)
	go q.worker()
}

// Stop gracefully stops the worker. Pending jobs are left queued.
func (q *Queue) Stop() {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.closed = true
	if q.cancelCurrent != nil {
		q.cancelCurrent()
	}
	q.mu.Unlock()

	close(q.stopCh)
	q.wg.Wait()
}

func (q *Queue) worker() {
	defer q.wg.Done()

	for {
		select {
		case <-q.stopCh:
			return
		default:
		}

		if job := q.dequeue(); job != nil {
			q.processJob(job)
			continue
		}

		select {
		case <-q.stopCh:
			return
		case <-q.enqueueCh:
		}
	}
}

// dequeue removes and returns the next live job. Expired jobs are finished
// on the way.
func (q *Queue) dequeue() *NarrationJob {
	q.mu.Lock()

	var expired []Snapshot
	var next *NarrationJob
	for len(q.pending) > 0 {
		job := q.pending[0]
		q.pending = q.pending[1:]

		if job.DedupeKey != "" {
			delete(q.dedupeKeys, job.DedupeKey)
		}

		if job.IsExpired() {
			q.logger.Debug("skipping expired job", "job_id", job.ID)
			expired = append(expired, q.finishLocked(job, StatusExpired, "ttl elapsed before rendering", nil))
			continue
		}

		next = job
		break
	}
	callback := q.onCompleted
	q.mu.Unlock()

	if callback != nil {
		for _, s := range expired {
			callback(s)
		}
	}
	return next
}

func (q *Queue) processJob(job *NarrationJob) {
	q.mu.Lock()
	handler := q.handler
	ctx, cancel := context.WithCancel(context.Background())
	q.cancelCurrent = cancel
	q.current = job
	job.status = StatusRunning
	job.startedAt = time.Now()
	q.mu.Unlock()

	defer cancel()

	var (
		result any
		err    error
	)
	if handler == nil {
		q.logger.Warn("no handler set, failing job", "job_id", job.ID)
		err = errors.New("no handler configured")
	} else {
		q.logger.Info("processing job", "job_id", job.ID, "text_length", len(job.Text))
		result, err = handler(ctx, job)
	}

	status := StatusDone
	msg := ""
	switch {
	case err == nil:
		q.logger.Info("job completed", "job_id", job.ID)
	case errors.Is(err, context.Canceled) || ctx.Err() != nil:
		status, msg = StatusCancelled, "interrupted"
		q.logger.Info("job cancelled", "job_id", job.ID)
	default:
		status, msg = StatusFailed, err.Error()
		q.logger.Error("job failed", "job_id", job.ID, "error", err)
	}

	q.mu.Lock()
	q.cancelCurrent = nil
	q.current = nil
	s := q.finishLocked(job, status, msg, result)
	callback := q.onCompleted
	q.mu.Unlock()

	if callback != nil {
		callback(s)
	}
}

// finishLocked records a terminal status. Callers hold q.mu.
func (q *Queue) finishLocked(job *NarrationJob, status Status, msg string, result any) Snapshot {
	now := time.Now()
	job.status = status
	job.err = msg
	job.result = result
	job.finishedAt = now
	q.finished = append(q.finished, job)
	q.pruneLocked(now)
	return job.snapshot()
}

// pruneLocked forgets finished jobs past retention or beyond the cap.
func (q *Queue) pruneLocked(now time.Time) {
	drop := 0
	for drop < len(q.finished) {
		job := q.finished[drop]
		overCap := q.maxRetained > 0 && len(q.finished)-drop > q.maxRetained
		stale := q.retention > 0 && now.Sub(job.finishedAt) > q.retention
		if !overCap && !stale {
			break
		}
		delete(q.jobs, job.ID)
		drop++
	}
	if drop > 0 {
		q.finished = append(q.finished[:0], q.finished[drop:]...)
	}
}
