package pipeline

import (
	"crypto/sha256"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// JobStatus represents the state of a report export job.
type JobStatus string

const (
	StatusQueued    JobStatus = "queued"
	StatusResolving JobStatus = "resolving"
	StatusStitching JobStatus = "stitching"
	StatusReporting JobStatus = "reporting"
	StatusRendering JobStatus = "rendering"
	StatusCompleted JobStatus = "completed"
	StatusFailed    JobStatus = "failed"
	StatusPartial   JobStatus = "partial"
)

// Done reports whether the status is final.
func (s JobStatus) Done() bool {
	return s == StatusCompleted || s == StatusFailed || s == StatusPartial
}

// Job tracks the state of a single report export.
type Job struct {
	mu sync.Mutex

	ID     string `json:"job_id"`
	File   string `json:"file"`
	Title  string `json:"title"`
	Stitch bool   `json:"stitch"`

	Status JobStatus `json:"status"`
	Phase  string    `json:"phase"`

	Progress Progress `json:"progress"`

	ContentHash string    `json:"content_hash,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Internal: not serialized.
	result []byte
	errors []string
}

// Progress tracks processing progress.
type Progress struct {
	Imports    int      `json:"imports"`
	Stitched   int      `json:"stitched"`
	Unresolved int      `json:"unresolved"`
	Rows       int      `json:"rows"`
	Errors     []string `json:"errors"`
}

// NewJob returns a queued export job for file with a fresh id.
func NewJob(file, title string, stitch bool) *Job {
	now := time.Now()
	return &Job{
		ID:        uuid.NewString(),
		File:      file,
		Title:     title,
		Stitch:    stitch,
		Status:    StatusQueued,
		Phase:     "queued",
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// JobStore is a thread-safe in-memory job registry with TTL eviction.
type JobStore struct {
	mu   sync.Mutex
	jobs map[string]*Job
	ttl  time.Duration
}

func NewJobStore(ttl time.Duration) *JobStore {
	return &JobStore{
		jobs: make(map[string]*Job),
		ttl:  ttl,
	}
}

func (s *JobStore) Put(job *Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.ID] = job
}

func (s *JobStore) Get(id string) *Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.jobs[id]
}

// Len returns the number of tracked jobs.
func (s *JobStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.jobs)
}

// Cleanup removes expired jobs.
func (s *JobStore) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	for id, job := range s.jobs {
		job.mu.Lock()
		updated := job.UpdatedAt
		job.mu.Unlock()
		if now.Sub(updated) > s.ttl {
			delete(s.jobs, id)
		}
	}
}

// SetStatus updates job status atomically.
func (j *Job) SetStatus(status JobStatus, phase string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Status = status
	j.Phase = phase
	j.UpdatedAt = time.Now()
}

// AddError records an error.
func (j *Job) AddError(err string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.errors = append(j.errors, err)
	j.Progress.Errors = j.errors
	j.UpdatedAt = time.Now()
}

// SetImports records how many imports the source document holds and how
// many seams auto-stitch established.
func (j *Job) SetImports(imports, stitched int) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Progress.Imports = imports
	j.Progress.Stitched = stitched
	j.UpdatedAt = time.Now()
}

// SetRows records the report size and the imports left unresolved.
func (j *Job) SetRows(rows, unresolved int) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Progress.Rows = rows
	j.Progress.Unresolved = unresolved
	j.UpdatedAt = time.Now()
}

// SetResult stores the rendered document and its hash.
func (j *Job) SetResult(data []byte) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.result = data
	j.ContentHash = ContentHashHex(data)
	j.UpdatedAt = time.Now()
}

// Result returns the rendered document, nil until rendering finished.
func (j *Job) Result() []byte {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.result
}

// JobSnapshot is a read-only, JSON-safe copy of job state.
type JobSnapshot struct {
	ID          string    `json:"job_id"`
	File        string    `json:"file"`
	Title       string    `json:"title"`
	Stitch      bool      `json:"stitch"`
	Status      JobStatus `json:"status"`
	Phase       string    `json:"phase"`
	Progress    Progress  `json:"progress"`
	ContentHash string    `json:"content_hash,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Snapshot returns a JSON-safe copy of the job state.
func (j *Job) Snapshot() JobSnapshot {
	j.mu.Lock()
	defer j.mu.Unlock()
	errs := make([]string, len(j.errors))
	copy(errs, j.errors)
	return JobSnapshot{
		ID:          j.ID,
		File:        j.File,
		Title:       j.Title,
		Stitch:      j.Stitch,
		Status:      j.Status,
		Phase:       j.Phase,
		ContentHash: j.ContentHash,
		CreatedAt:   j.CreatedAt,
		UpdatedAt:   j.UpdatedAt,
		Progress: Progress{
			Imports:    j.Progress.Imports,
			Stitched:   j.Progress.Stitched,
			Unresolved: j.Progress.Unresolved,
			Rows:       j.Progress.Rows,
			Errors:     errs,
		},
	}
}

// ContentHashHex computes SHA-256 of content and returns hex string.
func ContentHashHex(data []byte) string {
	h := sha256.Sum256(data)
	return fmt.Sprintf("%x", h[:])
}
