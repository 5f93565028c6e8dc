package tailor

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryRepo stores jobs in memory and is safe for concurrent use.
type MemoryRepo struct {
	mu     sync.RWMutex
	byID   map[string]Job
	byUser map[string][]string
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		byID:   make(map[string]Job),
		byUser: make(map[string][]string),
	}
}

// Create stores the job.
func (r *MemoryRepo) Create(ctx context.Context, job Job) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[job.ID] = job
	r.byUser[job.UserID] = append(r.byUser[job.UserID], job.ID)
	return nil
}

// GetByID returns a job by its ID.
func (r *MemoryRepo) GetByID(ctx context.Context, jobID string) (Job, error) {
	if err := ctx.Err(); err != nil {
		return Job{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	job, ok := r.byID[jobID]
	if !ok {
		return Job{}, ErrNotFound
	}
	return job, nil
}

// ListByUser returns jobs for a user, newest first, with limit/offset.
func (r *MemoryRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]Job, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if offset < 0 {
		offset = 0
	}
	if limit < 0 {
		limit = 0
	}

	r.mu.RLock()
	ids := r.byUser[userID]
	jobs := make([]Job, 0, len(ids))
	for _, id := range ids {
		jobs = append(jobs, r.byID[id])
	}
	r.mu.RUnlock()

	sort.Slice(jobs, func(i, j int) bool {
		return jobs[i].CreatedAt.After(jobs[j].CreatedAt)
	})

	if offset >= len(jobs) {
		return []Job{}, nil
	}
	end := len(jobs)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return jobs[offset:end], nil
}

// MarkProcessing transitions a queued job to processing.
func (r *MemoryRepo) MarkProcessing(ctx context.Context, jobID string, startedAt time.Time) error {
	return r.update(ctx, jobID, func(job *Job) {
		job.Status = StatusProcessing
		job.StartedAt = &startedAt
	})
}

// Complete writes the pipeline result and marks the job completed.
func (r *MemoryRepo) Complete(ctx context.Context, jobID string, result Completion) error {
	return r.update(ctx, jobID, func(job *Job) {
		job.Status = StatusCompleted
		job.Keywords = result.Keywords
		job.Degraded = result.Degraded
		job.CoverLetterStatus = result.CoverLetterStatus
		job.FailureReason = result.FailureReason
		job.ArtifactKey = result.ArtifactKey
		job.ArtifactFormat = result.ArtifactFormat
		completedAt := result.CompletedAt
		job.CompletedAt = &completedAt
	})
}

// Fail marks the job failed with a classified code and sanitized reason.
func (r *MemoryRepo) Fail(ctx context.Context, jobID, errorCode, reason string, completedAt time.Time) error {
	return r.update(ctx, jobID, func(job *Job) {
		job.Status = StatusFailed
		job.ErrorCode = errorCode
		job.FailureReason = reason
		job.CompletedAt = &completedAt
	})
}

func (r *MemoryRepo) update(ctx context.Context, jobID string, apply func(*Job)) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	job, ok := r.byID[jobID]
	if !ok {
		return ErrNotFound
	}
	apply(&job)
	job.UpdatedAt = time.Now().UTC()
	r.byID[jobID] = job
	return nil
}

var _ Repo = (*MemoryRepo)(nil)
