package tailor

import (
	"context"
	"time"

	"tailor-backend/internal/keywords"
)

// Completion carries everything a finished pipeline writes back in one
// update, so a job never becomes visible half-completed.
type Completion struct {
	Keywords          []keywords.Keyword
	Degraded          bool
	CoverLetterStatus string
	FailureReason     string
	ArtifactKey       string
	ArtifactFormat    string
	CompletedAt       time.Time
}

// Repo defines persistence operations for tailor jobs.
type Repo interface {
	Create(ctx context.Context, job Job) error
	GetByID(ctx context.Context, jobID string) (Job, error)
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]Job, error)
	MarkProcessing(ctx context.Context, jobID string, startedAt time.Time) error
	Complete(ctx context.Context, jobID string, result Completion) error
	Fail(ctx context.Context, jobID, errorCode, reason string, completedAt time.Time) error
}
