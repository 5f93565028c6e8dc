package tailor

import (
	"time"

	"tailor-backend/internal/keywords"
)

// Job statuses. A job moves queued -> processing -> completed|failed and
// never leaves a terminal state.
const (
	StatusQueued     = "queued"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

// Cover-letter outcomes for a completed job. Unavailable means the job
// finished degraded: tailored resume present, letter replaced by a notice.
const (
	CoverGenerated   = "generated"
	CoverUnavailable = "unavailable"
)

// Job is one tailoring run: the posting the user submitted, the pipeline's
// extracted keywords, and the stored artifact bundle once it completes.
type Job struct {
	ID                string             `json:"id"`
	UserID            string             `json:"userId"`
	JobTitle          string             `json:"jobTitle"`
	Company           string             `json:"company"`
	JobDescription    string             `json:"jobDescription"`
	TopN              int                `json:"topN"`
	Status            string             `json:"status"`
	Keywords          []keywords.Keyword `json:"keywords,omitempty"`
	Degraded          bool               `json:"degraded"`
	CoverLetterStatus string             `json:"coverLetterStatus,omitempty"`
	FailureReason     string             `json:"failureReason,omitempty"`
	ErrorCode         string             `json:"errorCode,omitempty"`
	ArtifactKey       string             `json:"-"`
	ArtifactFormat    string             `json:"artifactFormat,omitempty"`
	RequestID         string             `json:"-"`
	CreatedAt         time.Time          `json:"createdAt"`
	StartedAt         *time.Time         `json:"startedAt,omitempty"`
	CompletedAt       *time.Time         `json:"completedAt,omitempty"`
	UpdatedAt         time.Time          `json:"updatedAt"`
}

// Terminal reports whether the job reached a final state.
func (j Job) Terminal() bool {
	return j.Status == StatusCompleted || j.Status == StatusFailed
}
