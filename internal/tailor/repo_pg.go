package tailor

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

const jobColumns = `
id, user_id, job_title, company, job_description, top_n, status, keywords,
degraded, cover_letter_status, failure_reason, error_code, artifact_key,
artifact_format, request_id, created_at, started_at, completed_at, updated_at`

// Create inserts a new job.
func (r *PGRepo) Create(ctx context.Context, job Job) error {
	const query = `
INSERT INTO tailor_jobs (
	id, user_id, job_title, company, job_description, top_n, status,
	request_id, created_at, updated_at
)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $9)`
	_, err := r.DB.ExecContext(ctx, query,
		job.ID,
		job.UserID,
		job.JobTitle,
		job.Company,
		job.JobDescription,
		job.TopN,
		job.Status,
		nullableString(job.RequestID),
		job.CreatedAt,
	)
	return err
}

// GetByID returns a job by ID.
func (r *PGRepo) GetByID(ctx context.Context, jobID string) (Job, error) {
	query := `SELECT ` + jobColumns + ` FROM tailor_jobs WHERE id = $1 LIMIT 1`
	job, err := scanJob(r.DB.QueryRowContext(ctx, query, jobID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Job{}, ErrNotFound
		}
		return Job{}, err
	}
	return job, nil
}

// ListByUser lists jobs for a user ordered newest-first.
func (r *PGRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]Job, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	query := `SELECT ` + jobColumns + `
FROM tailor_jobs
WHERE user_id = $1
ORDER BY created_at DESC
LIMIT $2 OFFSET $3`

	rows, err := r.DB.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Job
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, job)
	}
	return out, rows.Err()
}

// MarkProcessing transitions a queued job to processing.
func (r *PGRepo) MarkProcessing(ctx context.Context, jobID string, startedAt time.Time) error {
	const query = `
UPDATE tailor_jobs
SET status = $1, started_at = $2, updated_at = now()
WHERE id = $3`
	res, err := r.DB.ExecContext(ctx, query, StatusProcessing, startedAt, jobID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// Complete writes the pipeline result and marks the job completed.
func (r *PGRepo) Complete(ctx context.Context, jobID string, result Completion) error {
	const query = `
UPDATE tailor_jobs
SET status = $1,
    keywords = $2::jsonb,
    degraded = $3,
    cover_letter_status = $4,
    failure_reason = NULLIF($5, ''),
    artifact_key = $6,
    artifact_format = $7,
    completed_at = $8,
    updated_at = now()
WHERE id = $9`

	payload, err := json.Marshal(result.Keywords)
	if err != nil {
		return err
	}
	res, err := r.DB.ExecContext(ctx, query,
		StatusCompleted,
		payload,
		result.Degraded,
		result.CoverLetterStatus,
		result.FailureReason,
		result.ArtifactKey,
		result.ArtifactFormat,
		result.CompletedAt,
		jobID,
	)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// Fail marks the job failed with a classified code and sanitized reason.
func (r *PGRepo) Fail(ctx context.Context, jobID, errorCode, reason string, completedAt time.Time) error {
	const query = `
UPDATE tailor_jobs
SET status = $1,
    error_code = $2,
    failure_reason = $3,
    completed_at = $4,
    updated_at = now()
WHERE id = $5`
	res, err := r.DB.ExecContext(ctx, query, StatusFailed, errorCode, reason, completedAt, jobID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

var _ Repo = (*PGRepo)(nil)

type rowScanner interface {
	Scan(dest ...any) error
}

func scanJob(row rowScanner) (Job, error) {
	var job Job
	var keywordsJSON sql.NullString
	var coverStatus sql.NullString
	var failureReason sql.NullString
	var errorCode sql.NullString
	var artifactKey sql.NullString
	var artifactFormat sql.NullString
	var requestID sql.NullString
	var startedAt sql.NullTime
	var completedAt sql.NullTime

	if err := row.Scan(
		&job.ID,
		&job.UserID,
		&job.JobTitle,
		&job.Company,
		&job.JobDescription,
		&job.TopN,
		&job.Status,
		&keywordsJSON,
		&job.Degraded,
		&coverStatus,
		&failureReason,
		&errorCode,
		&artifactKey,
		&artifactFormat,
		&requestID,
		&job.CreatedAt,
		&startedAt,
		&completedAt,
		&job.UpdatedAt,
	); err != nil {
		return Job{}, err
	}

	if keywordsJSON.Valid && keywordsJSON.String != "" {
		if err := json.Unmarshal([]byte(keywordsJSON.String), &job.Keywords); err != nil {
			job.Keywords = nil
		}
	}
	if coverStatus.Valid {
		job.CoverLetterStatus = coverStatus.String
	}
	if failureReason.Valid {
		job.FailureReason = failureReason.String
	}
	if errorCode.Valid {
		job.ErrorCode = errorCode.String
	}
	if artifactKey.Valid {
		job.ArtifactKey = artifactKey.String
	}
	if artifactFormat.Valid {
		job.ArtifactFormat = artifactFormat.String
	}
	if requestID.Valid {
		job.RequestID = requestID.String
	}
	if startedAt.Valid {
		job.StartedAt = &startedAt.Time
	}
	if completedAt.Valid {
		job.CompletedAt = &completedAt.Time
	}
	return job, nil
}

func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
