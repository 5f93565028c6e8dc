package tailor

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func newPGTestRepo(t *testing.T) (*PGRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return &PGRepo{DB: db}, mock
}

func TestPGRepoCreateInsertsQueuedJob(t *testing.T) {
	repo, mock := newPGTestRepo(t)
	createdAt := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	job := Job{
		ID:             "job-1",
		UserID:         "guest:u1",
		JobTitle:       "Staff Engineer",
		Company:        "Acme",
		JobDescription: "jd text",
		TopN:           10,
		Status:         StatusQueued,
		CreatedAt:      createdAt,
		UpdatedAt:      createdAt,
	}

	mock.ExpectExec("INSERT INTO tailor_jobs").
		WithArgs(
			job.ID,
			job.UserID,
			job.JobTitle,
			job.Company,
			job.JobDescription,
			job.TopN,
			job.Status,
			nil, // request_id absent
			createdAt,
		).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := repo.Create(context.Background(), job); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoGetByIDScansNullableColumns(t *testing.T) {
	repo, mock := newPGTestRepo(t)
	createdAt := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	startedAt := createdAt.Add(time.Second)
	completedAt := createdAt.Add(3 * time.Second)

	rows := sqlmock.NewRows([]string{
		"id", "user_id", "job_title", "company", "job_description", "top_n",
		"status", "keywords", "degraded", "cover_letter_status",
		"failure_reason", "error_code", "artifact_key", "artifact_format",
		"request_id", "created_at", "started_at", "completed_at", "updated_at",
	}).AddRow(
		"job-1", "guest:u1", "Staff Engineer", "Acme", "jd text", 10,
		StatusCompleted, `[{"term":"kubernetes","weight":53.2,"count":3}]`,
		false, CoverGenerated,
		nil, nil, "artifacts/u/job-1/application.zip", "txt",
		nil, createdAt, startedAt, completedAt, completedAt,
	)
	mock.ExpectQuery("SELECT (.+) FROM tailor_jobs WHERE id").
		WithArgs("job-1").
		WillReturnRows(rows)

	job, err := repo.GetByID(context.Background(), "job-1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if job.Status != StatusCompleted || job.ArtifactFormat != "txt" {
		t.Fatalf("unexpected job: %+v", job)
	}
	if len(job.Keywords) != 1 || job.Keywords[0].Term != "kubernetes" || job.Keywords[0].Count != 3 {
		t.Fatalf("keywords not decoded: %+v", job.Keywords)
	}
	if job.FailureReason != "" || job.ErrorCode != "" {
		t.Fatalf("expected empty failure fields, got %+v", job)
	}
	if job.StartedAt == nil || !job.StartedAt.Equal(startedAt) {
		t.Fatalf("startedAt not scanned: %v", job.StartedAt)
	}
	if job.CompletedAt == nil || !job.CompletedAt.Equal(completedAt) {
		t.Fatalf("completedAt not scanned: %v", job.CompletedAt)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoCompleteWritesResult(t *testing.T) {
	repo, mock := newPGTestRepo(t)
	completedAt := time.Date(2026, 3, 14, 10, 0, 3, 0, time.UTC)
	completion := Completion{
		Degraded:          true,
		CoverLetterStatus: CoverUnavailable,
		FailureReason:     "generation_unavailable",
		ArtifactKey:       "artifacts/u/job-1/application.zip",
		ArtifactFormat:    "txt",
		CompletedAt:       completedAt,
	}

	mock.ExpectExec("UPDATE tailor_jobs").
		WithArgs(
			StatusCompleted,
			sqlmock.AnyArg(), // keywords jsonb
			completion.Degraded,
			completion.CoverLetterStatus,
			completion.FailureReason,
			completion.ArtifactKey,
			completion.ArtifactFormat,
			completion.CompletedAt,
			"job-1",
		).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Complete(context.Background(), "job-1", completion); err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoMarkProcessingUnknownJob(t *testing.T) {
	repo, mock := newPGTestRepo(t)
	startedAt := time.Date(2026, 3, 14, 10, 0, 1, 0, time.UTC)

	mock.ExpectExec("UPDATE tailor_jobs").
		WithArgs(StatusProcessing, startedAt, "missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.MarkProcessing(context.Background(), "missing", startedAt)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}
