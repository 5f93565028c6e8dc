package templates

import (
	"context"
	"database/sql"
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

func TestPGRepoCreateInsertsTemplate(t *testing.T) {
	repo, mock := newPGTestRepo(t)
	createdAt := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	tpl := Template{
		ID:         "tpl-1",
		UserID:     "guest:u1",
		Kind:       KindResume,
		FileName:   "resume.pdf",
		MimeType:   "application/pdf",
		SizeBytes:  2048,
		StorageKey: "u/abc_resume.pdf",
		TextKey:    "u/abc_resume.pdf.normalized.txt",
		CreatedAt:  createdAt,
	}

	mock.ExpectExec("INSERT INTO templates").
		WithArgs(
			tpl.ID,
			tpl.UserID,
			string(tpl.Kind),
			tpl.FileName,
			tpl.MimeType,
			tpl.SizeBytes,
			tpl.StorageKey,
			tpl.TextKey,
			createdAt,
		).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := repo.Create(context.Background(), tpl); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoCreateNullsEmptyOptionals(t *testing.T) {
	repo, mock := newPGTestRepo(t)
	createdAt := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	tpl := Template{
		ID:        "tpl-2",
		UserID:    "guest:u1",
		Kind:      KindCoverLetter,
		FileName:  "cover.txt",
		SizeBytes: 128,
		CreatedAt: createdAt,
	}

	mock.ExpectExec("INSERT INTO templates").
		WithArgs(
			tpl.ID,
			tpl.UserID,
			string(tpl.Kind),
			tpl.FileName,
			nil, // mime_type
			tpl.SizeBytes,
			nil, // storage_key
			nil, // text_key
			createdAt,
		).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := repo.Create(context.Background(), tpl); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoGetCurrentScansRow(t *testing.T) {
	repo, mock := newPGTestRepo(t)
	createdAt := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)

	rows := sqlmock.NewRows([]string{
		"id", "user_id", "kind", "file_name", "mime_type", "size_bytes",
		"storage_key", "text_key", "created_at",
	}).AddRow(
		"tpl-1", "guest:u1", string(KindResume), "resume.pdf",
		"application/pdf", int64(2048), "u/abc_resume.pdf", nil, createdAt,
	)
	mock.ExpectQuery("SELECT (.+) FROM templates").
		WithArgs("guest:u1", string(KindResume)).
		WillReturnRows(rows)

	tpl, err := repo.GetCurrent(context.Background(), "guest:u1", KindResume)
	if err != nil {
		t.Fatalf("GetCurrent: %v", err)
	}
	if tpl.ID != "tpl-1" || tpl.Kind != KindResume || tpl.MimeType != "application/pdf" {
		t.Fatalf("unexpected template: %+v", tpl)
	}
	if tpl.TextKey != "" {
		t.Fatalf("null text_key should scan empty, got %q", tpl.TextKey)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoGetCurrentNotFound(t *testing.T) {
	repo, mock := newPGTestRepo(t)

	mock.ExpectQuery("SELECT (.+) FROM templates").
		WithArgs("guest:u1", string(KindCoverLetter)).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetCurrent(context.Background(), "guest:u1", KindCoverLetter)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoListByUserScansRows(t *testing.T) {
	repo, mock := newPGTestRepo(t)
	createdAt := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)

	rows := sqlmock.NewRows([]string{
		"id", "user_id", "kind", "file_name", "mime_type", "size_bytes",
		"storage_key", "text_key", "created_at",
	}).AddRow(
		"tpl-2", "guest:u1", string(KindCoverLetter), "cover.txt",
		"text/plain", int64(128), "u/def_cover.txt", "u/def_cover.txt.normalized.txt", createdAt,
	).AddRow(
		"tpl-1", "guest:u1", string(KindResume), "resume.pdf",
		"application/pdf", int64(2048), "u/abc_resume.pdf", nil, createdAt.Add(-time.Hour),
	)
	mock.ExpectQuery("SELECT (.+) FROM templates").
		WithArgs("guest:u1", 20, 0).
		WillReturnRows(rows)

	tpls, err := repo.ListByUser(context.Background(), "guest:u1", 0, 0)
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(tpls) != 2 || tpls[0].ID != "tpl-2" || tpls[1].ID != "tpl-1" {
		t.Fatalf("unexpected templates: %+v", tpls)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}
