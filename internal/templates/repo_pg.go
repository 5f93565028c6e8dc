package templates

import (
	"context"
	"database/sql"
	"errors"
)

// PGRepo implements TemplatesRepo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// Create inserts a new template.
func (r *PGRepo) Create(ctx context.Context, tpl Template) error {
	const query = `
INSERT INTO templates (
    id,
    user_id,
    kind,
    file_name,
    mime_type,
    size_bytes,
    storage_key,
    text_key,
    created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	var mimeType sql.NullString
	if tpl.MimeType != "" {
		mimeType = sql.NullString{String: tpl.MimeType, Valid: true}
	}
	var storageKey sql.NullString
	if tpl.StorageKey != "" {
		storageKey = sql.NullString{String: tpl.StorageKey, Valid: true}
	}
	var textKey sql.NullString
	if tpl.TextKey != "" {
		textKey = sql.NullString{String: tpl.TextKey, Valid: true}
	}

	_, err := r.DB.ExecContext(
		ctx,
		query,
		tpl.ID,
		tpl.UserID,
		string(tpl.Kind),
		tpl.FileName,
		mimeType,
		tpl.SizeBytes,
		storageKey,
		textKey,
		tpl.CreatedAt,
	)
	return err
}

// GetCurrent returns the latest template of a kind for a user.
func (r *PGRepo) GetCurrent(ctx context.Context, userID string, kind Kind) (Template, error) {
	const query = `
SELECT id, user_id, kind, file_name, mime_type, size_bytes, storage_key, text_key, created_at
FROM templates
WHERE user_id = $1 AND kind = $2 AND deleted_at IS NULL
ORDER BY created_at DESC
LIMIT 1`
	row := r.DB.QueryRowContext(ctx, query, userID, string(kind))
	tpl, err := scanTemplate(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Template{}, ErrNotFound
		}
		return Template{}, err
	}
	return tpl, nil
}

// ListByUser lists templates ordered newest-first.
func (r *PGRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]Template, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	const query = `
SELECT id, user_id, kind, file_name, mime_type, size_bytes, storage_key, text_key, created_at
FROM templates
WHERE user_id = $1 AND deleted_at IS NULL
ORDER BY created_at DESC
LIMIT $2 OFFSET $3`

	rows, err := r.DB.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Template
	for rows.Next() {
		tpl, err := scanTemplate(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, tpl)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTemplate(row rowScanner) (Template, error) {
	var tpl Template
	var kind string
	var mimeType sql.NullString
	var storageKey sql.NullString
	var textKey sql.NullString
	err := row.Scan(
		&tpl.ID,
		&tpl.UserID,
		&kind,
		&tpl.FileName,
		&mimeType,
		&tpl.SizeBytes,
		&storageKey,
		&textKey,
		&tpl.CreatedAt,
	)
	if err != nil {
		return Template{}, err
	}
	tpl.Kind = Kind(kind)
	if mimeType.Valid {
		tpl.MimeType = mimeType.String
	}
	if storageKey.Valid {
		tpl.StorageKey = storageKey.String
	}
	if textKey.Valid {
		tpl.TextKey = textKey.String
	}
	return tpl, nil
}

var _ TemplatesRepo = (*PGRepo)(nil)
