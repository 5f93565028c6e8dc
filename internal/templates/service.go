package templates

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"tailor-backend/internal/extract"
	"tailor-backend/internal/normalize"
	"tailor-backend/internal/shared/storage/object"
)

// Service contains business logic for templates.
type Service struct {
	Store object.ObjectStore
	Repo  TemplatesRepo
}

// Upload validates, stores, and records a template. Text is extracted and
// normalized up front so a job never starts from an unreadable document.
func (s *Service) Upload(ctx context.Context, userID string, kind Kind, fileName, mimeType string, r io.Reader) (Template, error) {
	if !ValidKind(kind) {
		return Template{}, fmt.Errorf("%w: unknown template kind %q", ErrInvalidInput, kind)
	}
	if strings.TrimSpace(fileName) == "" {
		return Template{}, fmt.Errorf("%w: file name is required", ErrInvalidInput)
	}

	raw, err := io.ReadAll(r)
	if err != nil {
		return Template{}, fmt.Errorf("read upload: %w", err)
	}
	if len(raw) == 0 {
		return Template{}, fmt.Errorf("%w: file is empty", ErrInvalidInput)
	}

	text, err := extract.ExtractTextFromBytes(ctx, raw, mimeType, fileName)
	if err != nil {
		if strings.Contains(err.Error(), "unsupported mime type") {
			return Template{}, fmt.Errorf("%w: %s", ErrUnsupportedFile, mimeType)
		}
		return Template{}, fmt.Errorf("%w: %v", ErrUnsupportedFile, err)
	}

	normalized := normalize.Normalize(text)
	if strings.TrimSpace(normalized) == "" {
		return Template{}, ErrEmptyDocument
	}

	storageKey, size, detectedMime, err := s.Store.Save(ctx, userID, fileName, bytes.NewReader(raw))
	if err != nil {
		return Template{}, err
	}

	textKey := storageKey + ".normalized.txt"
	if _, err := s.Store.SaveWithKey(ctx, textKey, "text/plain; charset=utf-8", strings.NewReader(normalized)); err != nil {
		return Template{}, err
	}

	tpl := Template{
		ID:         uuid.NewString(),
		UserID:     userID,
		Kind:       kind,
		FileName:   fileName,
		MimeType:   detectedMime,
		SizeBytes:  size,
		StorageKey: storageKey,
		TextKey:    textKey,
		CreatedAt:  time.Now().UTC(),
	}

	if err := s.Repo.Create(ctx, tpl); err != nil {
		return Template{}, err
	}

	return tpl, nil
}

// Current returns the latest template of a kind for a user.
func (s *Service) Current(ctx context.Context, userID string, kind Kind) (Template, error) {
	if userID == "" {
		return Template{}, errors.New("user id required")
	}
	return s.Repo.GetCurrent(ctx, userID, kind)
}

// List returns templates for a user, newest first.
func (s *Service) List(ctx context.Context, userID string, limit, offset int) ([]Template, error) {
	if userID == "" {
		return nil, errors.New("user id required")
	}
	return s.Repo.ListByUser(ctx, userID, limit, offset)
}

// NormalizedText loads the normalized text of the current template of a kind.
// Templates uploaded before text persistence existed are extracted lazily.
func (s *Service) NormalizedText(ctx context.Context, userID string, kind Kind) (string, error) {
	tpl, err := s.Repo.GetCurrent(ctx, userID, kind)
	if err != nil {
		return "", err
	}

	if tpl.TextKey != "" {
		rc, err := s.Store.Open(ctx, tpl.TextKey)
		if err == nil {
			defer rc.Close()
			data, readErr := io.ReadAll(rc)
			if readErr == nil {
				return string(data), nil
			}
			err = readErr
		}
		return "", fmt.Errorf("open template text key=%s: %w", tpl.TextKey, err)
	}

	text, err := extract.ExtractText(ctx, s.Store, tpl.StorageKey, tpl.MimeType, tpl.FileName)
	if err != nil {
		return "", err
	}
	return normalize.Normalize(text), nil
}
