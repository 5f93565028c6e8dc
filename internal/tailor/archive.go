package tailor

import (
	"archive/zip"
	"bytes"
	"fmt"
	"strings"
	"time"

	"tailor-backend/internal/shared/util"
)

// buildArchive packages the rendered documents as a zip bundle. Entry
// names and order are fixed and the mod time comes from the job, so the
// same job always produces byte-identical archive metadata.
func buildArchive(resume, letter []byte, format string, modTime time.Time) ([]byte, error) {
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)

	entries := []struct {
		name string
		data []byte
	}{
		{"tailored_resume." + format, resume},
		{"cover_letter." + format, letter},
	}
	for _, entry := range entries {
		header := &zip.FileHeader{
			Name:     entry.name,
			Method:   zip.Deflate,
			Modified: modTime.UTC(),
		}
		f, err := w.CreateHeader(header)
		if err != nil {
			return nil, fmt.Errorf("zip entry %s: %w", entry.name, err)
		}
		if _, err := f.Write(entry.data); err != nil {
			return nil, fmt.Errorf("zip entry %s: %w", entry.name, err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("close zip: %w", err)
	}
	return buf.Bytes(), nil
}

// archiveFileName builds the client-facing download name from the job
// metadata, e.g. "acme_corp_staff_engineer_application.zip".
func archiveFileName(company, title string) string {
	parts := make([]string, 0, 2)
	if s := util.Slug(company); s != "" {
		parts = append(parts, s)
	}
	if s := util.Slug(title); s != "" {
		parts = append(parts, s)
	}
	parts = append(parts, "application.zip")
	return strings.Join(parts, "_")
}
