package tailor

import "errors"

var (
	ErrNotFound           = errors.New("not found")
	ErrTemplateMissing    = errors.New("template missing")
	ErrNotReady           = errors.New("job not completed")
	ErrPresignUnavailable = errors.New("presigned downloads not supported by this store")
)

// Stable machine codes stored on failed jobs.
const (
	ErrorCodeTemplateMissing = "TEMPLATE_MISSING"
	ErrorCodeEmptyResume     = "EMPTY_RESUME"
	ErrorCodeRender          = "RENDER_ERROR"
	ErrorCodeStorage         = "STORAGE_ERROR"
	ErrorCodeInternal        = "INTERNAL_ERROR"
)
