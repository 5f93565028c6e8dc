package templates

import "errors"

var (
	// ErrNotFound indicates no template exists for the requested user and kind.
	ErrNotFound = errors.New("template not found")
	// ErrInvalidInput indicates a missing or malformed upload field.
	ErrInvalidInput = errors.New("invalid input")
	// ErrUnsupportedFile indicates the upload is not a format text can be extracted from.
	ErrUnsupportedFile = errors.New("unsupported file format")
	// ErrEmptyDocument indicates the upload contained no extractable text.
	ErrEmptyDocument = errors.New("document contains no extractable text")
)
