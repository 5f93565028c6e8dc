package templates

import "time"

// Kind distinguishes the two template roles a user uploads.
type Kind string

const (
	KindResume      Kind = "resume"
	KindCoverLetter Kind = "cover_letter"
)

// ValidKind reports whether k is a known template kind.
func ValidKind(k Kind) bool {
	return k == KindResume || k == KindCoverLetter
}

// Template represents an uploaded resume or cover letter template owned by a user.
type Template struct {
	ID         string
	UserID     string
	Kind       Kind
	FileName   string
	MimeType   string
	SizeBytes  int64
	StorageKey string
	TextKey    string
	CreatedAt  time.Time
}
