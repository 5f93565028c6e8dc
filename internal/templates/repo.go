package templates

import "context"

// TemplatesRepo defines persistence operations for templates.
type TemplatesRepo interface {
	Create(ctx context.Context, tpl Template) error
	GetCurrent(ctx context.Context, userID string, kind Kind) (Template, error)
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]Template, error)
}
