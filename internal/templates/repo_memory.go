package templates

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepo is an in-memory implementation of TemplatesRepo.
type MemoryRepo struct {
	mu   sync.RWMutex
	data map[string][]Template // userID -> templates
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		data: make(map[string][]Template),
	}
}

// Create appends a template for a user.
func (r *MemoryRepo) Create(ctx context.Context, tpl Template) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[tpl.UserID] = append(r.data[tpl.UserID], tpl)
	return nil
}

// GetCurrent returns the most recent template of the given kind for a user.
func (r *MemoryRepo) GetCurrent(ctx context.Context, userID string, kind Kind) (Template, error) {
	if err := ctx.Err(); err != nil {
		return Template{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	tpls := r.data[userID]
	for i := len(tpls) - 1; i >= 0; i-- {
		if tpls[i].Kind == kind {
			return tpls[i], nil
		}
	}
	return Template{}, ErrNotFound
}

// ListByUser returns templates for a user, newest first, honoring limit/offset.
func (r *MemoryRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]Template, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if offset < 0 {
		offset = 0
	}
	if limit < 0 {
		limit = 0
	}

	r.mu.RLock()
	userTpls := r.data[userID]
	r.mu.RUnlock()

	if len(userTpls) == 0 || offset >= len(userTpls) {
		return []Template{}, nil
	}

	tpls := make([]Template, len(userTpls))
	copy(tpls, userTpls)
	sort.Slice(tpls, func(i, j int) bool {
		return tpls[i].CreatedAt.After(tpls[j].CreatedAt)
	})

	end := len(tpls)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}

	return tpls[offset:end], nil
}

var _ TemplatesRepo = (*MemoryRepo)(nil)
