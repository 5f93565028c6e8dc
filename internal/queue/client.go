package queue

import (
	"context"
	"errors"
)

// ErrNotConfigured is returned by the noop enqueuer; callers treat it as
// "run the job inline instead".
var ErrNotConfigured = errors.New("job queue not configured")

// Enqueuer hands a job message to a queue backend.
type Enqueuer interface {
	Enqueue(ctx context.Context, msg Message) error
}

// NoopEnqueuer always refuses. It stands in where a queue is optional so
// wiring code can treat "no queue" and "queue" uniformly.
type NoopEnqueuer struct{}

func (NoopEnqueuer) Enqueue(ctx context.Context, msg Message) error {
	return ErrNotConfigured
}

var _ Enqueuer = NoopEnqueuer{}
