package object

import (
	"context"
	"io"
	"time"
)

// ObjectStore defines the contract for saving and retrieving binary objects.
type ObjectStore interface {
	Save(ctx context.Context, userID string, fileName string, r io.Reader) (storageKey string, sizeBytes int64, mimeType string, err error)
	SaveWithKey(ctx context.Context, storageKey string, contentType string, r io.Reader) (int64, error)
	Open(ctx context.Context, storageKey string) (io.ReadCloser, error)
}

// Presigner is implemented by stores that can hand out time-limited
// download URLs. The local store does not; callers fall back to streaming.
type Presigner interface {
	PresignGet(ctx context.Context, storageKey string, expires time.Duration) (string, error)
}

// Prober is implemented by stores that can cheaply verify the backing
// storage is reachable. Readiness checks use it when available.
type Prober interface {
	Probe(ctx context.Context) error
}
