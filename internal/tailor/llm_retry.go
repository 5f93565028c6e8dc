package tailor

import (
	"context"
	"time"

	"tailor-backend/internal/llm"
	"tailor-backend/internal/shared/telemetry"
)

const generateRetryDelay = 300 * time.Millisecond

// retryingGenerator retries a failed generation once after a short delay.
// Only failures the generation boundary marks retryable get the second
// attempt; context cancellation passes straight through.
type retryingGenerator struct {
	base      llm.Client
	jobID     string
	requestID string
}

func newRetryingGenerator(base llm.Client, jobID, requestID string) llm.Client {
	if base == nil {
		return nil
	}
	return retryingGenerator{
		base:      base,
		jobID:     jobID,
		requestID: requestID,
	}
}

func (r retryingGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	out, err := r.base.Generate(ctx, prompt)
	if err == nil || !llm.Retryable(err) {
		return out, err
	}

	telemetry.Warn("generation.retry", map[string]any{
		"request_id": r.requestID,
		"job_id":     r.jobID,
		"kind":       llm.FailureKind(err),
		"error":      sanitizeError(err),
	})
	select {
	case <-time.After(generateRetryDelay):
	case <-ctx.Done():
		return "", ctx.Err()
	}

	return r.base.Generate(ctx, prompt)
}
