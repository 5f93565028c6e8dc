// Package llm defines the narrow boundary to the text-generation service.
// The pipeline only ever needs one capability, turning a prompt into a cover
// letter, so that is the whole interface; everything else (provider, model,
// transport, retries) stays behind it.
package llm

import (
	"context"
	"errors"
)

// Client generates text for a prompt. Implementations must honor ctx
// cancellation and return one of the sentinel errors below on failure so the
// pipeline can report why a cover letter is missing.
type Client interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Pinger is implemented by clients that can cheaply check whether the
// backing service is reachable. Health checks use it when available.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Failure sentinels for the generation boundary. Wrap them so errors.Is
// keeps working through call sites.
var (
	ErrUnavailable       = errors.New("generation service unavailable")
	ErrTimeout           = errors.New("generation request timed out")
	ErrMalformedResponse = errors.New("generation response malformed")
)

// Failure kinds as stored on jobs and counted in metrics.
const (
	FailureUnavailable = "generation_unavailable"
	FailureTimeout     = "generation_timeout"
	FailureMalformed   = "generation_malformed"
)

// FailureKind maps a generation error to its stable reporting code. Unknown
// errors count as unavailable: the caller got nothing usable either way.
func FailureKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrTimeout):
		return FailureTimeout
	case errors.Is(err, ErrMalformedResponse):
		return FailureMalformed
	default:
		return FailureUnavailable
	}
}

// Retryable reports whether a second attempt could plausibly succeed.
// Malformed responses retry (models are noisy), as do transient transport
// failures; context cancellation does not.
func Retryable(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return false
	}
	return errors.Is(err, ErrUnavailable) || errors.Is(err, ErrTimeout) || errors.Is(err, ErrMalformedResponse)
}

// PlaceholderClient returns a fixed letter without calling any service.
// Used in dev mode and tests where deterministic output matters more than
// prose quality.
type PlaceholderClient struct{}

const placeholderLetter = `Dear Hiring Team,

I am excited to apply for this position. My background closely matches the
role's requirements and I would welcome the chance to discuss how I can
contribute to your team.

Sincerely,
The Candidate`

func (PlaceholderClient) Generate(ctx context.Context, prompt string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return placeholderLetter, nil
}

func (PlaceholderClient) Ping(ctx context.Context) error { return ctx.Err() }

var _ Client = PlaceholderClient{}
var _ Pinger = PlaceholderClient{}
