package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestFailureKind(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{err: nil, want: ""},
		{err: ErrTimeout, want: FailureTimeout},
		{err: fmt.Errorf("%w: deadline", ErrTimeout), want: FailureTimeout},
		{err: ErrMalformedResponse, want: FailureMalformed},
		{err: ErrUnavailable, want: FailureUnavailable},
		{err: errors.New("mystery"), want: FailureUnavailable},
	}
	for _, tt := range tests {
		if got := FailureKind(tt.err); got != tt.want {
			t.Errorf("FailureKind(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}

func TestRetryable(t *testing.T) {
	if Retryable(nil) {
		t.Error("nil error should not retry")
	}
	if Retryable(context.Canceled) {
		t.Error("cancellation should not retry")
	}
	for _, err := range []error{ErrUnavailable, ErrTimeout, ErrMalformedResponse} {
		if !Retryable(fmt.Errorf("wrapped: %w", err)) {
			t.Errorf("%v should retry", err)
		}
	}
}

func TestBuildCoverLetterPrompt(t *testing.T) {
	prompt := BuildCoverLetterPrompt(PromptInput{
		JobTitle:       "Backend Engineer",
		Company:        "Acme",
		JobDescription: "Build Go services",
		Keywords:       []string{"go", "postgres", "docker"},
		ResumeText:     "JANE DOE resume body",
		CoverTemplate:  "Dear Whomever, template body",
	})
	for _, want := range []string{
		"Backend Engineer",
		"Acme",
		"Build Go services",
		"go, postgres, docker",
		"JANE DOE resume body",
		"Dear Whomever, template body",
		"Dear Acme Team,",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
	if strings.Contains(prompt, "{{") {
		t.Errorf("unreplaced placeholder in prompt:\n%s", prompt)
	}
}

func TestBuildCoverLetterPromptNoKeywords(t *testing.T) {
	prompt := BuildCoverLetterPrompt(PromptInput{JobTitle: "X", Company: "Y"})
	if !strings.Contains(prompt, "none identified") {
		t.Error("empty keyword list should be spelled out")
	}
}

func TestPlaceholderClient(t *testing.T) {
	c := PlaceholderClient{}
	first, err := c.Generate(context.Background(), "anything")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	second, _ := c.Generate(context.Background(), "something else")
	if first != second {
		t.Error("placeholder output should be deterministic")
	}
	if !strings.Contains(first, "Dear Hiring Team,") {
		t.Errorf("unexpected letter: %q", first)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := c.Generate(ctx, "p"); !errors.Is(err, context.Canceled) {
		t.Errorf("cancelled ctx: err = %v", err)
	}
}
