package openai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"tailor-backend/internal/llm"
)

func testClient(t *testing.T, handler http.HandlerFunc) (*Client, func()) {
	t.Helper()
	srv := httptest.NewServer(handler)
	c := &Client{
		apiURL:     srv.URL,
		apiKey:     "test-key",
		model:      "gpt-4o-mini",
		httpClient: &http.Client{Timeout: time.Second},
	}
	return c, srv.Close
}

func TestNewClientValidation(t *testing.T) {
	if _, err := NewClient("", "gpt-4o-mini"); err == nil {
		t.Error("missing api key should fail")
	}
	if _, err := NewClient("key", ""); err == nil {
		t.Error("missing model should fail")
	}
	if _, err := NewClient("key", "gpt-4o-mini"); err != nil {
		t.Errorf("valid args: %v", err)
	}
}

func TestGenerate(t *testing.T) {
	var got chatRequest
	c, done := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if auth := r.Header.Get("Authorization"); auth != "Bearer test-key" {
			t.Errorf("auth header = %q", auth)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Fatalf("decode: %v", err)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]string{"role": "assistant", "content": " Dear Acme Team, ... "}},
			},
			"usage": map[string]int{"prompt_tokens": 10, "completion_tokens": 20, "total_tokens": 30},
		})
	})
	defer done()

	text, err := c.Generate(context.Background(), "the prompt")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if text != "Dear Acme Team, ..." {
		t.Errorf("text = %q", text)
	}
	if got.Model != "gpt-4o-mini" || len(got.Messages) != 2 || got.Messages[1].Content != "the prompt" {
		t.Errorf("request = %+v", got)
	}
}

func TestGenerateErrors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		want    error
	}{
		{
			name: "api error envelope",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusTooManyRequests)
				w.Write([]byte(`{"error":{"message":"rate limited","type":"rate_limit"}}`))
			},
			want: llm.ErrUnavailable,
		},
		{
			name: "no choices",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"choices":[]}`))
			},
			want: llm.ErrMalformedResponse,
		},
		{
			name: "empty content",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"  "}}]}`))
			},
			want: llm.ErrMalformedResponse,
		},
		{
			name: "garbage body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte("nope"))
			},
			want: llm.ErrMalformedResponse,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, done := testClient(t, tt.handler)
			defer done()
			_, err := c.Generate(context.Background(), "p")
			if !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestGenerateTimeout(t *testing.T) {
	c, done := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	})
	defer done()
	c.httpClient.Timeout = 20 * time.Millisecond

	_, err := c.Generate(context.Background(), "p")
	if !errors.Is(err, llm.ErrTimeout) {
		t.Errorf("err = %v, want timeout", err)
	}
}
