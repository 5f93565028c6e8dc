package queue

import (
	"reflect"
	"testing"
	"time"
)

func TestMessageRoundTrip(t *testing.T) {
	msg := NewMessage("job-123", "guest:u1", "request-456", time.Date(2026, 1, 30, 22, 0, 0, 0, time.UTC))
	if msg.EnqueuedAt != "2026-01-30T22:00:00Z" {
		t.Fatalf("unexpected EnqueuedAt: %s", msg.EnqueuedAt)
	}

	payload, err := EncodeMessage(msg)
	if err != nil {
		t.Fatalf("encode message: %v", err)
	}

	got, err := DecodeMessage(payload)
	if err != nil {
		t.Fatalf("decode message: %v", err)
	}

	if !reflect.DeepEqual(got, msg) {
		t.Fatalf("round trip mismatch: got %+v want %+v", got, msg)
	}
}

func TestDecodeRejectsMissingJobID(t *testing.T) {
	if _, err := DecodeMessage([]byte(`{"userId":"guest:u1","version":1}`)); err == nil {
		t.Fatal("expected error for missing jobId")
	}
}

func TestDecodeRejectsUnknownVersion(t *testing.T) {
	if _, err := DecodeMessage([]byte(`{"jobId":"job-1","version":99}`)); err == nil {
		t.Fatal("expected error for unsupported version")
	}
}

func TestDecodeRejectsMalformedJSON(t *testing.T) {
	if _, err := DecodeMessage([]byte(`{"jobId":`)); err == nil {
		t.Fatal("expected error for malformed payload")
	}
}
