package util

import "testing"

func TestHashUserKey(t *testing.T) {
	id := "guest:3f2a"
	got := HashUserKey(id)
	if got != HashUserKey(id) {
		t.Fatalf("expected stable hash, got %s", got)
	}
	if got == HashUserKey("guest:3f2b") {
		t.Fatalf("distinct users must not collide on %s", got)
	}
	for _, ch := range got {
		if !((ch >= 'a' && ch <= 'f') || (ch >= '0' && ch <= '9')) {
			t.Fatalf("hash contains non-hex character: %c", ch)
		}
	}
	if len(got) != userKeyLen {
		t.Fatalf("expected %d hex characters, got %d", userKeyLen, len(got))
	}
}
