package usage

import (
	"context"
	"errors"
	"testing"
	"time"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestConsumeStopsAtDailyLimit(t *testing.T) {
	st := newMemoryStore(2)
	st.now = fixedClock(time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC))
	svc := &Service{store: st}
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if _, err := svc.Consume(ctx, "guest:u1", 1); err != nil {
			t.Fatalf("consume %d: %v", i+1, err)
		}
	}

	_, err := svc.Consume(ctx, "guest:u1", 1)
	if !errors.Is(err, ErrLimitReached) {
		t.Fatalf("expected ErrLimitReached, got %v", err)
	}

	u, err := svc.Get(ctx, "guest:u1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if u.Used != 2 || u.Remaining() != 0 {
		t.Fatalf("unexpected usage after limit: %+v", u)
	}
}

func TestCounterRollsOverAtUTCMidnight(t *testing.T) {
	st := newMemoryStore(5)
	beforeMidnight := time.Date(2026, 3, 14, 23, 59, 0, 0, time.UTC)
	st.now = fixedClock(beforeMidnight)
	svc := &Service{store: st}
	ctx := context.Background()

	if _, err := svc.Consume(ctx, "guest:u1", 3); err != nil {
		t.Fatalf("consume: %v", err)
	}
	u, _ := svc.Get(ctx, "guest:u1")
	wantReset := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	if !u.ResetsAt.Equal(wantReset) {
		t.Fatalf("ResetsAt = %v, want %v", u.ResetsAt, wantReset)
	}

	st.now = fixedClock(time.Date(2026, 3, 15, 0, 1, 0, 0, time.UTC))
	u, err := svc.Get(ctx, "guest:u1")
	if err != nil {
		t.Fatalf("get after rollover: %v", err)
	}
	if u.Used != 0 {
		t.Fatalf("expected fresh counter after midnight, got used=%d", u.Used)
	}
	if !u.ResetsAt.Equal(time.Date(2026, 3, 16, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("ResetsAt not advanced: %v", u.ResetsAt)
	}
}

func TestResetZeroesCurrentDay(t *testing.T) {
	st := newMemoryStore(5)
	st.now = fixedClock(time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC))
	svc := &Service{store: st}
	ctx := context.Background()

	if _, err := svc.Consume(ctx, "guest:u1", 4); err != nil {
		t.Fatalf("consume: %v", err)
	}
	u, err := svc.Reset(ctx, "guest:u1")
	if err != nil {
		t.Fatalf("reset: %v", err)
	}
	if u.Used != 0 || u.Remaining() != 5 {
		t.Fatalf("unexpected usage after reset: %+v", u)
	}
}

func TestUsersAreIsolated(t *testing.T) {
	st := newMemoryStore(1)
	st.now = fixedClock(time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC))
	svc := &Service{store: st}
	ctx := context.Background()

	if _, err := svc.Consume(ctx, "guest:a", 1); err != nil {
		t.Fatalf("consume a: %v", err)
	}
	if _, err := svc.Consume(ctx, "guest:b", 1); err != nil {
		t.Fatalf("consume b should not share a's counter: %v", err)
	}
}
