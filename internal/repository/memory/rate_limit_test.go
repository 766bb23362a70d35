package memory

import (
	"context"
	"sync"
	"testing"
	"time"
)

func TestRateLimitStoreIncr(t *testing.T) {
	current := time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)
	store := NewRateLimitStore().WithClock(func() time.Time { return current })
	ctx := context.Background()

	count, reset, err := store.Incr(ctx, "signup:ip", time.Minute)
	if err != nil {
		t.Fatalf("Incr returned error: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected first hit to count 1, got %d", count)
	}
	if want := current.Add(time.Minute); !reset.Equal(want) {
		t.Fatalf("expected reset %v, got %v", want, reset)
	}

	count, _, _ = store.Incr(ctx, "signup:ip", time.Minute)
	if count != 2 {
		t.Fatalf("expected second hit to count 2, got %d", count)
	}
}

func TestRateLimitStoreWindowRollover(t *testing.T) {
	current := time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)
	store := NewRateLimitStore().WithClock(func() time.Time { return current })
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if _, _, err := store.Incr(ctx, "login:user", time.Minute); err != nil {
			t.Fatalf("Incr returned error: %v", err)
		}
	}

	// Inside the window the count keeps climbing.
	current = current.Add(59 * time.Second)
	count, _, _ := store.Incr(ctx, "login:user", time.Minute)
	if count != 6 {
		t.Fatalf("expected 6 inside window, got %d", count)
	}

	// At the reset boundary a new window opens.
	current = current.Add(2 * time.Second)
	count, reset, _ := store.Incr(ctx, "login:user", time.Minute)
	if count != 1 {
		t.Fatalf("expected fresh window to count 1, got %d", count)
	}
	if want := current.Add(time.Minute); !reset.Equal(want) {
		t.Fatalf("expected reset %v, got %v", want, reset)
	}
}

func TestRateLimitStoreConcurrentIncrements(t *testing.T) {
	store := NewRateLimitStore()
	ctx := context.Background()

	const goroutines = 50
	const perGoroutine = 20

	var wg sync.WaitGroup
	wg.Add(goroutines)
	for i := 0; i < goroutines; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < perGoroutine; j++ {
				if _, _, err := store.Incr(ctx, "shared", time.Hour); err != nil {
					t.Errorf("Incr returned error: %v", err)
					return
				}
			}
		}()
	}
	wg.Wait()

	count, _, err := store.Incr(ctx, "shared", time.Hour)
	if err != nil {
		t.Fatalf("Incr returned error: %v", err)
	}
	if want := int64(goroutines*perGoroutine + 1); count != want {
		t.Fatalf("expected no lost updates, want %d got %d", want, count)
	}
}

func TestRateLimitStoreSweep(t *testing.T) {
	current := time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)
	store := NewRateLimitStore().WithClock(func() time.Time { return current })
	ctx := context.Background()

	store.Incr(ctx, "a", time.Minute)
	store.Incr(ctx, "b", time.Hour)

	current = current.Add(2 * time.Minute)
	if removed := store.Sweep(); removed != 1 {
		t.Fatalf("expected 1 swept window, got %d", removed)
	}
}
