package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
)

func newTestRepository(t *testing.T) (*RateLimitRepository, *miniredis.Miniredis) {
	t.Helper()
	srv := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	repo := NewRateLimitRepository(client, SlidingWindowConfig{KeyPrefix: "test:rl", TTL: time.Hour})
	return repo, srv
}

func TestRateLimitCountWithinWindow(t *testing.T) {
	repo, _ := newTestRepository(t)
	ctx := context.Background()
	now := time.Now()

	for i := 0; i < 3; i++ {
		if err := repo.RecordAttempt(ctx, "ada@example.com", now.Add(time.Duration(i)*time.Second)); err != nil {
			t.Fatalf("RecordAttempt returned error: %v", err)
		}
	}

	count, err := repo.CountAttempts(ctx, "ada@example.com", time.Minute, now.Add(3*time.Second))
	if err != nil {
		t.Fatalf("CountAttempts returned error: %v", err)
	}
	if count != 3 {
		t.Fatalf("expected 3 attempts, got %d", count)
	}

	count, err = repo.CountAttempts(ctx, "other@example.com", time.Minute, now)
	if err != nil {
		t.Fatalf("CountAttempts returned error: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected isolated identifiers, got %d", count)
	}
}

func TestRateLimitTrimDropsOldAttempts(t *testing.T) {
	repo, _ := newTestRepository(t)
	ctx := context.Background()
	now := time.Now()

	if err := repo.RecordAttempt(ctx, "ada@example.com", now.Add(-2*time.Minute)); err != nil {
		t.Fatalf("RecordAttempt returned error: %v", err)
	}
	if err := repo.RecordAttempt(ctx, "ada@example.com", now); err != nil {
		t.Fatalf("RecordAttempt returned error: %v", err)
	}

	if err := repo.TrimWindow(ctx, "ada@example.com", time.Minute, now); err != nil {
		t.Fatalf("TrimWindow returned error: %v", err)
	}

	count, err := repo.CountAttempts(ctx, "ada@example.com", 10*time.Minute, now)
	if err != nil {
		t.Fatalf("CountAttempts returned error: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected stale attempt trimmed, got %d remaining", count)
	}
}

func TestRateLimitOldestAttempt(t *testing.T) {
	repo, _ := newTestRepository(t)
	ctx := context.Background()
	now := time.Now()

	first := now.Add(-30 * time.Second)
	if err := repo.RecordAttempt(ctx, "ada@example.com", first); err != nil {
		t.Fatalf("RecordAttempt returned error: %v", err)
	}
	if err := repo.RecordAttempt(ctx, "ada@example.com", now); err != nil {
		t.Fatalf("RecordAttempt returned error: %v", err)
	}

	oldest, ok, err := repo.OldestAttempt(ctx, "ada@example.com", time.Minute, now)
	if err != nil {
		t.Fatalf("OldestAttempt returned error: %v", err)
	}
	if !ok {
		t.Fatal("expected an attempt inside the window")
	}
	if !oldest.Equal(first) {
		t.Fatalf("expected oldest %v, got %v", first, oldest)
	}

	_, ok, err = repo.OldestAttempt(ctx, "empty@example.com", time.Minute, now)
	if err != nil {
		t.Fatalf("OldestAttempt returned error: %v", err)
	}
	if ok {
		t.Fatal("expected no attempts for unseen identifier")
	}
}

func TestRateLimitWindowValidation(t *testing.T) {
	repo, _ := newTestRepository(t)
	ctx := context.Background()

	if _, err := repo.CountAttempts(ctx, "x", 0, time.Now()); err == nil {
		t.Fatal("expected error for non-positive window")
	}
	if err := repo.TrimWindow(ctx, "x", -time.Second, time.Now()); err == nil {
		t.Fatal("expected error for negative window")
	}
}
