package services

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

func TestCooldownSecondsForFailCount(t *testing.T) {
	tests := []struct {
		failCount int
		want      int
	}{
		{0, 1},   // 2^0=1
		{1, 2},   // 2^1=2
		{2, 4},   // 2^2=4
		{3, 8},   // 2^3=8
		{4, 16},  // 2^4=16
		{5, 30},  // 2^5=32 -> cap 30
		{6, 30},  // 2^6=64 -> cap 30
		{10, 30}, // cap 30
		{100, 30},
	}
	for _, tt := range tests {
		got := CooldownSecondsForFailCount(tt.failCount)
		if got != tt.want {
			t.Errorf("CooldownSecondsForFailCount(%d) = %d, want %d", tt.failCount, got, tt.want)
		}
	}
}

func TestMemoryLoginThrottle(t *testing.T) {
	ctx := context.Background()
	clock := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	m := NewMemoryLoginThrottle()
	m.now = func() time.Time { return clock }
	key := ThrottleKey("admin", "10.0.0.1")

	if wait, _ := m.WaitSeconds(ctx, key); wait != 0 {
		t.Fatalf("fresh key wait = %d, want 0", wait)
	}

	_ = m.RecordFailure(ctx, key)
	if wait, _ := m.WaitSeconds(ctx, key); wait != 3 {
		t.Errorf("after one fail: wait = %d, want 3 (2s rounded up)", wait)
	}

	clock = clock.Add(3 * time.Second)
	if wait, _ := m.WaitSeconds(ctx, key); wait != 0 {
		t.Errorf("after cooldown expired: wait = %d, want 0", wait)
	}

	for i := 0; i < 8; i++ {
		_ = m.RecordFailure(ctx, key)
	}
	if wait, _ := m.WaitSeconds(ctx, key); wait > 31 {
		t.Errorf("after many fails: wait = %d, want <= 31 (cap)", wait)
	}

	// other clients are unaffected
	if wait, _ := m.WaitSeconds(ctx, ThrottleKey("admin", "10.0.0.2")); wait != 0 {
		t.Errorf("other client wait = %d, want 0", wait)
	}

	_ = m.RecordSuccess(ctx, key)
	if wait, _ := m.WaitSeconds(ctx, key); wait != 0 {
		t.Errorf("after success: wait = %d, want 0", wait)
	}
}

// Integration test for the Postgres throttle. Skips unless TEST_DATABASE_URL is set.
func TestPgLoginThrottle_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping throttle integration test in short mode")
	}
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("skipping throttle integration test: TEST_DATABASE_URL not set")
	}
	ctx := context.Background()
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer pool.Close()

	th := NewPgLoginThrottle(pool)
	key := ThrottleKey("throttle-test", "127.0.0.1")
	defer func() { _ = th.RecordSuccess(ctx, key) }()

	_ = th.RecordSuccess(ctx, key)
	wait, err := th.WaitSeconds(ctx, key)
	if err != nil {
		t.Fatalf("WaitSeconds after success: %v", err)
	}
	if wait != 0 {
		t.Errorf("after success: wait = %d, want 0", wait)
	}

	if err := th.RecordFailure(ctx, key); err != nil {
		t.Fatalf("RecordFailure: %v", err)
	}
	wait, _ = th.WaitSeconds(ctx, key)
	if wait <= 0 || wait > 30 {
		t.Errorf("after one fail: wait = %d, want 1..30", wait)
	}

	for i := 0; i < 8; i++ {
		_ = th.RecordFailure(ctx, key)
	}
	wait, _ = th.WaitSeconds(ctx, key)
	if wait > 31 {
		t.Errorf("after 9 fails: wait = %d, want <= 31 (cap)", wait)
	}

	_ = th.RecordSuccess(ctx, key)
	if wait, _ = th.WaitSeconds(ctx, key); wait != 0 {
		t.Errorf("after fail then success: wait = %d, want 0", wait)
	}
}
