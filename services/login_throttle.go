package services

import (
	"context"
	"errors"
	"math"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const ThrottleCooldownCapSeconds = 30

// LoginThrottle tracks failed admin logins per key (username + client address).
type LoginThrottle interface {
	// WaitSeconds returns how long the key must wait before trying again (0 if no cooldown).
	WaitSeconds(ctx context.Context, key string) (int, error)
	// RecordFailure bumps the fail count and sets cooldown = min(30, 2^fail_count) seconds.
	RecordFailure(ctx context.Context, key string) error
	RecordSuccess(ctx context.Context, key string) error
}

// ThrottleKey builds the throttle key for a login attempt.
func ThrottleKey(username, clientIP string) string {
	return username + "|" + clientIP
}

// PgLoginThrottle persists throttle state in the login_throttle table.
type PgLoginThrottle struct {
	pool *pgxpool.Pool
}

func NewPgLoginThrottle(pool *pgxpool.Pool) *PgLoginThrottle {
	return &PgLoginThrottle{pool: pool}
}

func (p *PgLoginThrottle) WaitSeconds(ctx context.Context, key string) (int, error) {
	var cooldownUntil *time.Time
	err := p.pool.QueryRow(ctx, `
		SELECT cooldown_until FROM login_throttle WHERE throttle_key = $1`,
		key,
	).Scan(&cooldownUntil)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return waitUntil(cooldownUntil, time.Now()), nil
}

func (p *PgLoginThrottle) RecordFailure(ctx context.Context, key string) error {
	_, err := p.pool.Exec(ctx, `
		INSERT INTO login_throttle (throttle_key, fail_count, last_failed_at, cooldown_until, updated_at)
		VALUES ($1, 1, now(), now() + (LEAST($2, POWER(2, 1)::int) || ' seconds')::interval, now())
		ON CONFLICT (throttle_key) DO UPDATE SET
			fail_count = login_throttle.fail_count + 1,
			last_failed_at = now(),
			cooldown_until = now() + (LEAST($2, POWER(2, LEAST(login_throttle.fail_count + 1, 16))::int) || ' seconds')::interval,
			updated_at = now()`,
		key, ThrottleCooldownCapSeconds,
	)
	return err
}

func (p *PgLoginThrottle) RecordSuccess(ctx context.Context, key string) error {
	_, err := p.pool.Exec(ctx, `DELETE FROM login_throttle WHERE throttle_key = $1`, key)
	return err
}

type throttleEntry struct {
	failCount     int
	cooldownUntil time.Time
}

// MemoryLoginThrottle is the in-process LoginThrottle used with STORE_DRIVER=memory.
type MemoryLoginThrottle struct {
	mu      sync.Mutex
	entries map[string]throttleEntry
	now     func() time.Time
}

func NewMemoryLoginThrottle() *MemoryLoginThrottle {
	return &MemoryLoginThrottle{entries: make(map[string]throttleEntry), now: time.Now}
}

func (m *MemoryLoginThrottle) WaitSeconds(ctx context.Context, key string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[key]
	if !ok {
		return 0, nil
	}
	return waitUntil(&e.cooldownUntil, m.now()), nil
}

func (m *MemoryLoginThrottle) RecordFailure(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e := m.entries[key]
	e.failCount++
	e.cooldownUntil = m.now().Add(time.Duration(CooldownSecondsForFailCount(e.failCount)) * time.Second)
	m.entries[key] = e
	return nil
}

func (m *MemoryLoginThrottle) RecordSuccess(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, key)
	return nil
}

func waitUntil(until *time.Time, now time.Time) int {
	if until == nil || !now.Before(*until) {
		return 0
	}
	return int(until.Sub(now).Seconds()) + 1 // round up
}

// CooldownSecondsForFailCount returns min(30, 2^failCount).
func CooldownSecondsForFailCount(failCount int) int {
	if failCount >= 16 {
		return ThrottleCooldownCapSeconds
	}
	s := int(math.Pow(2, float64(failCount)))
	if s > ThrottleCooldownCapSeconds {
		return ThrottleCooldownCapSeconds
	}
	return s
}
