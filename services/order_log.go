package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"waiter-telegram/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	DefaultOrderLogLimit = 50
	MaxOrderLogLimit     = 500
)

// OrderLog records orders after the kitchen chat accepted them.
type OrderLog interface {
	SaveSentOrder(ctx context.Context, o models.SentOrder) (models.SentOrder, error)
	// RecentOrders returns up to limit orders, newest first.
	RecentOrders(ctx context.Context, limit int) ([]models.SentOrder, error)
}

type PgOrderLog struct {
	pool *pgxpool.Pool
}

func NewPgOrderLog(pool *pgxpool.Pool) *PgOrderLog {
	return &PgOrderLog{pool: pool}
}

func (p *PgOrderLog) SaveSentOrder(ctx context.Context, o models.SentOrder) (models.SentOrder, error) {
	itemsJSON, err := json.Marshal(o.Items)
	if err != nil {
		return o, fmt.Errorf("marshal items: %w", err)
	}
	err = p.pool.QueryRow(ctx, `
		INSERT INTO sent_orders (table_no, items, total, currency, sent_at)
		VALUES ($1, $2::jsonb, $3, $4, $5)
		RETURNING id`,
		o.Table, string(itemsJSON), int64(o.Total), o.Currency, o.SentAt,
	).Scan(&o.ID)
	return o, err
}

func (p *PgOrderLog) RecentOrders(ctx context.Context, limit int) ([]models.SentOrder, error) {
	rows, err := p.pool.Query(ctx, `
		SELECT id, table_no, items, total, currency, sent_at
		FROM sent_orders
		ORDER BY sent_at DESC, id DESC
		LIMIT $1`,
		clampLimit(limit),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.SentOrder
	for rows.Next() {
		var o models.SentOrder
		var itemsJSON []byte
		var total int64
		if err := rows.Scan(&o.ID, &o.Table, &itemsJSON, &total, &o.Currency, &o.SentAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(itemsJSON, &o.Items); err != nil {
			return nil, fmt.Errorf("sent order %d items: %w", o.ID, err)
		}
		o.Total = models.Money(total)
		out = append(out, o)
	}
	return out, rows.Err()
}

// MemoryOrderLog keeps sent orders in process memory.
type MemoryOrderLog struct {
	mu     sync.Mutex
	orders []models.SentOrder
}

func NewMemoryOrderLog() *MemoryOrderLog {
	return &MemoryOrderLog{}
}

func (m *MemoryOrderLog) SaveSentOrder(ctx context.Context, o models.SentOrder) (models.SentOrder, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o.ID = int64(len(m.orders) + 1)
	m.orders = append(m.orders, o)
	return o, nil
}

func (m *MemoryOrderLog) RecentOrders(ctx context.Context, limit int) ([]models.SentOrder, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	limit = clampLimit(limit)
	out := make([]models.SentOrder, 0, limit)
	for i := len(m.orders) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, m.orders[i])
	}
	return out, nil
}

func clampLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultOrderLogLimit
	case limit > MaxOrderLogLimit:
		return MaxOrderLogLimit
	}
	return limit
}
