package services

import (
	"context"
	"errors"
	"fmt"

	"waiter-telegram/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	pgUniqueViolation = "23505"
	pgUndefinedTable  = "42P01"
	seedLockKey       = 740_211 // pg_advisory_xact_lock key serialising first-run seeding
)

// PgCatalog is the Postgres implementation of CatalogStore.
type PgCatalog struct {
	pool     *pgxpool.Pool
	defaults models.Settings
}

func NewPgCatalog(pool *pgxpool.Pool, defaults models.Settings) *PgCatalog {
	return &PgCatalog{pool: pool, defaults: DefaultSettings(defaults)}
}

func (p *PgCatalog) SeedIfEmpty(ctx context.Context) (bool, error) {
	seeded := false
	err := pgx.BeginFunc(ctx, p.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, seedLockKey); err != nil {
			return fmt.Errorf("seed lock: %w", err)
		}
		var count int
		if err := tx.QueryRow(ctx, `SELECT COUNT(*) FROM menu_items`).Scan(&count); err != nil {
			if pgErrCode(err) == pgUndefinedTable {
				return fmt.Errorf("catalog tables missing (run `waiter-telegram migrate` or set AUTO_MIGRATE=1): %w", err)
			}
			return fmt.Errorf("count menu items: %w", err)
		}
		if count > 0 {
			return nil
		}

		menu := DefaultMenu()
		batch := &pgx.Batch{}
		for _, it := range menu {
			batch.Queue(`
				INSERT INTO menu_items (id, name, description, price, category, image, available)
				VALUES ($1, $2, $3, $4, $5, $6, $7)
				ON CONFLICT (id) DO NOTHING`,
				it.ID, it.Name, it.Description, int64(it.Price), it.Category, it.Image, it.Available,
			)
		}
		for _, c := range DefaultCategories(menu) {
			batch.Queue(`
				INSERT INTO categories (name, sort_order) VALUES ($1, $2)
				ON CONFLICT (name) DO NOTHING`,
				c.Name, c.SortOrder,
			)
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("insert seed data: %w", err)
		}
		seeded = true
		return nil
	})
	return seeded, err
}

func (p *PgCatalog) Menu(ctx context.Context) ([]models.MenuItem, error) {
	rows, err := p.pool.Query(ctx, `
		SELECT id, name, description, price, COALESCE(NULLIF(category, ''), $1), image, available, created_at
		FROM menu_items
		ORDER BY created_at, seq`,
		models.CategoryUncategorized,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.MenuItem
	for rows.Next() {
		it, err := scanMenuItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func scanMenuItem(row pgx.Row) (models.MenuItem, error) {
	var it models.MenuItem
	var price int64
	err := row.Scan(&it.ID, &it.Name, &it.Description, &price, &it.Category, &it.Image, &it.Available, &it.CreatedAt)
	it.Price = models.Money(price)
	return it, err
}

func (p *PgCatalog) Categories(ctx context.Context) ([]models.Category, error) {
	rows, err := p.pool.Query(ctx, `SELECT id, name, sort_order FROM categories ORDER BY sort_order, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cats []models.Category
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.SortOrder); err != nil {
			return nil, err
		}
		cats = append(cats, c)
	}
	return cats, rows.Err()
}

func (p *PgCatalog) UpsertItem(ctx context.Context, item models.MenuItem) (models.MenuItem, error) {
	row := p.pool.QueryRow(ctx, `
		INSERT INTO menu_items (id, name, description, price, category, image, available)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			description = EXCLUDED.description,
			price = EXCLUDED.price,
			category = EXCLUDED.category,
			image = EXCLUDED.image,
			available = EXCLUDED.available
		RETURNING id, name, description, price, category, image, available, created_at`,
		item.ID, item.Name, item.Description, int64(item.Price), item.Category, item.Image, item.Available,
	)
	return scanMenuItem(row)
}

func (p *PgCatalog) DeleteItem(ctx context.Context, id string) error {
	_, err := p.pool.Exec(ctx, `DELETE FROM menu_items WHERE id = $1`, id)
	return err
}

func (p *PgCatalog) AddCategory(ctx context.Context, name string) (models.Category, error) {
	var c models.Category
	err := p.pool.QueryRow(ctx, `
		INSERT INTO categories (name, sort_order)
		VALUES ($1, (SELECT COALESCE(MAX(sort_order) + 1, 0) FROM categories))
		RETURNING id, name, sort_order`,
		name,
	).Scan(&c.ID, &c.Name, &c.SortOrder)
	if isUniqueViolation(err) {
		return models.Category{}, ErrCategoryExists
	}
	return c, err
}

// RenameCategory renames the row and every item pointing at it in one transaction.
func (p *PgCatalog) RenameCategory(ctx context.Context, oldName, newName string) error {
	return pgx.BeginFunc(ctx, p.pool, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `UPDATE categories SET name = $2 WHERE name = $1`, oldName, newName)
		if isUniqueViolation(err) {
			return ErrCategoryExists
		}
		if err != nil {
			return fmt.Errorf("rename category: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return ErrCategoryNotFound
		}
		if _, err := tx.Exec(ctx, `UPDATE menu_items SET category = $2 WHERE category = $1`, oldName, newName); err != nil {
			return fmt.Errorf("move items to renamed category: %w", err)
		}
		return nil
	})
}

// DeleteCategory moves the category's items to Uncategorized, then drops the row.
func (p *PgCatalog) DeleteCategory(ctx context.Context, name string) error {
	return pgx.BeginFunc(ctx, p.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `UPDATE menu_items SET category = $2 WHERE category = $1`, name, models.CategoryUncategorized); err != nil {
			return fmt.Errorf("uncategorize items: %w", err)
		}
		tag, err := tx.Exec(ctx, `DELETE FROM categories WHERE name = $1`, name)
		if err != nil {
			return fmt.Errorf("delete category: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return ErrCategoryNotFound
		}
		return nil
	})
}

// ReorderCategories queues one update per category in a single batch inside a
// transaction. The updates still apply in list order.
func (p *PgCatalog) ReorderCategories(ctx context.Context, ids []int64) error {
	if err := validateOrder(ids); err != nil {
		return err
	}
	if len(ids) == 0 {
		return nil
	}
	return pgx.BeginFunc(ctx, p.pool, func(tx pgx.Tx) error {
		batch := &pgx.Batch{}
		for i, id := range ids {
			batch.Queue(`UPDATE categories SET sort_order = $1 WHERE id = $2`, i, id)
		}
		br := tx.SendBatch(ctx, batch)
		for range ids {
			tag, err := br.Exec()
			if err != nil {
				_ = br.Close()
				return fmt.Errorf("update sort order: %w", err)
			}
			if tag.RowsAffected() == 0 {
				_ = br.Close()
				return ErrCategoryNotFound
			}
		}
		return br.Close()
	})
}

func (p *PgCatalog) Settings(ctx context.Context) (models.Settings, error) {
	var s models.Settings
	err := p.pool.QueryRow(ctx, `
		SELECT restaurant_name, currency, telegram_bot_token, telegram_chat_id
		FROM settings WHERE id = $1`,
		models.SettingsID,
	).Scan(&s.RestaurantName, &s.Currency, &s.TelegramBotToken, &s.TelegramChatID)
	if errors.Is(err, pgx.ErrNoRows) {
		return p.SaveSettings(ctx, p.defaults)
	}
	if err != nil {
		return models.Settings{}, err
	}
	if s.Currency == "" {
		s.Currency = p.defaults.Currency
	}
	return s, nil
}

func (p *PgCatalog) SaveSettings(ctx context.Context, s models.Settings) (models.Settings, error) {
	var out models.Settings
	err := p.pool.QueryRow(ctx, `
		INSERT INTO settings (id, restaurant_name, currency, telegram_bot_token, telegram_chat_id, updated_at)
		VALUES ($1, $2, $3, $4, $5, now())
		ON CONFLICT (id) DO UPDATE SET
			restaurant_name = EXCLUDED.restaurant_name,
			currency = EXCLUDED.currency,
			telegram_bot_token = EXCLUDED.telegram_bot_token,
			telegram_chat_id = EXCLUDED.telegram_chat_id,
			updated_at = now()
		RETURNING restaurant_name, currency, telegram_bot_token, telegram_chat_id`,
		models.SettingsID, s.RestaurantName, s.Currency, s.TelegramBotToken, s.TelegramChatID,
	).Scan(&out.RestaurantName, &out.Currency, &out.TelegramBotToken, &out.TelegramChatID)
	return out, err
}

func (p *PgCatalog) Ping(ctx context.Context) error {
	return p.pool.Ping(ctx)
}

func pgErrCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

func isUniqueViolation(err error) bool {
	return pgErrCode(err) == pgUniqueViolation
}
