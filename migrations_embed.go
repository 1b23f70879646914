package main

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"sort"

	"waiter-telegram/db"

	"go.uber.org/zap"
)

// Embedded so `waiter-telegram migrate` works from any directory.
//
//go:embed migrations/*.sql
var migrationsFS embed.FS

// applyMigrations runs every migration in name order. Each file is idempotent.
func applyMigrations(ctx context.Context, logger *zap.SugaredLogger) error {
	names, err := fs.Glob(migrationsFS, "migrations/*.sql")
	if err != nil {
		return fmt.Errorf("list migrations: %w", err)
	}
	sort.Strings(names)
	for _, name := range names {
		sqlBytes, err := migrationsFS.ReadFile(name)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", name, err)
		}
		if _, err := db.Pool.Exec(ctx, string(sqlBytes)); err != nil {
			return fmt.Errorf("apply migration %s: %w", name, err)
		}
		logger.Infow("migration applied", "file", name)
	}
	return nil
}
