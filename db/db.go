package db

import (
	"context"
	"fmt"
	"net/url"

	"waiter-telegram/config"

	"github.com/jackc/pgx/v5/pgxpool"
)

var Pool *pgxpool.Pool

func Init(cfg config.DBConfig) error {
	return Connect(ConnString(cfg))
}

// Connect opens the package pool from a full connection string.
func Connect(connStr string) error {
	p, err := pgxpool.New(context.Background(), connStr)
	if err != nil {
		return fmt.Errorf("open pool: %w", err)
	}
	Pool = p
	return nil
}

func ConnString(cfg config.DBConfig) string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(cfg.User, cfg.Password),
		Host:   fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Path:   "/" + cfg.Database,
	}
	return u.String()
}

func Ping(ctx context.Context) error {
	if Pool == nil {
		return fmt.Errorf("db pool not initialised")
	}
	return Pool.Ping(ctx)
}

func Close() {
	if Pool != nil {
		Pool.Close()
	}
}
