package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/http"
	"os"
	"time"

	"waiter-telegram/api"
	"waiter-telegram/app"
	"waiter-telegram/config"
	"waiter-telegram/db"
	"waiter-telegram/models"
	"waiter-telegram/services"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger:", err)
		os.Exit(1)
	}
	defer logger.Sync()

	// Check for migrate subcommand
	if len(os.Args) > 1 && os.Args[1] == "migrate" {
		runMigrate(cfg, logger)
		return
	}

	ctx := context.Background()
	b, err := openBackend(ctx, cfg, logger)
	if err != nil {
		logger.Fatalw("store", "error", err)
	}
	defer db.Close()

	notifier := services.NewTelegramNotifier(
		&http.Client{Timeout: cfg.Telegram.Timeout},
		cfg.Telegram.APIEndpoint,
		logger,
	)
	state := app.New(b.store, notifier, logger).WithOrderLog(b.orders)
	if err := state.Load(ctx); err != nil {
		// not fatal: POST /api/v1/catalog/refresh retries
		logger.Errorw("initial catalog load failed", "error", err)
	}

	auth, err := newAuthenticator(cfg.Admin, logger)
	if err != nil {
		logger.Fatalw("admin auth", "error", err)
	}
	tokens := services.NewTokenIssuer(jwtSecret(cfg.Admin, logger), cfg.Admin.JWTTTL)

	srv := api.New(api.Deps{
		State:       state,
		Store:       b.store,
		Auth:        auth,
		Tokens:      tokens,
		Throttle:    b.throttle,
		Logger:      logger,
		CORSOrigins: cfg.HTTP.CORSOrigins,
	})
	if err := run(cfg.HTTP.Addr, srv.Router(), logger); err != nil {
		logger.Fatalw("server", "error", err)
	}
}

func newLogger(level string) (*zap.SugaredLogger, error) {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, fmt.Errorf("LOG_LEVEL %q: %w", level, err)
	}
	zcfg := zap.NewProductionConfig()
	zcfg.Level = lvl
	l, err := zcfg.Build()
	if err != nil {
		return nil, err
	}
	return l.Sugar(), nil
}

type backend struct {
	store    services.CatalogStore
	throttle services.LoginThrottle
	orders   services.OrderLog
}

// openBackend wires the persistence side for STORE_DRIVER.
func openBackend(ctx context.Context, cfg *config.Config, logger *zap.SugaredLogger) (*backend, error) {
	defaults := models.Settings{
		RestaurantName:   cfg.Defaults.RestaurantName,
		Currency:         cfg.Defaults.Currency,
		TelegramBotToken: cfg.Defaults.BotToken,
		TelegramChatID:   cfg.Defaults.ChatID,
	}

	switch cfg.Store.Driver {
	case config.StoreDriverMemory:
		logger.Warn("using in-memory store; data is lost on restart")
		return &backend{
			store:    services.NewMemoryCatalog(defaults),
			throttle: services.NewMemoryLoginThrottle(),
			orders:   services.NewMemoryOrderLog(),
		}, nil
	case config.StoreDriverPostgres:
	default:
		return nil, fmt.Errorf("unknown STORE_DRIVER %q", cfg.Store.Driver)
	}

	if err := db.Init(cfg.DB); err != nil {
		return nil, err
	}
	if err := db.Ping(ctx); err != nil {
		logger.Warnw("database not reachable yet", "error", err)
	}
	if cfg.Store.AutoMigrate {
		if err := applyMigrations(ctx, logger); err != nil {
			return nil, fmt.Errorf("migrate: %w", err)
		}
	}
	return &backend{
		store:    services.NewPgCatalog(db.Pool, defaults),
		throttle: services.NewPgLoginThrottle(db.Pool),
		orders:   services.NewPgOrderLog(db.Pool),
	}, nil
}

// newAuthenticator builds the admin authenticator. Without a configured
// password a random one is generated and logged once.
func newAuthenticator(cfg config.AdminConfig, logger *zap.SugaredLogger) (services.Authenticator, error) {
	password := cfg.Password
	if password == "" && cfg.PasswordHash == "" {
		p, err := services.GenerateAdminPassword(12)
		if err != nil {
			return nil, fmt.Errorf("generate admin password: %w", err)
		}
		password = p
		logger.Warnw("ADMIN_PASSWORD not set; generated a password for this run",
			"username", cfg.Username, "password", password)
	}
	return services.NewPasswordAuthenticator(cfg.Username, password, cfg.PasswordHash)
}

// jwtSecret returns JWT_SECRET or a random per-process secret.
func jwtSecret(cfg config.AdminConfig, logger *zap.SugaredLogger) []byte {
	if cfg.JWTSecret != "" {
		return []byte(cfg.JWTSecret)
	}
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		logger.Fatalw("generate JWT secret", "error", err)
	}
	logger.Warn("JWT_SECRET not set; admin sessions end on restart")
	return []byte(hex.EncodeToString(b))
}

func runMigrate(cfg *config.Config, logger *zap.SugaredLogger) {
	if err := db.Init(cfg.DB); err != nil {
		logger.Fatalw("db", "error", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	if err := applyMigrations(ctx, logger); err != nil {
		logger.Fatalw("migrate", "error", err)
	}
}
