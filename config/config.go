package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	StoreDriverPostgres = "postgres"
	StoreDriverMemory   = "memory"
)

type Config struct {
	HTTP     HTTPConfig
	Store    StoreConfig
	DB       DBConfig
	Admin    AdminConfig
	Telegram TelegramConfig
	Defaults DefaultsConfig
	LogLevel string
}

type HTTPConfig struct {
	Addr        string
	CORSOrigins []string
}

type StoreConfig struct {
	Driver      string // "postgres" or "memory"
	AutoMigrate bool
}

type DBConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
}

type AdminConfig struct {
	Username     string
	Password     string // plain; hashed at startup when PasswordHash is empty
	PasswordHash string // bcrypt
	JWTSecret    string
	JWTTTL       time.Duration
}

type TelegramConfig struct {
	APIEndpoint string // format string with token and method, see tgbotapi.APIEndpoint
	Timeout     time.Duration
}

// DefaultsConfig seeds the settings row the first time it is read.
type DefaultsConfig struct {
	RestaurantName string
	Currency       string
	BotToken       string
	ChatID         string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	port, _ := strconv.Atoi(getEnv("DB_PORT", "5432"))

	return &Config{
		HTTP: HTTPConfig{
			Addr:        getEnv("HTTP_ADDR", ":8080"),
			CORSOrigins: splitList(getEnv("CORS_ORIGINS", "*")),
		},
		Store: StoreConfig{
			Driver:      strings.ToLower(getEnv("STORE_DRIVER", StoreDriverPostgres)),
			AutoMigrate: getBool("AUTO_MIGRATE", false),
		},
		DB: DBConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     port,
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Database: getEnv("DB_NAME", "waiter"),
		},
		Admin: AdminConfig{
			Username:     getEnv("ADMIN_USERNAME", "admin"),
			Password:     getEnv("ADMIN_PASSWORD", ""),
			PasswordHash: getEnv("ADMIN_PASSWORD_HASH", ""),
			JWTSecret:    getEnv("JWT_SECRET", ""),
			JWTTTL:       getDuration("JWT_TTL", 12*time.Hour),
		},
		Telegram: TelegramConfig{
			APIEndpoint: getEnv("TELEGRAM_API_ENDPOINT", "https://api.telegram.org/bot%s/%s"),
			Timeout:     getDuration("TELEGRAM_TIMEOUT", 15*time.Second),
		},
		Defaults: DefaultsConfig{
			RestaurantName: getEnv("RESTAURANT_NAME", "Gourmet Bistro"),
			Currency:       getEnv("CURRENCY", "$"),
			BotToken:       getEnv("TELEGRAM_BOT_TOKEN", ""),
			ChatID:         getEnv("TELEGRAM_CHAT_ID", ""),
		},
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getBool(key string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	if v == "1" || strings.EqualFold(v, "true") || strings.EqualFold(v, "yes") {
		return true
	}
	return false
}

func getDuration(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return def
	}
	return d
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
