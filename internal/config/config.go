package config

import (
	"os"
	"strconv"
	"time"
)

const (
	// Auth
	BcryptCost     = 12
	TokenTTL       = 24 * time.Hour
	MinPasswordLen = 6

	// Payments
	DefaultCurrency      = "INR"
	DefaultPaymentMethod = "card"

	// Redis channel carrying complaint lifecycle events.
	EventsChannel = "complaints:events"
)

type Config struct {
	Env            string
	Port           string
	DBDSN          string
	RedisAddr      string
	RedisPassword  string
	JWTSecret      string
	TelegramToken  string // empty disables the Telegram notifier
	TelegramChatID int64
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func Load() Config {
	chatID, _ := strconv.ParseInt(os.Getenv("TELEGRAM_ADMIN_CHAT_ID"), 10, 64)
	return Config{
		Env:            env("APP_ENV", "dev"),
		Port:           env("API_PORT", "8080"),
		DBDSN:          env("DB_DSN", "host=localhost user=aptcare password=aptcare dbname=aptcare_db port=5432 sslmode=disable"),
		RedisAddr:      env("REDIS_ADDR", "localhost:6379"),
		RedisPassword:  os.Getenv("REDIS_PASSWORD"),
		JWTSecret:      env("JWT_SECRET", "dev-only-secret"),
		TelegramToken:  os.Getenv("TELEGRAM_BOT_TOKEN"),
		TelegramChatID: chatID,
	}
}
