// Package config centralizes environment configuration. Values come from the
// process environment, optionally seeded from a .env file at startup.
package config

import (
	"os"

	"github.com/joho/godotenv"
)

// Load reads .env into the environment if present. Missing files are fine;
// production supplies real environment variables.
func Load() {
	_ = godotenv.Load()
}

func get(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func Port() string          { return get("PORT", "8080") }
func JWTSecret() string     { return get("JWT_SECRET", "change-me-in-production") }
func AdminAPIKey() string   { return get("ADMIN_API_KEY", "") }
func BaseURL() string       { return get("BASE_URL", "http://localhost:8080") }
func DatabaseDriver() string { return get("DB_DRIVER", "postgres") }

func DatabaseDSN() string {
	return get("DATABASE_DSN",
		"host=localhost user=postgres password=postgres dbname=ecommerce port=5432 sslmode=disable")
}

// SQLitePath is the file used when DB_DRIVER=sqlite (local development).
func SQLitePath() string { return get("SQLITE_PATH", "ecommerce.db") }

func RedisAddr() string     { return get("REDIS_ADDR", "") }
func RedisPassword() string { return get("REDIS_PASSWORD", "") }

// KafkaBrokers is a comma-separated broker list; empty disables publishing.
func KafkaBrokers() string { return get("KAFKA_BROKERS", "") }
func KafkaOrderTopic() string { return get("KAFKA_ORDER_TOPIC", "orders.settled") }

func SMTPServer() string { return get("SMTP_SERVER", "") }
func SMTPPort() string   { return get("SMTP_PORT", "587") }
func SMTPUser() string   { return get("SMTP_USER", "") }
func SMTPPass() string   { return get("SMTP_PASS", "") }
func FromAddr() string   { return get("FROM_ADDR", "noreply@ecommerce.local") }
func FromName() string   { return get("FROM_NAME", "Ecommerce API") }
