package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Config holds everything the server needs at startup.
type Config struct {
	Port     string
	MongoURI string
	DBName   string
	// DBDriver is "mongo" or "memory".
	DBDriver string

	JWTSecret   string
	TokenExpiry time.Duration
	Environment string

	AllowedOrigins []string

	NATSURL           string
	ChatUpsertSubject string
	ProviderTimeout   time.Duration

	RedisURL            string
	NotificationChannel string

	LogLevel string

	LoginRatePerSec float64
	LoginRateBurst  int
}

// ErrMissingJWTSecret is returned when JWT_SECRET_KEY is not set.
var ErrMissingJWTSecret = errors.New("JWT_SECRET_KEY is not set")

// LoadConfig reads .env (when present) and the process environment.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logrus.Debug("No .env file found, using process environment")
	}

	cfg := &Config{
		Port:     getEnv("PORT", "5001"),
		MongoURI: getEnv("MONGO_URI", "mongodb://localhost:27017"),
		DBName:   getEnv("MONGO_DB", "language_exchange"),
		DBDriver: strings.ToLower(getEnv("DB_DRIVER", "mongo")),

		JWTSecret:   os.Getenv("JWT_SECRET_KEY"),
		TokenExpiry: getEnvAsDuration("TOKEN_EXPIRY", 7*24*time.Hour),
		Environment: getEnv("APP_ENV", "development"),

		AllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:5173"}),

		NATSURL:           os.Getenv("NATS_URL"),
		ChatUpsertSubject: getEnv("CHAT_UPSERT_SUBJECT", "chat.users.upsert"),
		ProviderTimeout:   getEnvAsDuration("PROVIDER_TIMEOUT", 5*time.Second),

		RedisURL:            os.Getenv("REDIS_URL"),
		NotificationChannel: getEnv("NOTIFICATION_CHANNEL", "notifications"),

		LogLevel: getEnv("LOG_LEVEL", "info"),

		LoginRatePerSec: getEnvAsFloat("LOGIN_RATE_PER_SEC", 1),
		LoginRateBurst:  getEnvAsInt("LOGIN_RATE_BURST", 10),
	}

	if cfg.JWTSecret == "" {
		return nil, ErrMissingJWTSecret
	}
	return cfg, nil
}

// IsProduction controls the Secure flag on the session cookie.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Environment, "production")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
		logrus.WithField("key", key).Warn("Invalid integer in environment, using default")
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
		logrus.WithField("key", key).Warn("Invalid number in environment, using default")
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
		logrus.WithField("key", key).Warn("Invalid duration in environment, using default")
	}
	return defaultValue
}

func getEnvAsList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
