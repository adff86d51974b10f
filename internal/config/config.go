package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Policy toggles behaviour that deviates from the permissive defaults.
type Policy struct {
	// EnforceOwnership restricts property deletes to the owning agent and
	// booking cancels to the booking's user. Admins bypass both checks.
	EnforceOwnership bool
	// RejectOverlaps refuses bookings whose dates overlap an active booking
	// on the same property.
	RejectOverlaps bool
}

// Config holds application level configuration loaded from environment variables.
type Config struct {
	AppEnv            string
	LogLevel          string
	ServerPort        string
	DBDriver          string
	DatabaseDSN       string
	ResetDB           bool
	RedisAddr         string
	RedisDB           int
	RedisPass         string
	CacheEnabled      bool
	JWTSecret         string
	SwaggerHost       string
	ReconcileInterval time.Duration
	Policy            Policy
}

// Load builds Config from environment with sensible defaults. A .env file in
// the working directory is read first when present.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		AppEnv:            getEnv("APP_ENV", "development"),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		ServerPort:        getEnv("PORT", "5000"),
		DBDriver:          getEnv("DB_DRIVER", "mysql"),
		DatabaseDSN:       getEnv("DATABASE_URL", "user:password@tcp(localhost:3306)/lux_estate?charset=utf8mb4&parseTime=True&loc=UTC"),
		ResetDB:           getEnvBool("RESET_DB", false),
		RedisAddr:         getEnv("REDIS_ADDR", "localhost:6379"),
		RedisDB:           getEnvInt("REDIS_DB", 0),
		RedisPass:         os.Getenv("REDIS_PASSWORD"),
		CacheEnabled:      getEnvBool("CACHE_ENABLED", true),
		JWTSecret:         getEnv("JWT_SECRET", "change-me"),
		SwaggerHost:       os.Getenv("SWAGGER_HOST"),
		ReconcileInterval: getEnvDuration("RECONCILE_INTERVAL", 5*time.Minute),
		Policy: Policy{
			EnforceOwnership: getEnvBool("ENFORCE_OWNERSHIP", false),
			RejectOverlaps:   getEnvBool("REJECT_OVERLAPPING_BOOKINGS", false),
		},
	}
}

// IsProduction reports whether the service runs with production defaults.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production" || c.AppEnv == "prod"
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.ParseBool(v); err == nil {
			return parsed
		}
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			return parsed
		}
	}
	return def
}
