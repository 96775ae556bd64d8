package config

import (
	"os"
	"strconv"
	"time"
)

// Server captures process-level configuration.
type Server struct {
	Addr          string
	DatabaseURL   string
	RedisURL      string
	JWTSigningKey string

	// SearchRateLimit bounds public search requests per client IP per window.
	SearchRateLimit  int
	SearchRateWindow time.Duration
}

// FromEnv builds a Server config from environment variables.
func FromEnv() Server {
	addr := os.Getenv("FOOD_OASIS_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		dbURL = "postgres://localhost/food_oasis?sslmode=disable"
	}

	jwtSigningKey := os.Getenv("JWT_SIGNING_KEY")
	if jwtSigningKey == "" {
		// Development default - must be overridden in production
		jwtSigningKey = "dev-secret-key-change-in-production"
	}

	limit := 60
	if raw := os.Getenv("SEARCH_RATE_LIMIT"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	return Server{
		Addr:             addr,
		DatabaseURL:      dbURL,
		RedisURL:         os.Getenv("REDIS_URL"),
		JWTSigningKey:    jwtSigningKey,
		SearchRateLimit:  limit,
		SearchRateWindow: time.Minute,
	}
}
