package config

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultPort        = "8080"
	defaultDatabaseURL = "lavacar.db"
	defaultJWTSecret   = "change-me-jwt-secret"
	defaultJWTTTL      = 24 * time.Hour
	defaultViaCEPBase  = "https://viacep.com.br"
)

type Config struct {
	Port        string
	DatabaseURL string
	JWTSecret   string
	JWTTTL      time.Duration
	ViaCEPBase  string
}

// Load reads the environment, picking up a local .env file when present.
func Load() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		Port:        getEnv("PORT", defaultPort),
		DatabaseURL: getEnv("DATABASE_URL", defaultDatabaseURL),
		JWTSecret:   getEnv("JWT_SECRET", defaultJWTSecret),
		JWTTTL:      defaultJWTTTL,
		ViaCEPBase:  getEnv("VIACEP_BASE_URL", defaultViaCEPBase),
	}

	if raw := strings.TrimSpace(os.Getenv("JWT_TTL")); raw != "" {
		if d, err := time.ParseDuration(raw); err == nil {
			cfg.JWTTTL = d
		}
	}

	return cfg
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
