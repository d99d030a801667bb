package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/wellness2k25/wellness-go/internal/origin"
)

const devJWTSecret = "dev-secret-change-in-production"

var ErrDevSecretInProduction = errors.New("JWT_SECRET must be set in production environment")

type Config struct {
	Host        string
	Port        string
	Env         string
	LogLevel    slog.Level
	DatabaseDSN string
	RedisURL    string
	JWTSecret   string
	JWTExpiry   time.Duration

	AllowedOrigins  []string
	AllowedPatterns []string
	CORSRulesFile   string

	AuthRateLimitRPS   float64
	AuthRateLimitBurst int
	TrustProxy         bool
}

// Load reads the configuration from the environment.
func Load() (Config, error) {
	cfg := Config{
		Host:            getEnv("HOST", "0.0.0.0"),
		Port:            getEnv("PORT", "3001"),
		Env:             getEnv("ENV", "development"),
		DatabaseDSN:     getEnv("DATABASE_DSN", "root:password@tcp(127.0.0.1:3306)/wellness?parseTime=true"),
		RedisURL:        os.Getenv("REDIS_URL"),
		JWTSecret:       getEnv("JWT_SECRET", devJWTSecret),
		AllowedOrigins:  splitList(os.Getenv("CORS_ALLOWED_ORIGINS")),
		AllowedPatterns: splitList(os.Getenv("CORS_ALLOWED_PATTERNS")),
		CORSRulesFile:   os.Getenv("CORS_RULES_FILE"),
	}

	var err error
	if cfg.LogLevel, err = parseLevel(getEnv("LOG_LEVEL", "info")); err != nil {
		return Config{}, err
	}
	if cfg.JWTExpiry, err = time.ParseDuration(getEnv("JWT_EXPIRY", "24h")); err != nil || cfg.JWTExpiry <= 0 {
		return Config{}, fmt.Errorf("invalid JWT_EXPIRY %q", os.Getenv("JWT_EXPIRY"))
	}
	if cfg.AuthRateLimitRPS, err = strconv.ParseFloat(getEnv("AUTH_RATE_LIMIT_RPS", "5"), 64); err != nil || cfg.AuthRateLimitRPS <= 0 {
		return Config{}, fmt.Errorf("invalid AUTH_RATE_LIMIT_RPS %q", os.Getenv("AUTH_RATE_LIMIT_RPS"))
	}
	if cfg.AuthRateLimitBurst, err = strconv.Atoi(getEnv("AUTH_RATE_LIMIT_BURST", "10")); err != nil || cfg.AuthRateLimitBurst <= 0 {
		return Config{}, fmt.Errorf("invalid AUTH_RATE_LIMIT_BURST %q", os.Getenv("AUTH_RATE_LIMIT_BURST"))
	}
	if cfg.TrustProxy, err = strconv.ParseBool(getEnv("TRUSTED_PROXY", "false")); err != nil {
		return Config{}, fmt.Errorf("invalid TRUSTED_PROXY %q", os.Getenv("TRUSTED_PROXY"))
	}

	if cfg.IsProduction() && cfg.JWTSecret == devJWTSecret {
		return Config{}, ErrDevSecretInProduction
	}

	return cfg, nil
}

func (c Config) IsProduction() bool {
	return c.Env == "production"
}

// Addr is the listen address.
func (c Config) Addr() string {
	return c.Host + ":" + c.Port
}

// OriginPolicy builds the CORS rule set. A rules file replaces everything
// else; otherwise origins and patterns from the environment replace the
// corresponding half of the default policy.
func (c Config) OriginPolicy() (*origin.Policy, error) {
	if c.CORSRulesFile != "" {
		return origin.LoadFile(c.CORSRulesFile)
	}

	def := origin.DefaultPolicy()
	if len(c.AllowedOrigins) == 0 && len(c.AllowedPatterns) == 0 {
		return def, nil
	}

	exact := def.Exact()
	if len(c.AllowedOrigins) > 0 {
		exact = c.AllowedOrigins
	}
	if len(c.AllowedPatterns) == 0 {
		return origin.NewPolicy(exact, def.Rules()), nil
	}
	return origin.FromStrings(exact, c.AllowedPatterns)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("invalid LOG_LEVEL %q", s)
	}
	return level, nil
}
