package server

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds server configuration
type Config struct {
	HTTPAddr        string
	AllowedOrigins  []string
	TrustedHosts    []string // empty slice disables the host check
	RateLimitPerMin int
	RateLimitWindow time.Duration
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// LoadConfig reads environment variables and returns a Config
func LoadConfig() *Config {
	return &Config{
		HTTPAddr:        getEnv("PG_HTTP_ADDR", ":8000"),
		AllowedOrigins:  splitList(getEnv("PG_ALLOWED_ORIGINS", "*")),
		TrustedHosts:    splitList(getEnv("PG_TRUSTED_HOSTS", "")),
		RateLimitPerMin: getEnvInt("PG_RATE_LIMIT_PER_MIN", 30),
		RateLimitWindow: time.Minute,
		ReadTimeout:     10 * time.Second,
		WriteTimeout:    30 * time.Second,
		ShutdownTimeout: 10 * time.Second,
	}
}

func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getEnvInt(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return def
}

func splitList(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
