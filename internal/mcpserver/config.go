package mcpserver

import (
	"log/slog"
	"os"
	"strconv"
	"time"
)

// serverConfig holds all configurable MCP server defaults.
// Loaded from environment variables via loadConfig().
type serverConfig struct {
	// Cache settings.
	CacheEnabled bool
	CacheMaxSize int
	CacheTTL     time.Duration

	// Input limits.
	MaxInlineSize int64

	// List defaults.
	ListLimit int
	MaxLimit  int

	// Dedupe defaults.
	Concurrency int
	PinInjected bool
}

// cfg is the active server configuration, initialized at package load time
// and reloaded by Run.
var cfg = loadConfig()

// loadConfig reads configuration from WSDEDUPE_* environment variables.
// Invalid values log a warning and fall back to the hardcoded default.
func loadConfig() *serverConfig {
	return &serverConfig{
		CacheEnabled:  envBool("WSDEDUPE_CACHE_ENABLED", true),
		CacheMaxSize:  envInt("WSDEDUPE_CACHE_MAX_SIZE", 10),
		CacheTTL:      envDuration("WSDEDUPE_CACHE_TTL", 15*time.Minute),
		MaxInlineSize: envInt64("WSDEDUPE_MAX_INLINE_SIZE", 10*1024*1024),
		ListLimit:     envInt("WSDEDUPE_LIST_LIMIT", 100),
		MaxLimit:      envInt("WSDEDUPE_MAX_LIMIT", 1000),
		Concurrency:   envInt("WSDEDUPE_CONCURRENCY", 1),
		PinInjected:   envBool("WSDEDUPE_PIN_INJECTED", false),
	}
}

func envBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		slog.Warn("invalid bool env var, using default", "key", key, "value", v, "default", fallback) //nolint:gosec // G706: values are structured log fields, not format strings
		return fallback
	}
	return b
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		slog.Warn("invalid int env var, using default", "key", key, "value", v, "default", fallback) //nolint:gosec // G706: values are structured log fields, not format strings
		return fallback
	}
	return n
}

func envInt64(key string, fallback int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil || n <= 0 {
		slog.Warn("invalid int env var, using default", "key", key, "value", v, "default", fallback) //nolint:gosec // G706: values are structured log fields, not format strings
		return fallback
	}
	return n
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		slog.Warn("invalid duration env var, using default", "key", key, "value", v, "default", fallback) //nolint:gosec // G706: values are structured log fields, not format strings
		return fallback
	}
	return d
}
