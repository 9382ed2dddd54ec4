package mcpserver

import (
	"log/slog"
	"os"
	"strconv"
	"time"
)

// serverConfig holds all configurable MCP server defaults.
// Loaded once at startup from environment variables via loadConfig().
type serverConfig struct {
	// Cache settings.
	CacheEnabled       bool
	CacheMaxSize       int
	CacheTTL           time.Duration
	CacheSweepInterval time.Duration

	// Walk tool defaults.
	WalkLimit       int
	WalkDetailLimit int
	MaxLimit        int

	// MaxInlineFiles caps the number of schema files passed inline.
	MaxInlineFiles int
	// MaxInlineSize caps the total size of inline schema files in bytes.
	MaxInlineSize int64

	// ConfigFile is a TOML configuration applied to every conversion.
	ConfigFile string
}

// cfg is the active server configuration, initialized at package load time.
var cfg = loadConfig()

// loadConfig reads configuration from XSD2OAS_* environment variables.
// Invalid values log a warning and fall back to the hardcoded default.
func loadConfig() *serverConfig {
	return &serverConfig{
		CacheEnabled:       envBool("XSD2OAS_CACHE_ENABLED", true),
		CacheMaxSize:       envInt("XSD2OAS_CACHE_MAX_SIZE", 10),
		CacheTTL:           envDuration("XSD2OAS_CACHE_TTL", 15*time.Minute),
		CacheSweepInterval: envDuration("XSD2OAS_CACHE_SWEEP_INTERVAL", 60*time.Second),
		WalkLimit:          envInt("XSD2OAS_WALK_LIMIT", 100),
		WalkDetailLimit:    envInt("XSD2OAS_WALK_DETAIL_LIMIT", 25),
		MaxLimit:           envInt("XSD2OAS_MAX_LIMIT", 1000),
		MaxInlineFiles:     envInt("XSD2OAS_MAX_INLINE_FILES", 200),
		MaxInlineSize:      int64(envInt("XSD2OAS_MAX_INLINE_SIZE", 10*1024*1024)),
		ConfigFile:         os.Getenv("XSD2OAS_CONFIG"),
	}
}

func envBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		slog.Warn("invalid bool env var, using default", "key", key, "value", v, "default", fallback)
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
		slog.Warn("invalid int env var, using default", "key", key, "value", v, "default", fallback)
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
		slog.Warn("invalid duration env var, using default", "key", key, "value", v, "default", fallback)
		return fallback
	}
	return d
}
