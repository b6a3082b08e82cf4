package mcpserver

import (
	"log/slog"
	"os"
	"strconv"
	"time"
)

// serverConfig holds the MCP server defaults. Every field can be set with a
// RESTCODEC_* environment variable; see loadConfig for the names.
type serverConfig struct {
	CacheEnabled       bool
	CacheMaxSize       int
	CacheFileTTL       time.Duration
	CacheURLTTL        time.Duration
	CacheContentTTL    time.Duration
	CacheSweepInterval time.Duration

	OperationsLimit int
	MaxLimit        int

	Validate  bool
	UserAgent string

	MaxInlineSize   int64
	MaxBodySize     int64
	AllowPrivateIPs bool
}

var cfg = loadConfig()

const defaultMaxSize = 10 << 20

func loadConfig() *serverConfig {
	return &serverConfig{
		CacheEnabled:       env("RESTCODEC_CACHE_ENABLED", true, strconv.ParseBool),
		CacheMaxSize:       env("RESTCODEC_CACHE_MAX_SIZE", 10, positiveInt),
		CacheFileTTL:       env("RESTCODEC_CACHE_FILE_TTL", 15*time.Minute, positiveDuration),
		CacheURLTTL:        env("RESTCODEC_CACHE_URL_TTL", 5*time.Minute, positiveDuration),
		CacheContentTTL:    env("RESTCODEC_CACHE_CONTENT_TTL", 15*time.Minute, positiveDuration),
		CacheSweepInterval: env("RESTCODEC_CACHE_SWEEP_INTERVAL", time.Minute, positiveDuration),
		OperationsLimit:    env("RESTCODEC_OPERATIONS_LIMIT", 100, positiveInt),
		MaxLimit:           env("RESTCODEC_MAX_LIMIT", 1000, positiveInt),
		Validate:           env("RESTCODEC_VALIDATE", false, strconv.ParseBool),
		UserAgent:          os.Getenv("RESTCODEC_USER_AGENT"),
		MaxInlineSize:      env("RESTCODEC_MAX_INLINE_SIZE", int64(defaultMaxSize), positiveInt64),
		MaxBodySize:        env("RESTCODEC_MAX_BODY_SIZE", int64(defaultMaxSize), positiveInt64),
		AllowPrivateIPs:    env("RESTCODEC_ALLOW_PRIVATE_IPS", false, strconv.ParseBool),
	}
}

// env parses the variable named key. An unset variable yields fallback;
// one that fails to parse logs a warning and yields fallback.
func env[T any](key string, fallback T, parse func(string) (T, error)) T {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	v, err := parse(raw)
	if err != nil {
		slog.Warn("ignoring invalid environment variable", "key", key, "value", raw, "default", fallback, "error", err) //nolint:gosec // G706: values are structured log fields, not format strings
		return fallback
	}
	return v
}

func positiveInt(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err == nil && n <= 0 {
		err = strconv.ErrRange
	}
	return n, err
}

func positiveInt64(s string) (int64, error) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err == nil && n <= 0 {
		err = strconv.ErrRange
	}
	return n, err
}

func positiveDuration(s string) (time.Duration, error) {
	d, err := time.ParseDuration(s)
	if err == nil && d <= 0 {
		err = strconv.ErrRange
	}
	return d, err
}
