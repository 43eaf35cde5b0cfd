package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	ListenPort      string        // ex: ":8080"
	ShutdownTimeout time.Duration // ex: 5s

	LogLevel  string // "debug" | "info" | "warn" | "error"
	PrettyLog bool   // true => zap dev (color), false => zap prod (JSON)

	BangFile          string        // path to the curated bangs.yaml directory file
	StartURL          string        // where an empty query lands (ex: https://start.domain.ext)
	DefaultSearchURL  string        // fallback provider template with {query}
	ReloadInterval    time.Duration // interval to reload bangs.yaml (default: 24h)
	TitleFetchTimeout time.Duration // timeout for background page-title fetches

	// Sessions
	SessionSecret string        // seals the auth/session cookie
	CookieName    string        // auth/session cookie name
	SessionTTL    time.Duration // anonymous session cookie lifetime

	// Anonymous rate limiting
	FreeSearches   int           // searches before the slowdown starts
	DelayIncrement time.Duration // added per search past the allowance
	MaxDelay       time.Duration // slowdown cap
	WarnEvery      int           // warn on every Nth search

	// Redis
	RedisAddr             string        // ex: "localhost:6379"
	RedisUser             string        // optional
	RedisPassword         string        // optional
	RedisPasswordRequired bool          // true => require password, false => allow empty password
	RedisDB               int           // Redis DB number
	RedisDT               time.Duration // Redis dial timeout (ex: 5s)
	RedisRT               time.Duration // Redis read timeout (ex: 3s)
	RedisWT               time.Duration // Redis write timeout (ex: 3s)
	RedisMaxWait          time.Duration // max wait between retries (ex: 10s)
	RedisPingTimeout      time.Duration // timeout for each ping attempt (ex: 5s)
	RedisPoolSize         int           // Redis connection pool size
	RedisConnectTimeout   time.Duration // Total time to retry connecting (ex: 30s)
	RedisRetryInterval    time.Duration // Initial wait between retries (ex: 2s, grows exponentially)
	RedisWarnThreshold    int           // warn after this many attempts

	AllowedHosts []string // optional, restrict access to specific Host headers
	AllowedCIDRS []string // optional, restrict access to specific IP (e.g. "1.2.3.4, 5.6.7.8")
	TrustProxy   bool     // true => trust X-Forwarded-For headers (e.g. cloudflared)
}

func Load() *Config {
	cfg := &Config{
		// Server settings
		ListenPort:      getenv("BANG_LISTEN_PORT", ":8080"),
		ShutdownTimeout: mustDuration("BANG_SHUTDOWN_TIMEOUT", 5*time.Second),

		// Logging
		LogLevel:  getenv("BANG_LOG_LEVEL", "info"),
		PrettyLog: mustBool("BANG_PRETTY_LOG", true),

		// Query resolution
		BangFile:          getenv("BANG_DIRECTORY_FILE", "/app/bangs.yaml"),
		StartURL:          requireEnv("BANG_START_URL"),
		DefaultSearchURL:  getenv("BANG_DEFAULT_SEARCH_URL", "https://duckduckgo.com/?q={query}"),
		ReloadInterval:    mustDuration("BANG_RELOAD_INTERVAL", 24*time.Hour),
		TitleFetchTimeout: mustDuration("BANG_TITLE_FETCH_TIMEOUT", 5*time.Second),

		// Sessions
		SessionSecret: requireEnv("BANG_SESSION_SECRET"),
		CookieName:    getenv("BANG_COOKIE_NAME", "bang_session"),
		SessionTTL:    mustDuration("BANG_SESSION_TTL", 24*time.Hour),

		// Anonymous rate limiting
		FreeSearches:   getenvInt("BANG_FREE_SEARCHES", 60),
		DelayIncrement: mustDuration("BANG_DELAY_INCREMENT", 5*time.Second),
		MaxDelay:       mustDuration("BANG_MAX_DELAY", 60*time.Second),
		WarnEvery:      getenvInt("BANG_WARN_EVERY", 10),

		// Redis settings
		RedisAddr:             requireEnv("BANG_REDIS_ADDR"),
		RedisUser:             getenv("BANG_REDIS_USERNAME", "default"),
		RedisPasswordRequired: mustBool("BANG_REDIS_PASSWORD_REQUIRED", true),
		RedisPassword:         getenv("BANG_REDIS_PASSWORD", ""),
		RedisDB:               requireEnvInt("BANG_REDIS_DB"),
		RedisDT:               mustDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
		RedisRT:               mustDuration("REDIS_READ_TIMEOUT", 3*time.Second),
		RedisWT:               mustDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		RedisMaxWait:          mustDuration("REDIS_MAX_WAIT", 10*time.Second),
		RedisPingTimeout:      mustDuration("REDIS_PING_TIMEOUT", 5*time.Second),
		RedisPoolSize:         getenvInt("REDIS_POOL_SIZE", 10),
		RedisConnectTimeout:   mustDuration("REDIS_CONNECT_TIMEOUT", 30*time.Second),
		RedisRetryInterval:    mustDuration("REDIS_RETRY_INTERVAL", 2*time.Second),
		RedisWarnThreshold:    getenvInt("REDIS_WARN_THRESHOLD", 3),

		// Access restrictions
		AllowedHosts: requireEnvSlice("BANG_ALLOWED_HOSTS"),
		AllowedCIDRS: parseAllowedIPs(getenv("BANG_ALLOWED_CIDRS", "")),
		TrustProxy:   mustBool("BANG_TRUST_PROXY", true),
	}

	// Validate Redis password configuration
	if cfg.RedisPasswordRequired && cfg.RedisPassword == "" {
		panic("❌ FATAL: BANG_REDIS_PASSWORD is required when BANG_REDIS_PASSWORD_REQUIRED=true")
	}

	// Log config only in debug mode with redacted sensitive fields
	if cfg.LogLevel == "debug" {
		cfgCopy := *cfg
		cfgCopy.RedisPassword = "***REDACTED***"
		cfgCopy.SessionSecret = "***REDACTED***"
		if cfg.RedisUser != "" {
			cfgCopy.RedisUser = "***REDACTED***"
		}
		log.Printf("[DEBUG] cfg: %+v\n", cfgCopy)
	}

	return cfg
}

// helpers
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func requireEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		panic(fmt.Sprintf("❌ FATAL: Required environment variable %s is not set", key))
	}
	return v
}

func requireEnvInt(key string) int {
	v := os.Getenv(key)
	if v == "" {
		panic(fmt.Sprintf("❌ FATAL: Required environment variable %s is not set", key))
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		panic(fmt.Sprintf("❌ FATAL: Invalid integer value for %s: %s", key, v))
	}
	return i
}

func requireEnvSlice(key string) []string {
	v := os.Getenv(key)
	if v == "" {
		panic(fmt.Sprintf("❌ FATAL: Required environment variable %s is not set", key))
	}
	return splitAndTrim(v)
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func mustBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func mustDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func parseAllowedIPs(allowed string) []string {
	if allowed == "" {
		return nil
	}
	ips := make([]string, 0, 4)
	for _, ip := range splitAndTrim(allowed) {
		if ip != "" {
			ips = append(ips, ip)
		}
	}
	return ips
}

func splitAndTrim(s string) []string {
	if s == "" {
		return nil
	}
	raw := strings.Split(s, ",")
	parts := make([]string, 0, len(raw))
	for _, part := range raw {
		trimmed := strings.TrimSpace(part)
		// Remove surrounding quotes if present
		trimmed = strings.Trim(trimmed, `"'`)
		if trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return parts
}
