package ratelimit

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Environment variables read by LoadConfig
const (
	EnvEnabled       = "TALENT_MATCH_RATE_LIMIT_ENABLED"
	EnvDefaultLimit  = "TALENT_MATCH_RATE_LIMIT_DEFAULT_LIMIT"
	EnvDefaultWindow = "TALENT_MATCH_RATE_LIMIT_DEFAULT_WINDOW"
	EnvSweepInterval = "TALENT_MATCH_RATE_LIMIT_SWEEP_INTERVAL"
	EnvAllowlist     = "TALENT_MATCH_RATE_LIMIT_ALLOWLIST"
	EnvBlocklist     = "TALENT_MATCH_RATE_LIMIT_BLOCKLIST"
)

// Rule limits one route. Paths ending in "/" match by prefix.
type Rule struct {
	Path   string
	Method string
	// Limit is requests per Window; 0 means unlimited
	Limit  int
	Window time.Duration
	// Burst is the bucket capacity; Limit when 0
	Burst int
}

// Config holds rate limiting configuration
type Config struct {
	Enabled       bool
	DefaultLimit  int
	DefaultWindow time.Duration
	// SweepInterval is how often idle buckets are dropped; 0 disables the sweeper
	SweepInterval time.Duration
	IdleTimeout   time.Duration
	Allowlist     map[string]bool
	Blocklist     map[string]bool
	Rules         []Rule
}

// DefaultConfig is used when NewLimiter receives nil
func DefaultConfig() *Config {
	return &Config{
		Enabled:       true,
		DefaultLimit:  600,
		DefaultWindow: time.Minute,
		SweepInterval: 5 * time.Minute,
		IdleTimeout:   time.Hour,
		Allowlist:     map[string]bool{},
		Blocklist:     map[string]bool{},
		Rules:         DefaultRules(),
	}
}

// DefaultRules returns the per-route limits. Ranking a full pool is the expensive
// call; lookups and health checks fall through to the default or are unlimited.
func DefaultRules() []Rule {
	return []Rule{
		{Path: "/health", Method: "GET", Limit: 0},
		{Path: "/v1/rank", Method: "POST", Limit: 120, Window: time.Minute, Burst: 20},
		{Path: "/v1/match-pool", Method: "POST", Limit: 60, Window: time.Minute, Burst: 10},
		{Path: "/v1/vacancies/", Method: "POST", Limit: 30, Window: time.Minute, Burst: 5},
	}
}

// LoadConfig builds a Config from the environment on top of DefaultConfig
func LoadConfig() *Config {
	cfg := DefaultConfig()
	cfg.Enabled = envBool(EnvEnabled, cfg.Enabled)
	if !cfg.Enabled {
		return cfg
	}

	cfg.DefaultLimit = envInt(EnvDefaultLimit, cfg.DefaultLimit)
	cfg.DefaultWindow = envDuration(EnvDefaultWindow, cfg.DefaultWindow)
	cfg.SweepInterval = envDuration(EnvSweepInterval, cfg.SweepInterval)
	cfg.Allowlist = parseIPList(os.Getenv(EnvAllowlist))
	cfg.Blocklist = parseIPList(os.Getenv(EnvBlocklist))
	return cfg
}

func envInt(key string, fallback int) int {
	if v, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return v
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v, err := strconv.ParseBool(os.Getenv(key)); err == nil {
		return v
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v, err := time.ParseDuration(os.Getenv(key)); err == nil {
		return v
	}
	return fallback
}

// parseIPList parses a comma-separated list of client IPs
func parseIPList(list string) map[string]bool {
	result := make(map[string]bool)
	for _, ip := range strings.Split(list, ",") {
		if ip = strings.TrimSpace(ip); ip != "" {
			result[ip] = true
		}
	}
	return result
}
