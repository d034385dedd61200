package ratelimit

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// EndpointConfig is the rate-limit tier for one endpoint. A Path ending
// in "/" matches by prefix.
type EndpointConfig struct {
	Path   string
	Method string
	Limit  int
	Window time.Duration
	Burst  int
}

// Config holds the limiter configuration.
type Config struct {
	Enabled         bool
	DefaultLimit    int
	DefaultWindow   time.Duration
	CleanupInterval time.Duration
	Exempt          map[string]bool
	EndpointConfigs []EndpointConfig
}

// LoadConfig reads the limiter configuration from the environment.
func LoadConfig() *Config {
	enabled := getEnvBool("RATE_LIMIT_ENABLED", true)
	if !enabled {
		return &Config{Enabled: false}
	}

	return &Config{
		Enabled:         true,
		DefaultLimit:    getEnvInt("RATE_LIMIT_DEFAULT_LIMIT", 600),
		DefaultWindow:   getEnvDuration("RATE_LIMIT_DEFAULT_WINDOW", time.Minute),
		CleanupInterval: getEnvDuration("RATE_LIMIT_CLEANUP_INTERVAL", 5*time.Minute),
		Exempt:          parseIPList(os.Getenv("RATE_LIMIT_EXEMPT")),
		EndpointConfigs: DefaultEndpointConfigs(),
	}
}

// DefaultEndpointConfigs returns the per-endpoint tiers. Batch dispatch
// drives a headless browser per job, so those endpoints get the
// tightest budget.
func DefaultEndpointConfigs() []EndpointConfig {
	return []EndpointConfig{
		// Browser-backed batch dispatch.
		{Path: "/apply-easy", Method: "POST", Limit: 10, Window: time.Hour, Burst: 2},
		{Path: "/apply-simple-form", Method: "POST", Limit: 10, Window: time.Hour, Burst: 2},
		{Path: "/apply-complex-form", Method: "POST", Limit: 10, Window: time.Hour, Burst: 2},

		// No browser involved, but still writes a record per job.
		{Path: "/apply-jobs", Method: "POST", Limit: 30, Window: time.Hour, Burst: 5},
		{Path: "/apply-manual-review", Method: "POST", Limit: 30, Window: time.Hour, Burst: 5},

		// Upstream-metered and CPU-bound endpoints.
		{Path: "/job-handler", Method: "GET", Limit: 60, Window: time.Minute, Burst: 10},
		{Path: "/parse-cv", Method: "POST", Limit: 30, Window: time.Minute, Burst: 5},
		{Path: "/create-checkout-session", Method: "POST", Limit: 20, Window: time.Minute, Burst: 5},

		// Credential endpoints, limited against brute force.
		{Path: "/auth/", Method: "POST", Limit: 20, Window: time.Minute, Burst: 5},
	}
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func parseIPList(list string) map[string]bool {
	result := make(map[string]bool)
	for _, ip := range strings.Split(list, ",") {
		if ip = strings.TrimSpace(ip); ip != "" {
			result[ip] = true
		}
	}
	return result
}
