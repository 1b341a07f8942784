package ratelimit

import (
	"net/http"
	"time"

	"github.com/jonathan/recipe-keeper/internal/config"
)

// EndpointConfig represents rate limiting configuration for a specific endpoint.
type EndpointConfig struct {
	Path      string // Endpoint path pattern (supports prefix matching)
	Method    string // HTTP method (GET, POST, etc.)
	PerMinute int    // Sustained requests per minute; 0 means unlimited
	Burst     int    // Burst capacity (defaults to PerMinute if 0)
}

// Config holds rate limiting configuration.
type Config struct {
	Enabled          bool
	DefaultPerMinute int
	CleanupInterval  time.Duration
	IdleTimeout      time.Duration
	Whitelist        map[string]bool
	Blacklist        map[string]bool
	EndpointConfigs  []EndpointConfig
}

// Defaults for routes without their own configuration.
const (
	DefaultPerMinute       = 600
	DefaultCleanupInterval = 5 * time.Minute
	DefaultIdleTimeout     = time.Hour
)

// FromConfig builds the limiter configuration from application settings.
// perMinute and burst apply to the extraction endpoint, which is the only
// route that costs upstream calls.
func FromConfig(c config.RateLimitConfig) *Config {
	if !c.Enabled {
		return &Config{Enabled: false}
	}
	return &Config{
		Enabled:          true,
		DefaultPerMinute: DefaultPerMinute,
		CleanupInterval:  DefaultCleanupInterval,
		IdleTimeout:      DefaultIdleTimeout,
		Whitelist:        parseIPList(c.Whitelist),
		Blacklist:        map[string]bool{},
		EndpointConfigs:  DefaultEndpointConfigs(c.PerMinute, c.Burst),
	}
}

// DefaultEndpointConfigs returns the endpoint-specific configurations.
func DefaultEndpointConfigs(previewPerMinute, previewBurst int) []EndpointConfig {
	return []EndpointConfig{
		// Extraction fans out to several upstreams per request.
		{Path: "/recipes/preview", Method: http.MethodPost, PerMinute: previewPerMinute, Burst: previewBurst},
		// Health and metrics are unlimited, handled by special case in matcher.
	}
}

// parseIPList turns a list of addresses into a lookup set.
func parseIPList(list []string) map[string]bool {
	result := make(map[string]bool, len(list))
	for _, ip := range list {
		if ip != "" {
			result[ip] = true
		}
	}
	return result
}
