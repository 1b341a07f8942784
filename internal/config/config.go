// Package config loads service configuration from defaults, an optional file
// and the environment.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable, e.g. RECIPE_SERVER_PORT.
const EnvPrefix = "RECIPE"

// Config holds all configuration for the application
type Config struct {
	Verbose   bool            `mapstructure:"verbose"`
	Server    ServerConfig    `mapstructure:"server"`
	YouTube   YouTubeConfig   `mapstructure:"youtube"`
	LLM       LLMConfig       `mapstructure:"llm"`
	Fetch     FetchConfig     `mapstructure:"fetch"`
	Extract   ExtractConfig   `mapstructure:"extract"`
	Breaker   BreakerConfig   `mapstructure:"breaker"`
	Cache     CacheConfig     `mapstructure:"cache"`
	RateLimit RateLimitConfig `mapstructure:"ratelimit"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	AllowedOrigins  []string      `mapstructure:"allowed_origins"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	RequestTimeout  time.Duration `mapstructure:"request_timeout"`
}

// YouTubeConfig holds video metadata endpoints. An empty APIKey disables the
// Data API strategy.
type YouTubeConfig struct {
	APIKey          string `mapstructure:"api_key"`
	DataAPIEndpoint string `mapstructure:"data_api_endpoint"`
	OEmbedEndpoint  string `mapstructure:"oembed_endpoint"`
}

// LLMConfig holds model configuration. An empty APIKey disables the model
// fallback.
type LLMConfig struct {
	APIKey   string        `mapstructure:"api_key"`
	Provider string        `mapstructure:"provider"`
	Tier     string        `mapstructure:"tier"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

// FetchConfig holds outbound HTTP configuration
type FetchConfig struct {
	Timeout        time.Duration `mapstructure:"timeout"`
	UserAgent      string        `mapstructure:"user_agent"`
	Browser        bool          `mapstructure:"browser"`
	BrowserTimeout time.Duration `mapstructure:"browser_timeout"`
}

// ExtractConfig tunes the extraction pipeline
type ExtractConfig struct {
	Policy            string `mapstructure:"policy"`
	PlaceholderTitle  string `mapstructure:"placeholder_title"`
	PageTextBudget    int    `mapstructure:"page_text_budget"`
	DescriptionBudget int    `mapstructure:"description_budget"`
}

// BreakerConfig configures the per-upstream circuit breakers
type BreakerConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Failures uint          `mapstructure:"failures"`
	Window   uint          `mapstructure:"window"`
	Delay    time.Duration `mapstructure:"delay"`
}

// CacheConfig holds result cache configuration
type CacheConfig struct {
	Type string        `mapstructure:"type"` // "none", "memory", "redis" or "postgres"
	URL  string        `mapstructure:"url"`
	TTL  time.Duration `mapstructure:"ttl"`
}

// RateLimitConfig holds per-client rate limiting for the HTTP API
type RateLimitConfig struct {
	Enabled   bool     `mapstructure:"enabled"`
	PerMinute int      `mapstructure:"per_minute"`
	Burst     int      `mapstructure:"burst"`
	Whitelist []string `mapstructure:"whitelist"`
}

// Cache backends.
const (
	CacheNone     = "none"
	CacheMemory   = "memory"
	CacheRedis    = "redis"
	CachePostgres = "postgres"
)

// Load loads configuration. path names an explicit config file; when empty,
// recipe_agent.{yaml,json} is looked up in the working directory and ./config.
func Load(path string) (*Config, error) {
	v := viper.New()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("recipe_agent")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := bindEnv(v); err != nil {
		return nil, err
	}

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// bindEnv binds the conventional unprefixed credential variables in addition
// to their RECIPE_ forms.
func bindEnv(v *viper.Viper) error {
	bindings := map[string][]string{
		"youtube.api_key": {"RECIPE_YOUTUBE_API_KEY", "YOUTUBE_API_KEY"},
		"llm.api_key":     {"RECIPE_LLM_API_KEY", "GEMINI_API_KEY", "LLM_API_KEY"},
		"cache.url":       {"RECIPE_CACHE_URL", "REDIS_URL", "DATABASE_URL"},
		"server.port":     {"RECIPE_SERVER_PORT", "PORT"},
	}
	for key, envs := range bindings {
		if err := v.BindEnv(append([]string{key}, envs...)...); err != nil {
			return fmt.Errorf("failed to bind %s: %w", key, err)
		}
	}
	return nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("verbose", false)

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("server.shutdown_timeout", "10s")
	v.SetDefault("server.request_timeout", "60s")

	v.SetDefault("youtube.data_api_endpoint", "")
	v.SetDefault("youtube.oembed_endpoint", "https://www.youtube.com/oembed")

	v.SetDefault("llm.provider", "gemini")
	v.SetDefault("llm.tier", "lite")
	v.SetDefault("llm.timeout", "30s")

	v.SetDefault("fetch.timeout", "10s")
	v.SetDefault("fetch.user_agent", "")
	v.SetDefault("fetch.browser", false)
	v.SetDefault("fetch.browser_timeout", "30s")

	v.SetDefault("extract.policy", "llm-first")
	v.SetDefault("extract.placeholder_title", "no title")
	v.SetDefault("extract.page_text_budget", 8000)
	v.SetDefault("extract.description_budget", 4000)

	v.SetDefault("breaker.enabled", false)
	v.SetDefault("breaker.failures", 5)
	v.SetDefault("breaker.window", 10)
	v.SetDefault("breaker.delay", "30s")

	v.SetDefault("cache.type", CacheMemory)
	v.SetDefault("cache.ttl", "24h")

	v.SetDefault("ratelimit.enabled", true)
	v.SetDefault("ratelimit.per_minute", 30)
	v.SetDefault("ratelimit.burst", 5)
	v.SetDefault("ratelimit.whitelist", []string{})
}

// Validate checks that the configuration has valid values. Missing
// credentials are valid: they disable the corresponding strategy.
func (c *Config) Validate() error {
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("config error: 'server.port' out of range: %d", c.Server.Port)
	}

	durations := map[string]time.Duration{
		"server.shutdown_timeout": c.Server.ShutdownTimeout,
		"server.request_timeout":  c.Server.RequestTimeout,
		"llm.timeout":             c.LLM.Timeout,
		"fetch.timeout":           c.Fetch.Timeout,
		"fetch.browser_timeout":   c.Fetch.BrowserTimeout,
		"breaker.delay":           c.Breaker.Delay,
		"cache.ttl":               c.Cache.TTL,
	}
	for name, d := range durations {
		if d < 0 {
			return fmt.Errorf("config error: '%s' must be non-negative", name)
		}
	}

	switch c.LLM.Provider {
	case "", "gemini":
	default:
		return fmt.Errorf("config error: unsupported llm provider %q", c.LLM.Provider)
	}

	switch c.LLM.Tier {
	case "", "lite", "standard", "advanced":
	default:
		return fmt.Errorf("config error: unknown llm tier %q", c.LLM.Tier)
	}

	switch c.Extract.Policy {
	case "", "llm-first", "rules-first":
	default:
		return fmt.Errorf("config error: unknown extract policy %q", c.Extract.Policy)
	}

	if c.Extract.PageTextBudget < 0 || c.Extract.DescriptionBudget < 0 {
		return fmt.Errorf("config error: text budgets must be non-negative")
	}

	if c.Breaker.Enabled && c.Breaker.Failures > c.Breaker.Window {
		return fmt.Errorf("config error: 'breaker.failures' (%d) exceeds 'breaker.window' (%d)", c.Breaker.Failures, c.Breaker.Window)
	}

	switch c.Cache.Type {
	case "", CacheNone, CacheMemory:
	case CacheRedis, CachePostgres:
		if c.Cache.URL == "" {
			return fmt.Errorf("config error: 'cache.url' is required when cache type is %q", c.Cache.Type)
		}
	default:
		return fmt.Errorf("config error: cache type must be one of none, memory, redis, postgres, got %q", c.Cache.Type)
	}

	if c.RateLimit.PerMinute < 0 || c.RateLimit.Burst < 0 {
		return fmt.Errorf("config error: rate limits must be non-negative")
	}

	return nil
}
