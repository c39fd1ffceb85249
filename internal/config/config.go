// Package config defines configuration parsing and helpers.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"

	"github.com/ranqi-ly/soul-matrix-ai/internal/domain"
)

// Config holds all application configuration parsed from environment variables.
type Config struct {
	AppEnv string `env:"APP_ENV" envDefault:"dev"`
	Port   int    `env:"PORT" envDefault:"8080"`

	// AI provider (OpenAI-compatible chat completions endpoint).
	AIAPIKey      string        `env:"AI_API_KEY"`
	AIBaseURL     string        `env:"AI_BASE_URL" envDefault:"https://yunwu.ai/v1"`
	AIModel       string        `env:"AI_MODEL" envDefault:"gpt-3.5-turbo"`
	AITemperature float64       `env:"AI_TEMPERATURE" envDefault:"0.5"`
	AIMaxTokens   int           `env:"AI_MAX_TOKENS" envDefault:"1500"`
	AITimeout     time.Duration `env:"AI_REQUEST_TIMEOUT" envDefault:"30s"`

	// Dispatch retry policy.
	AIMaxAttempts  int           `env:"AI_MAX_ATTEMPTS" envDefault:"3"`
	AIInitialDelay time.Duration `env:"AI_INITIAL_DELAY" envDefault:"1s"`
	AIMaxDelay     time.Duration `env:"AI_MAX_DELAY" envDefault:"8s"`
	// AIMinInterval enforces a spacing floor between outbound calls through
	// the single-lane dispatcher. Zero disables the lane entirely.
	AIMinInterval time.Duration `env:"AI_MIN_INTERVAL" envDefault:"0"`

	// Ingestion pipeline behaviour.
	// RepairRounds bounds how many fresh upstream round trips are made when a
	// response cannot be repaired into parseable JSON.
	RepairRounds     int  `env:"REPAIR_ROUNDS" envDefault:"2"`
	StrictValidation bool `env:"STRICT_VALIDATION" envDefault:"false"`
	// LocalizedFields switches the prompt contract to the localized field
	// naming convention. The normalizer accepts both regardless.
	LocalizedFields bool `env:"LOCALIZED_FIELDS" envDefault:"false"`

	// Cache TTLs. Invite and share links live for 7 days.
	ResultCacheTTL time.Duration `env:"RESULT_CACHE_TTL" envDefault:"1h"`
	InviteCacheTTL time.Duration `env:"INVITE_CACHE_TTL" envDefault:"168h"`
	ShareCacheTTL  time.Duration `env:"SHARE_CACHE_TTL" envDefault:"168h"`
	// RedisAddr selects the Redis cache backend when set; empty keeps the
	// in-process memory cache.
	RedisAddr      string `env:"REDIS_ADDR"`
	RedisPassword  string `env:"REDIS_PASSWORD"`
	MemoryCacheCap int    `env:"MEMORY_CACHE_CAP" envDefault:"4096"`

	// HTTP server.
	CORSAllowOrigins      string        `env:"CORS_ALLOW_ORIGINS" envDefault:"*"`
	RateLimitPerMin       int           `env:"RATE_LIMIT_PER_MIN" envDefault:"30"`
	ServerShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" envDefault:"30s"`
	HTTPReadTimeout       time.Duration `env:"HTTP_READ_TIMEOUT" envDefault:"15s"`
	HTTPWriteTimeout      time.Duration `env:"HTTP_WRITE_TIMEOUT" envDefault:"120s"`
	HTTPIdleTimeout       time.Duration `env:"HTTP_IDLE_TIMEOUT" envDefault:"60s"`
}

// Load parses environment variables into a Config.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("op=config.Load: %w", err)
	}
	return cfg, nil
}

// ValidateAI checks that the upstream provider is reachable by configuration.
// A missing key or URL is fatal for assessment requests.
func (c Config) ValidateAI() error {
	if c.AIAPIKey == "" {
		return fmt.Errorf("%w: AI_API_KEY", domain.ErrConfigMissing)
	}
	if c.AIBaseURL == "" {
		return fmt.Errorf("%w: AI_BASE_URL", domain.ErrConfigMissing)
	}
	return nil
}

// IsDev reports whether the app is running in development mode.
func (c Config) IsDev() bool { return strings.ToLower(c.AppEnv) == "dev" }

// IsProd reports whether the app is running in production mode.
func (c Config) IsProd() bool { return strings.ToLower(c.AppEnv) == "prod" }
