package covergauge

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all configuration for the covergauge service. Values come
// from the environment (optionally seeded by a .env file); every field
// except the completion API key has a working default.
type Config struct {
	Server  ServerConfig
	OpenAI  OpenAIConfig
	Extract ExtractConfig
	Log     LogConfig
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Host           string        `envconfig:"SERVER_HOST" default:"0.0.0.0"`
	Port           string        `envconfig:"SERVER_PORT" default:"8000"`
	AllowedOrigins string        `envconfig:"ALLOWED_ORIGINS" default:"*"`
	MaxUploadMB    int64         `envconfig:"MAX_UPLOAD_MB" default:"32"`
	RequestTimeout time.Duration `envconfig:"REQUEST_TIMEOUT" default:"3m"`
	// APIKey protects the analysis endpoints with bearer auth when set.
	// Empty disables authentication.
	APIKey string `envconfig:"SERVER_API_KEY"`
}

// OpenAIConfig configures the completion provider. BaseURL may point at
// any OpenAI-compatible endpoint; empty means the official API.
type OpenAIConfig struct {
	APIKey      string        `envconfig:"OPENAI_API_KEY"`
	BaseURL     string        `envconfig:"OPENAI_BASE_URL"`
	Model       string        `envconfig:"OPENAI_MODEL" default:"gpt-4o-mini"`
	Temperature float32       `envconfig:"OPENAI_TEMPERATURE" default:"0.1"`
	MaxTokens   int           `envconfig:"OPENAI_MAX_TOKENS" default:"1000"`
	Timeout     time.Duration `envconfig:"OPENAI_TIMEOUT" default:"120s"`
}

// ExtractConfig configures text extraction.
type ExtractConfig struct {
	// MinTextChars is the minimum number of non-whitespace characters the
	// primary extractor must produce before its output is accepted.
	MinTextChars int `envconfig:"EXTRACT_MIN_TEXT_CHARS" default:"50"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level string `envconfig:"LOG_LEVEL" default:"info"`
}

// LoadConfig reads configuration from the environment.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("covergauge: loading config: %w", err)
	}
	return cfg, nil
}

// DefaultConfig returns the built-in defaults without consulting the
// environment. Useful for tests and for embedding the engine directly.
func DefaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Host:           "0.0.0.0",
			Port:           "8000",
			AllowedOrigins: "*",
			MaxUploadMB:    32,
			RequestTimeout: 3 * time.Minute,
		},
		OpenAI: OpenAIConfig{
			Model:       "gpt-4o-mini",
			Temperature: 0.1,
			MaxTokens:   1000,
			Timeout:     120 * time.Second,
		},
		Extract: ExtractConfig{
			MinTextChars: 50,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// LogLevel maps the configured level name onto slog levels. Unknown
// names fall back to info.
func (c Config) LogLevel() slog.Level {
	switch strings.ToLower(c.Log.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
