package llm

import (
	"context"
	"time"
)

// Provider is the interface for chat-completion calls.
type Provider interface {
	// Complete sends one system+user exchange and returns the trimmed
	// completion text.
	Complete(ctx context.Context, system, user string) (string, error)
}

// Config configures the completion provider.
type Config struct {
	APIKey      string
	BaseURL     string // empty means the official OpenAI endpoint
	Model       string
	Temperature float32
	MaxTokens   int
	Timeout     time.Duration
}

// Defaults applied by NewOpenAI for zero-valued fields.
const (
	DefaultModel     = "gpt-4o-mini"
	DefaultMaxTokens = 1000
	DefaultTimeout   = 120 * time.Second
)
