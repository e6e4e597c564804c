package provider

import (
	"context"
	"fmt"
	"strings"
	"time"
)

const (
	TypeOpenAI = "openai"
	TypeGemini = "gemini"

	DefaultTimeout = 120 * time.Second
)

// Config selects and configures one live backend.
type Config struct {
	Type     string
	APIKey   string
	Model    string
	Endpoint string
	Timeout  time.Duration
}

// New builds the Protocol for cfg.Type. An empty type means openai.
func New(ctx context.Context, cfg Config) (Protocol, error) {
	switch strings.ToLower(cfg.Type) {
	case "", TypeOpenAI:
		return NewOpenAIProvider(cfg.Endpoint, cfg.APIKey, cfg.Timeout), nil
	case TypeGemini:
		return NewGeminiProvider(ctx, cfg.Endpoint, cfg.APIKey, cfg.Timeout)
	default:
		return nil, fmt.Errorf("unknown provider type %q", cfg.Type)
	}
}
