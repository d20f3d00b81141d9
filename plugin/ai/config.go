package ai

import (
	"errors"

	"github.com/calkins/teampulse/internal/profile"
)

// Config represents AI configuration.
type Config struct {
	Enabled bool

	Embedding EmbeddingConfig
	LLM       LLMConfig
}

// EmbeddingConfig represents vector embedding configuration.
type EmbeddingConfig struct {
	APIKey  string
	BaseURL string
	Model   string // text-embedding-3-small
}

// LLMConfig represents chat completion configuration.
type LLMConfig struct {
	APIKey      string
	BaseURL     string
	Model       string  // gpt-4o-mini
	MaxTokens   int     // default: 1024
	Temperature float32 // default: 0.4
}

// NewConfigFromProfile creates AI config from the profile.
func NewConfigFromProfile(p *profile.Profile) *Config {
	cfg := &Config{
		Enabled: p.IsAIEnabled(),
	}
	if !cfg.Enabled {
		return cfg
	}

	cfg.Embedding = EmbeddingConfig{
		APIKey:  p.AIAPIKey,
		BaseURL: p.AIBaseURL,
		Model:   p.AIEmbeddingModel,
	}
	cfg.LLM = LLMConfig{
		APIKey:      p.AIAPIKey,
		BaseURL:     p.AIBaseURL,
		Model:       p.AIChatModel,
		MaxTokens:   1024,
		Temperature: 0.4,
	}
	return cfg
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if !c.Enabled {
		return nil
	}
	if c.Embedding.APIKey == "" {
		return errors.New("embedding API key is required")
	}
	if c.Embedding.Model == "" {
		return errors.New("embedding model is required")
	}
	if c.LLM.Model == "" {
		return errors.New("chat model is required")
	}
	return nil
}
