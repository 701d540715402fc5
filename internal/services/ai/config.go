// File: internal/services/ai/config.go
package ai

import (
	"fmt"
	"time"
)

// ProviderOpenAI selects the OpenAI-compatible adapter in NewProvider.
const ProviderOpenAI = "openai"

type Config struct {
	// Provider selects the concrete adapter. Only "openai" is implemented;
	// the factory rejects anything else.
	Provider string

	// Embedding Configuration
	EmbeddingKey     string
	EmbeddingBaseURL string
	EmbeddingModel   string

	// LLM Configuration
	LLMKey     string
	LLMBaseURL string
	LLMModel   string

	// Performance Configuration
	Timeout    time.Duration
	MaxRetries int
	RetryDelay time.Duration

	// Model Parameters
	Temperature float32
	TopP        float32
}

func (c *Config) Validate() error {
	if c.EmbeddingKey == "" {
		return fmt.Errorf("AI_EMBEDDING_KEY is required")
	}
	if c.LLMKey == "" {
		return fmt.Errorf("AI_LLM_KEY is required")
	}
	if c.EmbeddingModel == "" {
		return fmt.Errorf("EMBEDDING_MODEL_NAME is required")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if c.MaxRetries < 1 {
		return fmt.Errorf("max retries must be at least 1")
	}
	return nil
}

func DefaultConfig() *Config {
	return &Config{
		Provider:    ProviderOpenAI,
		Timeout:     2 * time.Minute,
		MaxRetries:  3,
		RetryDelay:  2 * time.Second,
		Temperature: 0.1,
		TopP:        0.9,
	}
}
