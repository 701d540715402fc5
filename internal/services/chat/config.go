// File: internal/services/chat/config.go
package chat

import "fmt"

const (
	// Callers may ask for up to MaxTopK results per query.
	MinTopK = 1
	MaxTopK = 20
)

// Config holds retrieval and context-assembly settings.
type Config struct {
	TopK              int    // default number of chunks per query
	MaxContextTokens  int    // total estimated-token budget for context + history
	MaxHistoryEntries int    // history entries considered before formatting
	LLMModel          string // completion model identifier, informational
}

func DefaultConfig() *Config {
	return &Config{
		TopK:              5,
		MaxContextTokens:  8000,
		MaxHistoryEntries: 10,
	}
}

func (c *Config) Validate() error {
	if c.TopK < MinTopK || c.TopK > MaxTopK {
		return fmt.Errorf("top_k must be between %d and %d, got %d", MinTopK, MaxTopK, c.TopK)
	}
	if c.MaxContextTokens <= 0 {
		return fmt.Errorf("max_context_tokens must be positive, got %d", c.MaxContextTokens)
	}
	if c.MaxHistoryEntries < 0 {
		return fmt.Errorf("max_history_entries must be non-negative, got %d", c.MaxHistoryEntries)
	}
	return nil
}

// ClampTopK forces a caller-supplied k into the allowed range, falling back
// to the configured default when k is zero.
func (c *Config) ClampTopK(k int) int {
	if k == 0 {
		k = c.TopK
	}
	if k < MinTopK {
		return MinTopK
	}
	if k > MaxTopK {
		return MaxTopK
	}
	return k
}
