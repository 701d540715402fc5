// File: internal/services/ai/service.go
package ai

import (
	"context"
	"fmt"
	"time"
)

// NewProvider builds the concrete adapter selected by the configuration.
func NewProvider(config *Config, logger Logger) (Provider, error) {
	if err := config.Validate(); err != nil {
		return nil, NewConfigError(err.Error())
	}
	switch config.Provider {
	case "", ProviderOpenAI:
		return NewOpenAIProvider(config, logger), nil
	default:
		return nil, NewConfigError(fmt.Sprintf("unknown AI provider %q", config.Provider))
	}
}

// Service wraps a Provider with retry and timeout handling. Callers that
// already carry a deadline keep it; otherwise the configured timeout applies.
type Service struct {
	provider Provider
	config   *Config
	logger   Logger
}

func NewService(provider Provider, config *Config, logger Logger) *Service {
	return &Service{provider: provider, config: config, logger: logger}
}

func (s *Service) CreateEmbedding(ctx context.Context, text string) ([]float32, error) {
	var result []float32
	err := s.retryWithTimeout(ctx, "embedding", func(ctx context.Context) error {
		var err error
		result, err = s.provider.CreateEmbedding(ctx, text)
		return err
	})
	return result, err
}

func (s *Service) CreateEmbeddingBatch(ctx context.Context, texts []string) ([][]float32, error) {
	var result [][]float32
	err := s.retryWithTimeout(ctx, "embedding_batch", func(ctx context.Context) error {
		var err error
		result, err = s.provider.CreateEmbeddingBatch(ctx, texts)
		return err
	})
	return result, err
}

func (s *Service) GetCompletion(ctx context.Context, prompt string, history []Message) (string, error) {
	var result string
	err := s.retryWithTimeout(ctx, "completion", func(ctx context.Context) error {
		var err error
		result, err = s.provider.GetCompletion(ctx, prompt, history)
		return err
	})
	return result, err
}

func (s *Service) retryWithTimeout(ctx context.Context, operation string, call func(ctx context.Context) error) error {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.config.Timeout)
		defer cancel()
	}

	var lastErr error
	for attempt := 0; attempt < s.config.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return NewProviderError(operation, "timed out during retry", ctx.Err())
			case <-time.After(s.config.RetryDelay):
			}
			s.logger.Debug("retrying AI operation", "operation", operation, "attempt", attempt+1)
		}

		if lastErr = call(ctx); lastErr == nil {
			return nil
		}
		if ctx.Err() != nil {
			return NewProviderError(operation, "operation timed out", ctx.Err())
		}
		s.logger.Warn("AI operation failed", "operation", operation, "attempt", attempt+1, "error", lastErr)
	}

	return NewProviderError(operation, "operation failed after all retries", lastErr)
}
