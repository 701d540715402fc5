// File: internal/services/ai/interface.go
package ai

import "context"

// EmbeddingProvider handles text embeddings
type EmbeddingProvider interface {
	CreateEmbedding(ctx context.Context, text string) ([]float32, error)
	// CreateEmbeddingBatch embeds many texts at once. The result order
	// always matches the input order.
	CreateEmbeddingBatch(ctx context.Context, texts []string) ([][]float32, error)
}

// CompletionProvider handles chat completions against a language model.
// The core never touches a vendor SDK directly, only this interface.
type CompletionProvider interface {
	GetCompletion(ctx context.Context, prompt string, history []Message) (string, error)
}

// Message is one role-tagged message supplied alongside a prompt.
type Message struct {
	Role    string
	Content string
}

// Provider combines embedding and completion capabilities
type Provider interface {
	EmbeddingProvider
	CompletionProvider
}

// Logger interface for AI operations
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
	Debug(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
}
