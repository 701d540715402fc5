// File: internal/services/ai/openai_provider.go
package ai

import (
	"context"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAIProvider speaks to any OpenAI-compatible endpoint. Embeddings and
// completions use separately configured clients so the two can point at
// different vendors.
type OpenAIProvider struct {
	config          *Config
	embeddingClient *openai.Client
	llmClient       *openai.Client
	logger          Logger
}

func NewOpenAIProvider(config *Config, logger Logger) *OpenAIProvider {
	llmConfig := openai.DefaultConfig(config.LLMKey)
	if config.LLMBaseURL != "" {
		llmConfig.BaseURL = config.LLMBaseURL
	}

	embeddingConfig := openai.DefaultConfig(config.EmbeddingKey)
	if config.EmbeddingBaseURL != "" {
		embeddingConfig.BaseURL = config.EmbeddingBaseURL
	}

	return &OpenAIProvider{
		config:          config,
		embeddingClient: openai.NewClientWithConfig(embeddingConfig),
		llmClient:       openai.NewClientWithConfig(llmConfig),
		logger:          logger,
	}
}

func (p *OpenAIProvider) CreateEmbedding(ctx context.Context, text string) ([]float32, error) {
	req := openai.EmbeddingRequest{
		Input: []string{text},
		Model: openai.EmbeddingModel(p.config.EmbeddingModel),
	}

	resp, err := p.embeddingClient.CreateEmbeddings(ctx, req)
	if err != nil {
		return nil, NewProviderError("embedding", "failed to create embedding", err)
	}

	if len(resp.Data) == 0 || len(resp.Data[0].Embedding) == 0 {
		return nil, &AIError{
			Type:      ErrTypeProvider,
			Operation: "embedding",
			Message:   "empty embedding response",
		}
	}

	return resp.Data[0].Embedding, nil
}

// CreateEmbeddingBatch embeds all texts in one request. If the batch call
// fails it falls back to one request per text, so a flaky provider degrades
// throughput instead of failing the whole document.
func (p *OpenAIProvider) CreateEmbeddingBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	resp, err := p.embeddingClient.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: texts,
		Model: openai.EmbeddingModel(p.config.EmbeddingModel),
	})
	if err != nil {
		p.logger.Warn("batch embedding failed, falling back to single calls", "error", err, "count", len(texts))
		return p.embedSequential(ctx, texts)
	}

	if len(resp.Data) != len(texts) {
		return nil, &AIError{
			Type:      ErrTypeProvider,
			Operation: "embedding_batch",
			Message:   "embedding count does not match input count",
		}
	}

	// Response entries carry an index; order by it rather than trusting
	// the wire order.
	results := make([][]float32, len(texts))
	for _, data := range resp.Data {
		if data.Index < 0 || data.Index >= len(results) {
			return nil, &AIError{
				Type:      ErrTypeProvider,
				Operation: "embedding_batch",
				Message:   "embedding index out of range",
			}
		}
		results[data.Index] = data.Embedding
	}
	for i, vec := range results {
		if len(vec) == 0 {
			p.logger.Warn("empty embedding in batch response, retrying single", "index", i)
			single, err := p.CreateEmbedding(ctx, texts[i])
			if err != nil {
				return nil, err
			}
			results[i] = single
		}
	}

	return results, nil
}

func (p *OpenAIProvider) embedSequential(ctx context.Context, texts []string) ([][]float32, error) {
	results := make([][]float32, len(texts))
	for i, text := range texts {
		vec, err := p.CreateEmbedding(ctx, text)
		if err != nil {
			return nil, err
		}
		results[i] = vec
	}
	return results, nil
}

func (p *OpenAIProvider) GetCompletion(ctx context.Context, prompt string, history []Message) (string, error) {
	messages := make([]openai.ChatCompletionMessage, 0, len(history)+1)
	for _, m := range history {
		messages = append(messages, openai.ChatCompletionMessage{Role: m.Role, Content: m.Content})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: prompt,
	})

	resp, err := p.llmClient.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       p.config.LLMModel,
		Messages:    messages,
		Temperature: p.config.Temperature,
		TopP:        p.config.TopP,
	})
	if err != nil {
		return "", NewProviderError("completion", "failed to create completion", err)
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", &AIError{
			Type:      ErrTypeProvider,
			Operation: "completion",
			Message:   "empty completion response",
		}
	}

	return resp.Choices[0].Message.Content, nil
}
