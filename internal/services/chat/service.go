// File: internal/services/chat/service.go
package chat

import (
	"context"
	"time"

	"github.com/cogniscript/server/internal/domain"
	"github.com/cogniscript/server/internal/services/ai"
)

const errorReply = "I apologize, but I encountered an error while processing your request. Please try again."

// HistoryStore is the slice of the conversation repository the service needs.
type HistoryStore interface {
	FindByConversationID(ctx context.Context, conversationID string) (*domain.Conversation, error)
	AppendEntry(ctx context.Context, entry *domain.ConversationEntry) (*domain.ConversationEntry, error)
	UpdateLastAssistant(ctx context.Context, conversationID, assistantText string, citations []domain.Citation) error
	GetHistory(ctx context.Context, conversationID string) ([]domain.ConversationEntry, error)
}

// Logger interface for chat operations
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
	Debug(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
}

// TurnResult is the outcome of one conversational turn.
type TurnResult struct {
	ConversationID string            `json:"conversation_id"`
	Response       string            `json:"response"`
	Citations      []domain.Citation `json:"citations"`
	ContextUsed    int               `json:"context_used"`
	HistoryUsed    int               `json:"history_used"`
	Timestamp      time.Time         `json:"timestamp"`
}

// Service runs conversational turns: history append, retrieval, context
// assembly, generation and response persistence, in that order.
//
// The "reply goes into the last entry" contract means concurrent turns
// against the same conversation can interleave appends and corrupt which
// entry receives which reply. Callers that expect concurrent access must
// serialize turns per conversation id externally.
type Service struct {
	embedder ai.EmbeddingProvider
	llm      ai.CompletionProvider
	index    VectorSearcher
	history  HistoryStore
	config   *Config
	logger   Logger
}

func NewService(
	embedder ai.EmbeddingProvider,
	llm ai.CompletionProvider,
	index VectorSearcher,
	history HistoryStore,
	config *Config,
	logger Logger,
) (*Service, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &Service{
		embedder: embedder,
		llm:      llm,
		index:    index,
		history:  history,
		config:   config,
		logger:   logger,
	}, nil
}

// Turn processes one user prompt end to end and returns the reply with its
// citations. The user entry is appended before anything can fail, so a
// failed turn still shows up in history (with an apology reply when the
// model call itself failed).
func (s *Service) Turn(ctx context.Context, conversationID, userID, prompt string, uploads []string) (*TurnResult, error) {
	s.logger.Info("processing turn", "conversation_id", conversationID)

	conv, err := s.history.FindByConversationID(ctx, conversationID)
	if err != nil {
		return nil, NewHistoryError("conversation lookup failed", err)
	}
	if userID != "" && conv.UserID != "" && conv.UserID != userID {
		return nil, NewHistoryError("user does not own this conversation", nil)
	}

	priorEntries, err := s.history.GetHistory(ctx, conversationID)
	if err != nil {
		return nil, NewHistoryError("failed to load history", err)
	}

	entry := &domain.ConversationEntry{
		ConversationID: conversationID,
		Timestamp:      time.Now().UTC(),
		UserText:       prompt,
		Uploads:        uploads,
	}
	if _, err := s.history.AppendEntry(ctx, entry); err != nil {
		return nil, NewHistoryError("failed to append user entry", err)
	}

	retrieved, err := s.Retrieve(ctx, conversationID, prompt, s.config.TopK)
	if err != nil {
		s.failTurn(ctx, conversationID)
		return nil, err
	}

	contextItems := FormatContext(retrieved)
	historyMessages := FormatHistory(priorEntries, s.config.MaxHistoryEntries)
	contextItems, historyMessages = EnforceBudget(contextItems, historyMessages, s.config.MaxContextTokens)

	finalPrompt := BuildPrompt(prompt, contextItems)
	completionHistory := make([]ai.Message, 0, len(historyMessages)+1)
	completionHistory = append(completionHistory, ai.Message{Role: "system", Content: SystemPrompt})
	for _, msg := range historyMessages {
		completionHistory = append(completionHistory, ai.Message{Role: msg.Role, Content: msg.Content})
	}

	response, err := s.llm.GetCompletion(ctx, finalPrompt, completionHistory)
	if err != nil {
		s.failTurn(ctx, conversationID)
		return nil, NewGenerationError("completion failed", err)
	}

	citations := ExtractCitations(contextItems, response)

	if err := s.history.UpdateLastAssistant(ctx, conversationID, response, citations); err != nil {
		return nil, NewPersistenceError("failed to store assistant reply", err)
	}

	s.logger.Info("turn complete",
		"conversation_id", conversationID,
		"context_used", len(contextItems),
		"history_used", len(historyMessages),
		"citations", len(citations))

	return &TurnResult{
		ConversationID: conversationID,
		Response:       response,
		Citations:      citations,
		ContextUsed:    len(contextItems),
		HistoryUsed:    len(historyMessages),
		Timestamp:      time.Now().UTC(),
	}, nil
}

// failTurn closes the dangling history entry with an apology so the thread
// never ends on an entry that silently lost its reply. Best effort only.
func (s *Service) failTurn(ctx context.Context, conversationID string) {
	if err := s.history.UpdateLastAssistant(ctx, conversationID, errorReply, nil); err != nil {
		s.logger.Warn("could not record error reply", "conversation_id", conversationID, "error", err)
	}
}
