package conversation

import (
	"context"

	"github.com/cogniscript/server/internal/domain"
)

// ConversationRepository handles conversation and history persistence.
type ConversationRepository interface {
	Create(ctx context.Context, conv *domain.Conversation) (*domain.Conversation, error)
	FindByConversationID(ctx context.Context, conversationID string) (*domain.Conversation, error)
	FindByUserID(ctx context.Context, userID string) ([]domain.Conversation, error)
	AppendEntry(ctx context.Context, entry *domain.ConversationEntry) (*domain.ConversationEntry, error)
	UpdateLastAssistant(ctx context.Context, conversationID, assistantText string, citations []domain.Citation) error
	GetHistory(ctx context.Context, conversationID string) ([]domain.ConversationEntry, error)
	Delete(ctx context.Context, conversationID string) error
}
