package document

import (
	"context"

	"github.com/cogniscript/server/internal/domain"
)

// DocumentRepository handles document descriptor persistence.
type DocumentRepository interface {
	Insert(ctx context.Context, doc *domain.Document) error
	FindByDocID(ctx context.Context, docID string) (*domain.Document, error)
	FindByConversation(ctx context.Context, conversationID string) ([]domain.Document, error)
	DeleteByDocID(ctx context.Context, docID string) error
	DeleteByConversation(ctx context.Context, conversationID string) (int64, error)
	CountByConversation(ctx context.Context, conversationID string) (int64, error)
}
