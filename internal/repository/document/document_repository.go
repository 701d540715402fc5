package document

import (
	"context"
	"errors"
	"fmt"
	"log"

	"gorm.io/gorm"

	"github.com/cogniscript/server/internal/domain"
)

var ErrDocumentNotFound = errors.New("document not found")

type gormDocumentRepository struct {
	db *gorm.DB
}

func NewDocumentRepository(db *gorm.DB) DocumentRepository {
	return &gormDocumentRepository{db: db}
}

// Insert persists a new document descriptor.
func (r *gormDocumentRepository) Insert(ctx context.Context, doc *domain.Document) error {
	if err := r.validateDocumentInput(doc); err != nil {
		log.Printf("[DocumentRepository] Validation failed: %v", err)
		return fmt.Errorf("validation failed: %w", err)
	}

	if err := r.db.WithContext(ctx).Create(doc).Error; err != nil {
		log.Printf("[DocumentRepository] Database error inserting document %s: %v", doc.DocID, err)
		return errors.New("database error inserting document")
	}

	log.Printf("[DocumentRepository] Document inserted: %s (conversation %s)", doc.DocID, doc.ConversationID)
	return nil
}

func (r *gormDocumentRepository) FindByDocID(ctx context.Context, docID string) (*domain.Document, error) {
	if docID == "" {
		return nil, errors.New("invalid document ID")
	}

	var doc domain.Document
	err := r.db.WithContext(ctx).Where("doc_id = ?", docID).First(&doc).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDocumentNotFound
		}
		log.Printf("[DocumentRepository] Database error finding document %s: %v", docID, err)
		return nil, errors.New("database query failed")
	}
	return &doc, nil
}

// FindByConversation returns all documents in a conversation, newest first.
func (r *gormDocumentRepository) FindByConversation(ctx context.Context, conversationID string) ([]domain.Document, error) {
	if conversationID == "" {
		return nil, errors.New("invalid conversation ID")
	}

	var docs []domain.Document
	err := r.db.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Order("upload_date DESC, id DESC").
		Find(&docs).Error
	if err != nil {
		log.Printf("[DocumentRepository] Database error finding documents for conversation %s: %v", conversationID, err)
		return nil, errors.New("database error fetching documents")
	}
	return docs, nil
}

func (r *gormDocumentRepository) DeleteByDocID(ctx context.Context, docID string) error {
	if docID == "" {
		return errors.New("invalid document ID")
	}

	result := r.db.WithContext(ctx).Where("doc_id = ?", docID).Delete(&domain.Document{})
	if result.Error != nil {
		log.Printf("[DocumentRepository] Database error deleting document %s: %v", docID, result.Error)
		return errors.New("database error deleting document")
	}
	if result.RowsAffected == 0 {
		return ErrDocumentNotFound
	}
	return nil
}

// DeleteByConversation removes every descriptor for the conversation and
// returns how many were removed. Deleting zero rows is not an error.
func (r *gormDocumentRepository) DeleteByConversation(ctx context.Context, conversationID string) (int64, error) {
	if conversationID == "" {
		return 0, errors.New("invalid conversation ID")
	}

	result := r.db.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Delete(&domain.Document{})
	if result.Error != nil {
		log.Printf("[DocumentRepository] Database error deleting documents for conversation %s: %v", conversationID, result.Error)
		return 0, errors.New("database error deleting documents")
	}

	log.Printf("[DocumentRepository] Deleted %d documents for conversation %s", result.RowsAffected, conversationID)
	return result.RowsAffected, nil
}

func (r *gormDocumentRepository) CountByConversation(ctx context.Context, conversationID string) (int64, error) {
	if conversationID == "" {
		return 0, errors.New("invalid conversation ID")
	}

	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.Document{}).
		Where("conversation_id = ?", conversationID).
		Count(&count).Error
	if err != nil {
		log.Printf("[DocumentRepository] Database error counting documents for conversation %s: %v", conversationID, err)
		return 0, errors.New("database error counting documents")
	}
	return count, nil
}

func (r *gormDocumentRepository) validateDocumentInput(doc *domain.Document) error {
	if doc == nil {
		return errors.New("document cannot be nil")
	}
	if doc.DocID == "" {
		return errors.New("document ID is required")
	}
	if doc.ConversationID == "" {
		return errors.New("conversation ID is required")
	}
	if doc.Filename == "" {
		return errors.New("filename is required")
	}
	return nil
}
