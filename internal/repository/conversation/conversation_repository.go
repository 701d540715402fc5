package conversation

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/cogniscript/server/internal/domain"
)

var (
	ErrConversationNotFound = errors.New("conversation not found")
	ErrNoEntryToUpdate      = errors.New("no history entry awaiting an assistant reply")
)

type gormConversationRepository struct {
	db *gorm.DB
}

func NewConversationRepository(db *gorm.DB) ConversationRepository {
	return &gormConversationRepository{db: db}
}

// Create persists a new conversation thread.
func (r *gormConversationRepository) Create(ctx context.Context, conv *domain.Conversation) (*domain.Conversation, error) {
	if err := r.validateConversationInput(conv); err != nil {
		log.Printf("[ConversationRepository] Validation failed: %v", err)
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	if err := r.db.WithContext(ctx).Create(conv).Error; err != nil {
		log.Printf("[ConversationRepository] Database error creating conversation %s: %v", conv.ConversationID, err)
		return nil, errors.New("database error creating conversation")
	}

	log.Printf("[ConversationRepository] Conversation created: %s", conv.ConversationID)
	return conv, nil
}

func (r *gormConversationRepository) FindByConversationID(ctx context.Context, conversationID string) (*domain.Conversation, error) {
	if conversationID == "" {
		return nil, errors.New("invalid conversation ID")
	}

	var conv domain.Conversation
	err := r.db.WithContext(ctx).Where("conversation_id = ?", conversationID).First(&conv).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrConversationNotFound
		}
		log.Printf("[ConversationRepository] Database error finding conversation %s: %v", conversationID, err)
		return nil, errors.New("database query failed")
	}
	return &conv, nil
}

func (r *gormConversationRepository) FindByUserID(ctx context.Context, userID string) ([]domain.Conversation, error) {
	if userID == "" {
		return nil, errors.New("invalid user ID")
	}

	var convs []domain.Conversation
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("updated_at DESC, id DESC").
		Find(&convs).Error
	if err != nil {
		log.Printf("[ConversationRepository] Database error finding conversations for user %s: %v", userID, err)
		return nil, errors.New("database error fetching conversations")
	}
	return convs, nil
}

// AppendEntry adds one history entry to the end of the conversation. The
// assistant field is expected to be empty; UpdateLastAssistant fills it in
// once the reply is available.
func (r *gormConversationRepository) AppendEntry(ctx context.Context, entry *domain.ConversationEntry) (*domain.ConversationEntry, error) {
	if err := r.validateEntryInput(entry); err != nil {
		log.Printf("[ConversationRepository] Entry validation failed: %v", err)
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}

	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		log.Printf("[ConversationRepository] Database error appending entry for conversation %s: %v", entry.ConversationID, err)
		return nil, errors.New("database error appending history entry")
	}

	// Keep the thread's updated_at in step with its history.
	if err := r.db.WithContext(ctx).
		Model(&domain.Conversation{}).
		Where("conversation_id = ?", entry.ConversationID).
		Update("updated_at", gorm.Expr("CURRENT_TIMESTAMP")).Error; err != nil {
		log.Printf("[ConversationRepository] Database error touching conversation %s: %v", entry.ConversationID, err)
	}

	return entry, nil
}

// UpdateLastAssistant writes the assistant reply into the most recently
// appended entry. It refuses to overwrite a reply that is already set and
// fails when the conversation has no entries at all.
func (r *gormConversationRepository) UpdateLastAssistant(ctx context.Context, conversationID, assistantText string, citations []domain.Citation) error {
	if conversationID == "" {
		return errors.New("invalid conversation ID")
	}

	var last domain.ConversationEntry
	err := r.db.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Order("timestamp DESC, id DESC").
		First(&last).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNoEntryToUpdate
		}
		log.Printf("[ConversationRepository] Database error loading last entry for conversation %s: %v", conversationID, err)
		return errors.New("database query failed")
	}

	if last.AssistantText != "" {
		return ErrNoEntryToUpdate
	}

	updates := map[string]any{"assistant_text": assistantText}
	if citations != nil {
		updates["citations"] = citations
	}

	result := r.db.WithContext(ctx).
		Model(&domain.ConversationEntry{}).
		Where("id = ?", last.ID).
		Updates(updates)
	if result.Error != nil {
		log.Printf("[ConversationRepository] Database error updating last entry for conversation %s: %v", conversationID, result.Error)
		return errors.New("database error updating history entry")
	}
	if result.RowsAffected == 0 {
		return ErrNoEntryToUpdate
	}
	return nil
}

// GetHistory returns the full history in chronological order.
func (r *gormConversationRepository) GetHistory(ctx context.Context, conversationID string) ([]domain.ConversationEntry, error) {
	if conversationID == "" {
		return nil, errors.New("invalid conversation ID")
	}

	var entries []domain.ConversationEntry
	err := r.db.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Order("timestamp ASC, id ASC").
		Find(&entries).Error
	if err != nil {
		log.Printf("[ConversationRepository] Database error fetching history for conversation %s: %v", conversationID, err)
		return nil, errors.New("database error fetching history")
	}
	return entries, nil
}

// Delete removes the conversation and all of its history entries.
func (r *gormConversationRepository) Delete(ctx context.Context, conversationID string) error {
	if conversationID == "" {
		return errors.New("invalid conversation ID")
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("conversation_id = ?", conversationID).
			Delete(&domain.ConversationEntry{}).Error; err != nil {
			log.Printf("[ConversationRepository] Database error deleting history for conversation %s: %v", conversationID, err)
			return errors.New("database error deleting history")
		}

		result := tx.Where("conversation_id = ?", conversationID).Delete(&domain.Conversation{})
		if result.Error != nil {
			log.Printf("[ConversationRepository] Database error deleting conversation %s: %v", conversationID, result.Error)
			return errors.New("database error deleting conversation")
		}
		if result.RowsAffected == 0 {
			return ErrConversationNotFound
		}
		return nil
	})
}

func (r *gormConversationRepository) validateConversationInput(conv *domain.Conversation) error {
	if conv == nil {
		return errors.New("conversation cannot be nil")
	}
	if conv.ConversationID == "" {
		return errors.New("conversation ID is required")
	}
	if len(conv.Title) > 200 {
		return errors.New("title must be 200 characters or less")
	}
	return nil
}

func (r *gormConversationRepository) validateEntryInput(entry *domain.ConversationEntry) error {
	if entry == nil {
		return errors.New("entry cannot be nil")
	}
	if entry.ConversationID == "" {
		return errors.New("conversation ID is required")
	}
	if entry.UserText == "" {
		return errors.New("user text is required")
	}
	return nil
}
