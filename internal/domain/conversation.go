// File: internal/domain/conversation.go
package domain

import "time"

// Conversation represents a single conversation thread.
type Conversation struct {
	ID             uint   `gorm:"primarykey"`
	ConversationID string `json:"conversation_id" gorm:"uniqueIndex;not null"`
	UserID         string `json:"user_id"`
	Title          string `json:"title"`
	Status         string `json:"status" gorm:"default:active"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// ConversationEntry is one turn of the conversation history. Entries are
// appended with an empty assistant field; the assistant reply is written
// exactly once, into the most recently appended entry.
type ConversationEntry struct {
	ID             uint      `gorm:"primarykey"`
	ConversationID string    `json:"conversation_id" gorm:"index;not null"`
	Timestamp      time.Time `json:"timestamp"`
	UserText       string    `json:"user" gorm:"not null"`
	AssistantText  string    `json:"assistant"`
	Uploads        []string   `json:"uploads" gorm:"serializer:json"`
	Citations      []Citation `json:"citations" gorm:"serializer:json"`
}
