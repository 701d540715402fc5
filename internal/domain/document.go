// File: internal/domain/document.go
package domain

import "time"

// Document lifecycle states. A document is immutable once processed;
// failed documents keep no chunks behind.
const (
	DocumentStatusPending   = "pending"
	DocumentStatusProcessed = "processed"
	DocumentStatusFailed    = "failed"
)

// Document is the persisted descriptor of one ingested source file.
// It is created together with its chunks during ingestion and afterwards
// only ever deleted, as a unit, when the owning conversation's
// vector collection goes away.
type Document struct {
	ID             uint   `gorm:"primarykey"`
	DocID          string `json:"doc_id" gorm:"uniqueIndex;not null"`
	ConversationID string `json:"conversation_id" gorm:"index;not null"`
	Filename       string `json:"filename" gorm:"not null"`
	FileType       string `json:"file_type"`
	FileSize       int64  `json:"file_size"`
	UploadDate     time.Time `json:"upload_date"`
	PageCount      int    `json:"page_count"`
	PreviewText    string `json:"preview_text"`
	Tags           []string       `json:"tags" gorm:"serializer:json"`
	Source         string         `json:"source"`
	Metadata       map[string]any `json:"metadata" gorm:"serializer:json"`
	Status         string         `json:"status" gorm:"not null;default:pending"`
	Collection     string         `json:"collection"`
	ChunkIDs       []string       `json:"chunk_ids" gorm:"serializer:json"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
