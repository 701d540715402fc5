// File: internal/services/vectordb/types.go
package vectordb

// ChunkRecord is one chunk as stored in the index: id, raw text, embedding
// vector and flat string metadata.
type ChunkRecord struct {
	ID       string
	Text     string
	Vector   []float32
	Metadata map[string]string
}

// Match is one ranked result of a similarity query. Score is a similarity
// (higher is more relevant); the backend uses cosine similarity, which equals
// 1 minus cosine distance for normalized vectors.
type Match struct {
	ChunkID  string
	Text     string
	Score    float32
	Metadata map[string]string
	Rank     int
}

// DocumentStats aggregates the chunks one document contributed to a collection.
type DocumentStats struct {
	Filename   string   `json:"filename"`
	ChunkCount int      `json:"chunk_count"`
	ChunkIDs   []string `json:"chunk_ids"`
}

// CollectionInfo describes one conversation collection. ConversationID is
// recovered from the collection name and is therefore the sanitized form.
type CollectionInfo struct {
	ConversationID string                    `json:"conversation_id"`
	CollectionName string                    `json:"collection_name"`
	ChunkCount     uint64                    `json:"total_chunks"`
	DocumentCount  int                       `json:"total_documents"`
	Documents      map[string]*DocumentStats `json:"documents,omitempty"`
}
