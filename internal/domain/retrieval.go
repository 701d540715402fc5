// File: internal/domain/retrieval.go
package domain

// RetrievedChunk is one ranked similarity-search result. It is ephemeral:
// produced per query and never persisted.
type RetrievedChunk struct {
	ChunkID    string            `json:"chunk_id"`
	Text       string            `json:"text"`
	Similarity float32           `json:"similarity_score"`
	Metadata   map[string]string `json:"metadata"`
	Rank       int               `json:"relevance_rank"`
}

// ContextItem is a retrieved chunk reduced to what the language model sees:
// a human-readable document label and the chunk text.
type ContextItem struct {
	Document string `json:"document"`
	Text     string `json:"text"`
}

// HistoryMessage is one role-tagged message of formatted conversation history.
type HistoryMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)
