// File: internal/services/chat/retrieval.go
package chat

import (
	"context"
	"errors"

	"github.com/cogniscript/server/internal/domain"
	"github.com/cogniscript/server/internal/services/vectordb"
)

// VectorSearcher is the slice of the index manager retrieval needs.
type VectorSearcher interface {
	Query(ctx context.Context, conversationID string, vector []float32, k int) ([]vectordb.Match, error)
}

// Retrieve embeds the query and runs a similarity search against the
// conversation's collection. A missing collection is not an error: a
// conversation without uploads simply retrieves nothing.
func (s *Service) Retrieve(ctx context.Context, conversationID, query string, k int) ([]domain.RetrievedChunk, error) {
	k = s.config.ClampTopK(k)

	vector, err := s.embedder.CreateEmbedding(ctx, query)
	if err != nil {
		return nil, NewRetrievalError("failed to embed query", err)
	}

	matches, err := s.index.Query(ctx, conversationID, vector, k)
	if err != nil {
		if errors.Is(err, vectordb.ErrCollectionNotFound) {
			s.logger.Debug("no collection for conversation, returning empty retrieval",
				"conversation_id", conversationID)
			return []domain.RetrievedChunk{}, nil
		}
		return nil, NewRetrievalError("similarity query failed", err)
	}

	chunks := make([]domain.RetrievedChunk, 0, len(matches))
	for _, m := range matches {
		chunks = append(chunks, domain.RetrievedChunk{
			ChunkID:    m.ChunkID,
			Text:       m.Text,
			Similarity: m.Score,
			Metadata:   m.Metadata,
			Rank:       m.Rank,
		})
	}
	return chunks, nil
}
