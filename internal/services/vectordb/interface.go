// File: internal/services/vectordb/interface.go
package vectordb

import "context"

// Index is the single gateway to the vector backend. Every operation is
// scoped to a conversation id; the collection name is derived, never passed.
type Index interface {
	// EnsureCollection creates the conversation's collection if missing.
	// Reports whether it already existed.
	EnsureCollection(ctx context.Context, conversationID string) (bool, error)

	// UpsertChunks adds chunk records to the conversation's collection.
	UpsertChunks(ctx context.Context, conversationID string, chunks []ChunkRecord) error

	// Query returns up to k nearest chunks, best first, rank starting at 1.
	// Returns ErrCollectionNotFound when the conversation has no collection.
	Query(ctx context.Context, conversationID string, vector []float32, k int) ([]Match, error)

	// DeleteChunks removes individual chunks by chunk id (rollback path).
	DeleteChunks(ctx context.Context, conversationID string, chunkIDs []string) error

	// DeleteCollection drops the collection, returning the number of chunks
	// that were stored in it.
	DeleteCollection(ctx context.Context, conversationID string) (int, error)

	// DescribeCollection reports stats for one conversation's collection.
	DescribeCollection(ctx context.Context, conversationID string) (*CollectionInfo, error)

	// ListCollections enumerates every active conversation collection.
	ListCollections(ctx context.Context) ([]CollectionInfo, error)
}

// Logger interface for vector index operations
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
	Debug(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
}
