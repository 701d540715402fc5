// File: internal/services/vectordb/manager.go
package vectordb

import (
	"context"
	"strconv"

	"github.com/qdrant/go-client/qdrant"
)

const (
	payloadKeyChunkID = "chunk_id"
	payloadKeyText    = "text"
	payloadKeyDocID   = "doc_id"
)

// Manager owns the Qdrant client handle and implements Index on top of it.
// Lifecycle (open/close) belongs to the process that constructs it.
type Manager struct {
	client *qdrant.Client
	config *Config
	logger Logger
}

var _ Index = (*Manager)(nil)

func NewManager(config *Config, logger Logger) (*Manager, error) {
	if err := config.Validate(); err != nil {
		return nil, NewConfigError(err.Error())
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host:   config.Host,
		Port:   config.Port,
		APIKey: config.APIKey,
		UseTLS: config.UseTLS,
	})
	if err != nil {
		return nil, NewConnectionError("failed to create qdrant client", err)
	}

	logger.Info("qdrant client initialized",
		"host", config.Host, "port", config.Port, "vector_size", config.VectorSize)

	return &Manager{client: client, config: config, logger: logger}, nil
}

func (m *Manager) Close() error {
	return m.client.Close()
}

// HealthCheck verifies the backend answers at all.
func (m *Manager) HealthCheck(ctx context.Context) error {
	if _, err := m.client.ListCollections(ctx); err != nil {
		return NewConnectionError("health check failed", err)
	}
	return nil
}

func (m *Manager) EnsureCollection(ctx context.Context, conversationID string) (bool, error) {
	name := CollectionName(conversationID)

	var existed bool
	err := m.retryWithTimeout(ctx, func(ctx context.Context) error {
		exists, err := m.client.CollectionExists(ctx, name)
		if err != nil {
			return NewOperationError("failed to check collection existence", err)
		}
		if exists {
			existed = true
			return nil
		}

		err = m.client.CreateCollection(ctx, &qdrant.CreateCollection{
			CollectionName: name,
			VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
				Size:     m.config.VectorSize,
				Distance: qdrant.Distance_Cosine,
			}),
		})
		if err != nil {
			return NewOperationError("failed to create collection", err)
		}
		m.logger.Info("created vector collection", "collection", name, "conversation_id", conversationID)
		return nil
	})
	return existed, err
}

func (m *Manager) UpsertChunks(ctx context.Context, conversationID string, chunks []ChunkRecord) error {
	if len(chunks) == 0 {
		return nil
	}
	name := CollectionName(conversationID)

	points := make([]*qdrant.PointStruct, len(chunks))
	for i, chunk := range chunks {
		payload := make(map[string]any, len(chunk.Metadata)+2)
		for k, v := range chunk.Metadata {
			payload[k] = v
		}
		payload[payloadKeyChunkID] = chunk.ID
		payload[payloadKeyText] = chunk.Text

		points[i] = &qdrant.PointStruct{
			Id:      qdrant.NewID(pointID(chunk.ID)),
			Vectors: qdrant.NewVectors(chunk.Vector...),
			Payload: qdrant.NewValueMap(payload),
		}
	}

	return m.retryWithTimeout(ctx, func(ctx context.Context) error {
		_, err := m.client.Upsert(ctx, &qdrant.UpsertPoints{
			CollectionName: name,
			Points:         points,
			Wait:           qdrant.PtrOf(true),
		})
		if err != nil {
			return NewOperationError("failed to upsert chunks", err)
		}
		m.logger.Debug("upserted chunks", "collection", name, "count", len(points))
		return nil
	})
}

func (m *Manager) Query(ctx context.Context, conversationID string, vector []float32, k int) ([]Match, error) {
	name := CollectionName(conversationID)

	exists, err := m.client.CollectionExists(ctx, name)
	if err != nil {
		return nil, NewOperationError("failed to check collection existence", err)
	}
	if !exists {
		return nil, ErrCollectionNotFound
	}

	var scored []*qdrant.ScoredPoint
	err = m.retryWithTimeout(ctx, func(ctx context.Context) error {
		var err error
		scored, err = m.client.Query(ctx, &qdrant.QueryPoints{
			CollectionName: name,
			Query:          qdrant.NewQuery(vector...),
			Limit:          qdrant.PtrOf(uint64(k)),
			WithPayload:    qdrant.NewWithPayload(true),
		})
		if err != nil {
			return NewOperationError("similarity search failed", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	matches := make([]Match, 0, len(scored))
	for i, point := range scored {
		if point == nil {
			continue
		}
		metadata := payloadToMetadata(point.Payload)
		chunkID := metadata[payloadKeyChunkID]
		text := metadata[payloadKeyText]
		delete(metadata, payloadKeyChunkID)
		delete(metadata, payloadKeyText)

		matches = append(matches, Match{
			ChunkID:  chunkID,
			Text:     text,
			Score:    point.Score,
			Metadata: metadata,
			Rank:     i + 1,
		})
	}

	m.logger.Debug("similarity search completed", "collection", name, "results", len(matches))
	return matches, nil
}

func (m *Manager) DeleteChunks(ctx context.Context, conversationID string, chunkIDs []string) error {
	if len(chunkIDs) == 0 {
		return nil
	}
	name := CollectionName(conversationID)

	ids := make([]*qdrant.PointId, len(chunkIDs))
	for i, chunkID := range chunkIDs {
		ids[i] = qdrant.NewID(pointID(chunkID))
	}

	return m.retryWithTimeout(ctx, func(ctx context.Context) error {
		_, err := m.client.Delete(ctx, &qdrant.DeletePoints{
			CollectionName: name,
			Points:         qdrant.NewPointsSelector(ids...),
			Wait:           qdrant.PtrOf(true),
		})
		if err != nil {
			return NewOperationError("failed to delete chunks", err)
		}
		m.logger.Info("deleted chunks", "collection", name, "count", len(ids))
		return nil
	})
}

func (m *Manager) DeleteCollection(ctx context.Context, conversationID string) (int, error) {
	name := CollectionName(conversationID)

	exists, err := m.client.CollectionExists(ctx, name)
	if err != nil {
		return 0, NewOperationError("failed to check collection existence", err)
	}
	if !exists {
		return 0, ErrCollectionNotFound
	}

	count, err := m.client.Count(ctx, &qdrant.CountPoints{
		CollectionName: name,
		Exact:          qdrant.PtrOf(true),
	})
	if err != nil {
		return 0, NewOperationError("failed to count chunks", err)
	}

	if err := m.client.DeleteCollection(ctx, name); err != nil {
		return 0, NewOperationError("failed to delete collection", err)
	}

	m.logger.Info("deleted vector collection", "collection", name, "chunks", count)
	return int(count), nil
}

func (m *Manager) DescribeCollection(ctx context.Context, conversationID string) (*CollectionInfo, error) {
	name := CollectionName(conversationID)

	exists, err := m.client.CollectionExists(ctx, name)
	if err != nil {
		return nil, NewOperationError("failed to check collection existence", err)
	}
	if !exists {
		return nil, ErrCollectionNotFound
	}
	return m.describe(ctx, name)
}

func (m *Manager) ListCollections(ctx context.Context) ([]CollectionInfo, error) {
	names, err := m.client.ListCollections(ctx)
	if err != nil {
		return nil, NewOperationError("failed to list collections", err)
	}

	infos := make([]CollectionInfo, 0, len(names))
	for _, name := range names {
		if !isConversationCollection(name) {
			continue
		}
		info, err := m.describe(ctx, name)
		if err != nil {
			m.logger.Warn("failed to collect stats for collection", "collection", name, "error", err)
			infos = append(infos, CollectionInfo{
				ConversationID: conversationIDFromCollection(name),
				CollectionName: name,
			})
			continue
		}
		infos = append(infos, *info)
	}

	m.logger.Info("enumerated conversation collections", "count", len(infos))
	return infos, nil
}

// describe scans the collection's payloads once to aggregate per-document
// chunk stats. Collections are bounded by ScrollLimit; per-conversation
// document sets stay far below it in practice.
func (m *Manager) describe(ctx context.Context, name string) (*CollectionInfo, error) {
	points, err := m.client.Scroll(ctx, &qdrant.ScrollPoints{
		CollectionName: name,
		Limit:          qdrant.PtrOf(m.config.ScrollLimit),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, NewOperationError("failed to scan collection", err)
	}

	docs := make(map[string]*DocumentStats)
	for _, point := range points {
		if point == nil || point.Payload == nil {
			continue
		}
		metadata := payloadToMetadata(point.Payload)
		docID := metadata[payloadKeyDocID]
		if docID == "" {
			docID = "unknown"
		}
		stats, ok := docs[docID]
		if !ok {
			stats = &DocumentStats{Filename: metadata["filename"]}
			docs[docID] = stats
		}
		stats.ChunkCount++
		if chunkID := metadata[payloadKeyChunkID]; chunkID != "" {
			stats.ChunkIDs = append(stats.ChunkIDs, chunkID)
		}
	}

	return &CollectionInfo{
		ConversationID: conversationIDFromCollection(name),
		CollectionName: name,
		ChunkCount:     uint64(len(points)),
		DocumentCount:  len(docs),
		Documents:      docs,
	}, nil
}

func isConversationCollection(name string) bool {
	return len(name) > len(CollectionSuffix) &&
		name[len(name)-len(CollectionSuffix):] == CollectionSuffix
}

// payloadToMetadata flattens a Qdrant payload into string values.
func payloadToMetadata(payload map[string]*qdrant.Value) map[string]string {
	metadata := make(map[string]string, len(payload))
	for key, value := range payload {
		if value == nil {
			continue
		}
		switch v := value.Kind.(type) {
		case *qdrant.Value_StringValue:
			metadata[key] = v.StringValue
		case *qdrant.Value_IntegerValue:
			metadata[key] = strconv.FormatInt(v.IntegerValue, 10)
		case *qdrant.Value_DoubleValue:
			metadata[key] = strconv.FormatFloat(v.DoubleValue, 'f', -1, 64)
		case *qdrant.Value_BoolValue:
			metadata[key] = strconv.FormatBool(v.BoolValue)
		}
	}
	return metadata
}
