// File: internal/services/document/pipeline.go
package document

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/cogniscript/server/internal/domain"
	"github.com/cogniscript/server/internal/services/ai"
	"github.com/cogniscript/server/internal/services/vectordb"
)

// VectorIndex is the slice of the index manager the pipeline needs.
type VectorIndex interface {
	EnsureCollection(ctx context.Context, conversationID string) (bool, error)
	UpsertChunks(ctx context.Context, conversationID string, chunks []vectordb.ChunkRecord) error
	DeleteChunks(ctx context.Context, conversationID string, chunkIDs []string) error
}

// DescriptorStore persists document descriptors.
type DescriptorStore interface {
	Insert(ctx context.Context, doc *domain.Document) error
}

// Pipeline orchestrates extract → clean → chunk → embed → index → persist.
// The vector index and the descriptor store must never disagree about a
// document's existence: every failure past the index write compensates.
type Pipeline struct {
	extractor PageExtractor
	embedder  ai.EmbeddingProvider
	index     VectorIndex
	store     DescriptorStore
	chunker   *Chunker
	config    *Config
	logger    Logger
}

func NewPipeline(
	extractor PageExtractor,
	embedder ai.EmbeddingProvider,
	index VectorIndex,
	store DescriptorStore,
	chunker *Chunker,
	config *Config,
	logger Logger,
) (*Pipeline, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &Pipeline{
		extractor: extractor,
		embedder:  embedder,
		index:     index,
		store:     store,
		chunker:   chunker,
		config:    config,
		logger:    logger,
	}, nil
}

// Ingest processes one uploaded file into the conversation's collection and
// returns the persisted descriptor. Any error leaves no partial state: the
// descriptor is only written after the chunks, and the chunks are removed
// again if the descriptor write fails.
func (p *Pipeline) Ingest(ctx context.Context, conversationID, filePath, filename, uploaderID string) (*domain.Document, error) {
	docID := uuid.New().String()
	uploadDate := time.Now().UTC()

	p.logger.Info("ingesting document",
		"conversation_id", conversationID, "filename", filename, "doc_id", docID)

	if _, err := p.index.EnsureCollection(ctx, conversationID); err != nil {
		return nil, NewIndexingError("failed to ensure collection", err)
	}

	pages, err := p.extractor.ExtractPages(ctx, filePath)
	if err != nil {
		var procErr *ProcessingError
		if errors.As(err, &procErr) {
			return nil, err
		}
		return nil, NewExtractionError("failed to extract text", err)
	}

	for i := range pages {
		pages[i].Text = CleanText(pages[i].Text)
	}

	chunks := p.chunker.ChunkPages(pages)
	p.logger.Info("document chunked",
		"doc_id", docID, "pages_with_text", len(pages), "chunks", len(chunks))

	texts := make([]string, len(chunks))
	for i, chunk := range chunks {
		texts[i] = chunk.Text
	}

	var embeddings [][]float32
	if len(texts) > 0 {
		embeddings, err = p.embedder.CreateEmbeddingBatch(ctx, texts)
		if err != nil {
			return nil, NewEmbeddingError("failed to embed chunks", err)
		}
		if len(embeddings) != len(chunks) {
			return nil, NewEmbeddingError(
				fmt.Sprintf("embedding count %d does not match chunk count %d", len(embeddings), len(chunks)), nil)
		}
	}

	// Chunk ids use one running counter across all pages in extraction
	// order, so ids are <docID>_1 .. <docID>_N with no gaps.
	records := make([]vectordb.ChunkRecord, len(chunks))
	chunkIDs := make([]string, len(chunks))
	pagesSeen := make(map[int]struct{})
	for i, chunk := range chunks {
		chunkID := fmt.Sprintf("%s_%d", docID, i+1)
		chunkIDs[i] = chunkID
		pagesSeen[chunk.PageNo] = struct{}{}

		records[i] = vectordb.ChunkRecord{
			ID:     chunkID,
			Text:   chunk.Text,
			Vector: embeddings[i],
			Metadata: map[string]string{
				"document_name":   filename,
				"page_no":         strconv.Itoa(chunk.PageNo),
				"chunk_in_page":   strconv.Itoa(chunk.ChunkInPage),
				"conversation_id": conversationID,
				"doc_id":          docID,
				"filename":        filename,
				"upload_date":     uploadDate.Format(time.RFC3339),
				"user_id":         uploaderID,
			},
		}
	}

	if len(records) > 0 {
		if err := p.index.UpsertChunks(ctx, conversationID, records); err != nil {
			return nil, NewIndexingError("failed to insert chunks", err)
		}
	}

	doc := &domain.Document{
		DocID:          docID,
		ConversationID: conversationID,
		Filename:       filename,
		FileType:       strings.ToLower(filepath.Ext(filename)),
		FileSize:       fileSize(filePath),
		UploadDate:     uploadDate,
		PageCount:      len(pagesSeen),
		PreviewText:    p.previewText(chunks),
		Tags:           []string{},
		Source:         "user upload",
		Metadata: map[string]any{
			"total_chunks":     len(chunks),
			"processing_model": p.config.EmbeddingModel,
			"uploader_id":      uploaderID,
		},
		Status:     domain.DocumentStatusProcessed,
		Collection: vectordb.CollectionName(conversationID),
		ChunkIDs:   chunkIDs,
	}

	if err := p.store.Insert(ctx, doc); err != nil {
		// The chunks are already in the index; take them out again so the
		// two stores agree the document does not exist.
		if len(chunkIDs) > 0 {
			if rollbackErr := p.index.DeleteChunks(ctx, conversationID, chunkIDs); rollbackErr != nil {
				p.logger.Error("rollback of inserted chunks failed",
					"doc_id", docID, "error", rollbackErr)
			}
		}
		return nil, NewPersistenceError("failed to persist document descriptor", err)
	}

	p.logger.Info("document ingested",
		"doc_id", docID, "chunks", len(chunks), "pages", doc.PageCount)
	return doc, nil
}

func (p *Pipeline) previewText(chunks []PageChunk) string {
	if len(chunks) == 0 {
		return ""
	}
	text := chunks[0].Text
	if len(text) <= p.config.PreviewLength {
		return text
	}
	return text[:p.config.PreviewLength] + "..."
}

func fileSize(path string) int64 {
	info, err := os.Stat(path)
	if err != nil {
		return 0
	}
	return info.Size()
}
