// File: internal/services/document/pipeline_test.go
package document

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cogniscript/server/internal/domain"
	"github.com/cogniscript/server/internal/services"
	"github.com/cogniscript/server/internal/services/vectordb"
)

type fakeExtractor struct {
	pages []PageText
	err   error
}

func (f *fakeExtractor) ExtractPages(ctx context.Context, path string) ([]PageText, error) {
	return f.pages, f.err
}

type fakeEmbedder struct {
	err   error
	calls [][]string
}

func (f *fakeEmbedder) CreateEmbedding(ctx context.Context, text string) ([]float32, error) {
	vectors, err := f.CreateEmbeddingBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

func (f *fakeEmbedder) CreateEmbeddingBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.calls = append(f.calls, texts)
	vectors := make([][]float32, len(texts))
	for i := range texts {
		vectors[i] = []float32{float32(i), 1}
	}
	return vectors, nil
}

type fakeIndex struct {
	ensured       []string
	upserted      []vectordb.ChunkRecord
	deletedChunks []string
	upsertErr     error
	deleteErr     error
}

func (f *fakeIndex) EnsureCollection(ctx context.Context, conversationID string) (bool, error) {
	f.ensured = append(f.ensured, conversationID)
	return false, nil
}

func (f *fakeIndex) UpsertChunks(ctx context.Context, conversationID string, chunks []vectordb.ChunkRecord) error {
	if f.upsertErr != nil {
		return f.upsertErr
	}
	f.upserted = append(f.upserted, chunks...)
	return nil
}

func (f *fakeIndex) DeleteChunks(ctx context.Context, conversationID string, chunkIDs []string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deletedChunks = append(f.deletedChunks, chunkIDs...)
	return nil
}

type fakeStore struct {
	insertErr error
	docs      []*domain.Document
}

func (f *fakeStore) Insert(ctx context.Context, doc *domain.Document) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	f.docs = append(f.docs, doc)
	return nil
}

func newTestPipeline(t *testing.T, extractor *fakeExtractor, embedder *fakeEmbedder, index *fakeIndex, store *fakeStore) *Pipeline {
	t.Helper()
	logger := &services.NoOpLogger{}
	chunker := NewChunker(500, 50, &HeuristicCounter{}, logger)
	cfg := DefaultConfig()
	cfg.EmbeddingModel = "test-embedding-model"

	p, err := NewPipeline(extractor, embedder, index, store, chunker, cfg, logger)
	require.NoError(t, err)
	return p
}

func TestIngestHappyPathWithPageGap(t *testing.T) {
	extractor := &fakeExtractor{pages: []PageText{
		{Text: "First page content about neural networks.", PageNo: 1},
		{Text: "Third page content about transformers.", PageNo: 3},
	}}
	embedder := &fakeEmbedder{}
	index := &fakeIndex{}
	store := &fakeStore{}
	p := newTestPipeline(t, extractor, embedder, index, store)

	doc, err := p.Ingest(context.Background(), "conv-1", "/tmp/missing.pdf", "guide.pdf", "user-7")
	require.NoError(t, err)

	// page 2 had no text, so only two distinct pages were seen
	assert.Equal(t, 2, doc.PageCount)
	assert.Equal(t, "guide.pdf", doc.Filename)
	assert.Equal(t, domain.DocumentStatusProcessed, doc.Status)
	assert.Equal(t, vectordb.CollectionName("conv-1"), doc.Collection)

	// chunk ids are a single running counter across pages, no gaps
	require.Len(t, doc.ChunkIDs, len(index.upserted))
	for i, id := range doc.ChunkIDs {
		assert.Equal(t, fmt.Sprintf("%s_%d", doc.DocID, i+1), id)
		assert.Equal(t, id, index.upserted[i].ID)
	}

	assert.Equal(t, []string{"conv-1"}, index.ensured)
	require.Len(t, store.docs, 1)

	meta := index.upserted[0].Metadata
	assert.Equal(t, "guide.pdf", meta["document_name"])
	assert.Equal(t, "1", meta["page_no"])
	assert.Equal(t, "conv-1", meta["conversation_id"])
	assert.Equal(t, doc.DocID, meta["doc_id"])
	assert.Equal(t, "user-7", meta["user_id"])

	last := index.upserted[len(index.upserted)-1].Metadata
	assert.Equal(t, "3", last["page_no"])
}

func TestIngestPreviewTruncated(t *testing.T) {
	longText := strings.Repeat("word ", 100) // 500 chars, single chunk
	extractor := &fakeExtractor{pages: []PageText{{Text: longText, PageNo: 1}}}
	index := &fakeIndex{}
	store := &fakeStore{}
	p := newTestPipeline(t, extractor, &fakeEmbedder{}, index, store)

	doc, err := p.Ingest(context.Background(), "conv-1", "/tmp/x.pdf", "long.pdf", "u")
	require.NoError(t, err)

	assert.True(t, strings.HasSuffix(doc.PreviewText, "..."))
	assert.Len(t, doc.PreviewText, 203)
	assert.Equal(t, index.upserted[0].Text[:200], doc.PreviewText[:200])
}

func TestIngestExtractionFailureAbortsEverything(t *testing.T) {
	extractor := &fakeExtractor{err: NewExtractionError("corrupt file", nil)}
	index := &fakeIndex{}
	store := &fakeStore{}
	p := newTestPipeline(t, extractor, &fakeEmbedder{}, index, store)

	_, err := p.Ingest(context.Background(), "conv-1", "/tmp/x.pdf", "bad.pdf", "u")
	require.Error(t, err)

	var procErr *ProcessingError
	require.ErrorAs(t, err, &procErr)
	assert.Equal(t, StageExtraction, procErr.Stage)
	assert.Empty(t, index.upserted)
	assert.Empty(t, store.docs)
}

func TestIngestEmbeddingFailureAbortsBeforeIndexing(t *testing.T) {
	extractor := &fakeExtractor{pages: []PageText{{Text: "some page text", PageNo: 1}}}
	embedder := &fakeEmbedder{err: errors.New("provider down")}
	index := &fakeIndex{}
	store := &fakeStore{}
	p := newTestPipeline(t, extractor, embedder, index, store)

	_, err := p.Ingest(context.Background(), "conv-1", "/tmp/x.pdf", "doc.pdf", "u")
	require.Error(t, err)

	var procErr *ProcessingError
	require.ErrorAs(t, err, &procErr)
	assert.Equal(t, StageEmbedding, procErr.Stage)
	assert.Empty(t, index.upserted)
	assert.Empty(t, store.docs)
}

func TestIngestIndexFailurePersistsNothing(t *testing.T) {
	extractor := &fakeExtractor{pages: []PageText{{Text: "some page text", PageNo: 1}}}
	index := &fakeIndex{upsertErr: errors.New("backend unavailable")}
	store := &fakeStore{}
	p := newTestPipeline(t, extractor, &fakeEmbedder{}, index, store)

	_, err := p.Ingest(context.Background(), "conv-1", "/tmp/x.pdf", "doc.pdf", "u")
	require.Error(t, err)

	var procErr *ProcessingError
	require.ErrorAs(t, err, &procErr)
	assert.Equal(t, StageIndexing, procErr.Stage)
	assert.Empty(t, store.docs)
}

func TestIngestDescriptorFailureRollsBackChunks(t *testing.T) {
	extractor := &fakeExtractor{pages: []PageText{{Text: "some page text", PageNo: 1}}}
	index := &fakeIndex{}
	store := &fakeStore{insertErr: errors.New("disk full")}
	p := newTestPipeline(t, extractor, &fakeEmbedder{}, index, store)

	_, err := p.Ingest(context.Background(), "conv-1", "/tmp/x.pdf", "doc.pdf", "u")
	require.Error(t, err)

	var procErr *ProcessingError
	require.ErrorAs(t, err, &procErr)
	assert.Equal(t, StagePersistence, procErr.Stage)

	// every chunk that went in came back out
	require.Len(t, index.upserted, len(index.deletedChunks))
	for i, record := range index.upserted {
		assert.Equal(t, record.ID, index.deletedChunks[i])
	}
}

func TestIngestEmptyDocument(t *testing.T) {
	extractor := &fakeExtractor{pages: nil}
	embedder := &fakeEmbedder{}
	index := &fakeIndex{}
	store := &fakeStore{}
	p := newTestPipeline(t, extractor, embedder, index, store)

	doc, err := p.Ingest(context.Background(), "conv-1", "/tmp/x.pdf", "empty.pdf", "u")
	require.NoError(t, err)

	assert.Empty(t, doc.ChunkIDs)
	assert.Zero(t, doc.PageCount)
	assert.Empty(t, doc.PreviewText)
	assert.Empty(t, embedder.calls)
	assert.Empty(t, index.upserted)
	require.Len(t, store.docs, 1)
}
