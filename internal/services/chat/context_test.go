// File: internal/services/chat/context_test.go
package chat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cogniscript/server/internal/domain"
)

func TestFormatContextLabelFallback(t *testing.T) {
	tests := []struct {
		name     string
		metadata map[string]string
		want     string
	}{
		{
			name:     "document_name wins",
			metadata: map[string]string{"document_name": "guide.pdf", "filename": "other.pdf"},
			want:     "guide.pdf",
		},
		{
			name:     "filename second",
			metadata: map[string]string{"filename": "other.pdf", "source": "src"},
			want:     "other.pdf",
		},
		{
			name:     "source third",
			metadata: map[string]string{"source": "src", "document": "doc"},
			want:     "src",
		},
		{
			name:     "document fourth",
			metadata: map[string]string{"document": "doc"},
			want:     "doc",
		},
		{
			name:     "synthesized label last",
			metadata: map[string]string{},
			want:     "Document_Chunk_abc_3",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items := FormatContext([]domain.RetrievedChunk{{
				ChunkID:  "abc_3",
				Text:     "body text",
				Metadata: tt.metadata,
			}})
			require.Len(t, items, 1)
			assert.Equal(t, tt.want, items[0].Document)
		})
	}
}

func TestFormatContextStripsScoresAndEmptyChunks(t *testing.T) {
	items := FormatContext([]domain.RetrievedChunk{
		{ChunkID: "a_1", Text: "  kept text  ", Similarity: 0.97, Rank: 1, Metadata: map[string]string{"filename": "f.pdf"}},
		{ChunkID: "a_2", Text: "   ", Similarity: 0.5, Rank: 2},
	})

	require.Len(t, items, 1)
	assert.Equal(t, domain.ContextItem{Document: "f.pdf", Text: "kept text"}, items[0])
}

func TestFormatHistoryEmitsOnlyCompletePairs(t *testing.T) {
	entries := []domain.ConversationEntry{
		{UserText: "first question", AssistantText: "first answer"},
		{UserText: "second question", AssistantText: ""}, // awaiting reply
		{UserText: "third question", AssistantText: "third answer"},
	}

	messages := FormatHistory(entries, 10)

	require.Len(t, messages, 4)
	assert.Equal(t, domain.RoleUser, messages[0].Role)
	assert.Equal(t, "first question", messages[0].Content)
	assert.Equal(t, domain.RoleAssistant, messages[1].Role)
	assert.Equal(t, "first answer", messages[1].Content)
	assert.Equal(t, "third question", messages[2].Content)
	assert.Equal(t, "third answer", messages[3].Content)
}

func TestFormatHistoryRespectsMaxEntries(t *testing.T) {
	entries := []domain.ConversationEntry{
		{UserText: "q1", AssistantText: "a1"},
		{UserText: "q2", AssistantText: "a2"},
		{UserText: "q3", AssistantText: "a3"},
	}

	messages := FormatHistory(entries, 2)

	require.Len(t, messages, 4)
	assert.Equal(t, "q2", messages[0].Content)
	assert.Equal(t, "q3", messages[2].Content)
}

func TestFormatHistoryEmpty(t *testing.T) {
	assert.Empty(t, FormatHistory(nil, 10))
	assert.Empty(t, FormatHistory([]domain.ConversationEntry{{UserText: "q", AssistantText: ""}}, 10))
}
