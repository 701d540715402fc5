// File: internal/services/chat/context.go
package chat

import (
	"fmt"
	"strings"

	"github.com/cogniscript/server/internal/domain"
)

// FormatContext reduces ranked retrieval results to what the model sees: a
// document label and the chunk text. Scores, ranks and internal ids are
// dropped. The label comes from metadata with a fixed fallback chain.
func FormatContext(chunks []domain.RetrievedChunk) []domain.ContextItem {
	items := make([]domain.ContextItem, 0, len(chunks))
	for _, chunk := range chunks {
		text := strings.TrimSpace(chunk.Text)
		if text == "" {
			continue
		}
		items = append(items, domain.ContextItem{
			Document: documentLabel(chunk),
			Text:     text,
		})
	}
	return items
}

func documentLabel(chunk domain.RetrievedChunk) string {
	for _, key := range []string{"document_name", "filename", "source", "document"} {
		if v := chunk.Metadata[key]; v != "" {
			return v
		}
	}
	return fmt.Sprintf("Document_Chunk_%s", chunk.ChunkID)
}

// FormatHistory turns stored entries into alternating user/assistant
// messages. Only the most recent maxEntries entries are considered, and of
// those only complete pairs are emitted: an entry still waiting for its
// assistant reply never surfaces as a dangling turn.
func FormatHistory(entries []domain.ConversationEntry, maxEntries int) []domain.HistoryMessage {
	if maxEntries >= 0 && len(entries) > maxEntries {
		entries = entries[len(entries)-maxEntries:]
	}

	messages := make([]domain.HistoryMessage, 0, 2*len(entries))
	for _, entry := range entries {
		if entry.UserText == "" || entry.AssistantText == "" {
			continue
		}
		messages = append(messages,
			domain.HistoryMessage{Role: domain.RoleUser, Content: entry.UserText},
			domain.HistoryMessage{Role: domain.RoleAssistant, Content: entry.AssistantText},
		)
	}
	return messages
}
