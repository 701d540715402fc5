// File: internal/services/chat/prompt.go
package chat

import (
	"fmt"
	"strings"

	"github.com/cogniscript/server/internal/domain"
)

// SystemPrompt frames every completion request.
const SystemPrompt = "You are a helpful AI assistant with access to relevant context. " +
	"Use the provided context to answer questions accurately. " +
	"If the context doesn't contain relevant information, say so clearly."

// BuildPrompt folds the retrieved context into the user message. With no
// context the question passes through unchanged.
func BuildPrompt(query string, context []domain.ContextItem) string {
	if len(context) == 0 {
		return query
	}

	blocks := make([]string, 0, len(context))
	for _, item := range context {
		blocks = append(blocks, fmt.Sprintf("Document: %s\n%s", item.Document, item.Text))
	}

	return fmt.Sprintf("Context from uploaded documents:\n%s\n\nQuestion: %s",
		strings.Join(blocks, "\n\n"), query)
}
