// File: internal/services/chat/citations.go
package chat

import (
	"fmt"
	"strings"

	"github.com/cogniscript/server/internal/domain"
)

const citationExcerptLength = 200

// ExtractCitations matches the assistant response against the context the
// model was shown and returns one citation per matched item. Matching is a
// deliberate heuristic, not semantic: an item counts as cited when its
// document label appears in the response, or when any of the first ten
// words of its text does (both case-insensitive). False positives and
// negatives are accepted. Extraction never fails a turn: a panic yields an
// empty list.
func ExtractCitations(context []domain.ContextItem, response string) (citations []domain.Citation) {
	defer func() {
		if r := recover(); r != nil {
			citations = []domain.Citation{}
		}
	}()

	citations = []domain.Citation{}
	lowerResponse := strings.ToLower(response)

	// Citation ids carry the index of the context item they came from, so
	// the same item always yields the same id regardless of what else
	// matched.
	for i, item := range context {
		if item.Document == "" || item.Text == "" {
			continue
		}
		if !matchesResponse(item, lowerResponse) {
			continue
		}
		citations = append(citations, domain.Citation{
			CitationID: fmt.Sprintf("auto_citation_%d", i),
			Source:     item.Document,
			Text:       truncateExcerpt(item.Text),
		})
	}
	return citations
}

func matchesResponse(item domain.ContextItem, lowerResponse string) bool {
	if strings.Contains(lowerResponse, strings.ToLower(item.Document)) {
		return true
	}

	words := strings.Fields(item.Text)
	if len(words) > 10 {
		words = words[:10]
	}
	for _, word := range words {
		if strings.Contains(lowerResponse, strings.ToLower(word)) {
			return true
		}
	}
	return false
}

func truncateExcerpt(text string) string {
	if len(text) <= citationExcerptLength {
		return text
	}
	return text[:citationExcerptLength] + "..."
}
