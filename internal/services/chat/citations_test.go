// File: internal/services/chat/citations_test.go
package chat

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cogniscript/server/internal/domain"
)

func TestExtractCitationsLabelSubstringCaseInsensitive(t *testing.T) {
	context := []domain.ContextItem{
		{Document: "AI_Guide.pdf", Text: "Artificial Intelligence refers to..."},
	}

	citations := ExtractCitations(context, "ai_guide.pdf discusses this")

	require.Len(t, citations, 1)
	assert.Equal(t, "auto_citation_0", citations[0].CitationID)
	assert.Equal(t, "AI_Guide.pdf", citations[0].Source)
	assert.Equal(t, "Artificial Intelligence refers to...", citations[0].Text)
}

func TestExtractCitationsWordOverlap(t *testing.T) {
	context := []domain.ContextItem{
		{Document: "networks.pdf", Text: "Convolutional architectures dominate image recognition tasks today"},
	}

	// no label mention, but "convolutional" (one of the first 10 words)
	// appears in the response
	citations := ExtractCitations(context, "The answer involves convolutional layers.")

	require.Len(t, citations, 1)
	assert.Equal(t, "networks.pdf", citations[0].Source)
}

func TestExtractCitationsWordBeyondFirstTenIgnored(t *testing.T) {
	context := []domain.ContextItem{
		{Document: "zzz.pdf", Text: "one two three four five six seven eight nine ten elephantine"},
	}

	citations := ExtractCitations(context, "a completely elephantine matter")

	assert.Empty(t, citations)
}

func TestExtractCitationsNoMatch(t *testing.T) {
	context := []domain.ContextItem{
		{Document: "unrelated.pdf", Text: "quantum chromodynamics lattice simulations"},
	}

	citations := ExtractCitations(context, "The weather tomorrow will be sunny.")

	assert.Empty(t, citations)
	assert.NotNil(t, citations)
}

func TestExtractCitationsTruncatesLongExcerpts(t *testing.T) {
	longText := "keyword " + strings.Repeat("z", 300)
	context := []domain.ContextItem{{Document: "big.pdf", Text: longText}}

	citations := ExtractCitations(context, "the keyword appears here")

	require.Len(t, citations, 1)
	assert.Len(t, citations[0].Text, 203)
	assert.True(t, strings.HasSuffix(citations[0].Text, "..."))
	assert.Equal(t, longText[:200], citations[0].Text[:200])
}

func TestExtractCitationsIdsTrackContextIndex(t *testing.T) {
	context := []domain.ContextItem{
		{Document: "first.pdf", Text: "nothing matching here xyzzy qwerty"},
		{Document: "second.pdf", Text: "interesting observable phenomena"},
	}

	citations := ExtractCitations(context, "second.pdf covers interesting material")

	require.Len(t, citations, 1)
	assert.Equal(t, "auto_citation_1", citations[0].CitationID)
}

func TestExtractCitationsSkipsIncompleteItems(t *testing.T) {
	context := []domain.ContextItem{
		{Document: "", Text: "match match match"},
		{Document: "label.pdf", Text: ""},
	}

	citations := ExtractCitations(context, "match label.pdf")

	assert.Empty(t, citations)
}
