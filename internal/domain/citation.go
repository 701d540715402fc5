// File: internal/domain/citation.go
package domain

// Citation links a model statement back to a retrieved source excerpt.
// Excerpt text is truncated at extraction time, never here.
type Citation struct {
	CitationID string `json:"citationId"`
	Source     string `json:"source"`
	Text       string `json:"text"`
	Page       int    `json:"page,omitempty"`
	Link       string `json:"link,omitempty"`
}
