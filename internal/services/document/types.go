// File: internal/services/document/types.go
package document

import "context"

// PageText is the extracted text of one page. PageNo is 1-indexed; pages
// without extractable text are skipped entirely, so sequences may have gaps.
type PageText struct {
	Text   string
	PageNo int
}

// PageChunk is a bounded span of cleaned text from exactly one page.
// ChunkInPage is 1-indexed and restarts on every page.
type PageChunk struct {
	Text        string
	PageNo      int
	ChunkInPage int
}

// PageExtractor pulls per-page text out of a source document.
type PageExtractor interface {
	ExtractPages(ctx context.Context, path string) ([]PageText, error)
}

// TokenCounter measures text in the token units chunk sizes are declared in.
type TokenCounter interface {
	Count(text string) int
}

// Logger defines the logging interface used by the ingestion pipeline
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
	Debug(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
}
