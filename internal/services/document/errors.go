// File: internal/services/document/errors.go
package document

import "fmt"

// Stage names every failure point of the ingestion pipeline; the boundary
// reports which stage failed together with the cause.
type Stage string

const (
	StageExtraction  Stage = "EXTRACTION"
	StageChunking    Stage = "CHUNKING"
	StageEmbedding   Stage = "EMBEDDING"
	StageIndexing    Stage = "INDEXING"
	StagePersistence Stage = "PERSISTENCE"
)

type ProcessingError struct {
	Stage   Stage
	Message string
	Cause   error
}

func (e *ProcessingError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("document %s error: %s (caused by: %v)", e.Stage, e.Message, e.Cause)
	}
	return fmt.Sprintf("document %s error: %s", e.Stage, e.Message)
}

func (e *ProcessingError) Unwrap() error {
	return e.Cause
}

func NewExtractionError(msg string, cause error) *ProcessingError {
	return &ProcessingError{Stage: StageExtraction, Message: msg, Cause: cause}
}

func NewChunkingError(msg string, cause error) *ProcessingError {
	return &ProcessingError{Stage: StageChunking, Message: msg, Cause: cause}
}

func NewEmbeddingError(msg string, cause error) *ProcessingError {
	return &ProcessingError{Stage: StageEmbedding, Message: msg, Cause: cause}
}

func NewIndexingError(msg string, cause error) *ProcessingError {
	return &ProcessingError{Stage: StageIndexing, Message: msg, Cause: cause}
}

func NewPersistenceError(msg string, cause error) *ProcessingError {
	return &ProcessingError{Stage: StagePersistence, Message: msg, Cause: cause}
}
