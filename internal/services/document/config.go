// File: internal/services/document/config.go
package document

import "fmt"

type Config struct {
	// Chunk sizing, in tokens.
	ChunkSize    int
	ChunkOverlap int

	// PreviewLength caps the descriptor's preview text, in characters.
	PreviewLength int

	// EmbeddingModel is recorded in document metadata so it is obvious
	// which vocabulary a collection was built with.
	EmbeddingModel string
}

func DefaultConfig() *Config {
	return &Config{
		ChunkSize:     500,
		ChunkOverlap:  50,
		PreviewLength: 200,
	}
}

func (c *Config) Validate() error {
	if c.ChunkSize <= 0 {
		return fmt.Errorf("chunk_size must be positive")
	}
	if c.ChunkOverlap < 0 {
		return fmt.Errorf("chunk_overlap cannot be negative")
	}
	if c.ChunkOverlap >= c.ChunkSize {
		return fmt.Errorf("chunk_overlap must be smaller than chunk_size")
	}
	if c.PreviewLength <= 0 {
		return fmt.Errorf("preview_length must be positive")
	}
	return nil
}
