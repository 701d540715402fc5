// File: internal/services/document/chunker.go
package document

import "strings"

// DefaultSeparators is the split priority order: paragraph break, line
// break, sentence end, space, and finally individual characters.
var DefaultSeparators = []string{"\n\n", "\n", ". ", " ", ""}

// Chunker splits cleaned page text into token-bounded, overlapping chunks.
// It tries separators in priority order and recurses to the next one when a
// segment still exceeds the size limit. Chunks never cross a page boundary.
type Chunker struct {
	chunkSize    int
	chunkOverlap int
	separators   []string
	counter      TokenCounter
	logger       Logger
}

func NewChunker(chunkSize, chunkOverlap int, counter TokenCounter, logger Logger) *Chunker {
	if chunkSize <= 0 {
		chunkSize = 500
	}
	if chunkOverlap < 0 {
		chunkOverlap = 0
	}
	if chunkOverlap >= chunkSize {
		chunkOverlap = chunkSize / 5
	}
	return &Chunker{
		chunkSize:    chunkSize,
		chunkOverlap: chunkOverlap,
		separators:   DefaultSeparators,
		counter:      counter,
		logger:       logger,
	}
}

// WithSeparators overrides the separator priority order.
func (c *Chunker) WithSeparators(separators []string) *Chunker {
	c.separators = separators
	return c
}

// ChunkPages chunks each page independently. The in-page ordinal is
// 1-indexed and restarts on every page; empty chunks are dropped.
func (c *Chunker) ChunkPages(pages []PageText) []PageChunk {
	var chunks []PageChunk
	for _, page := range pages {
		ordinal := 0
		for _, text := range c.splitText(page.Text, c.separators) {
			trimmed := strings.TrimSpace(text)
			if trimmed == "" {
				continue
			}
			ordinal++
			chunks = append(chunks, PageChunk{
				Text:        trimmed,
				PageNo:      page.PageNo,
				ChunkInPage: ordinal,
			})
		}
	}
	return chunks
}

// splitText recursively splits on the first separator present in the text,
// handing oversized segments to the next separator in the hierarchy.
func (c *Chunker) splitText(text string, separators []string) []string {
	if text == "" {
		return nil
	}

	separator := separators[len(separators)-1]
	var remaining []string
	for i, sep := range separators {
		if sep == "" {
			separator = sep
			remaining = nil
			break
		}
		if strings.Contains(text, sep) {
			separator = sep
			remaining = separators[i+1:]
			break
		}
	}

	var final []string
	var pending []string
	for _, split := range splitOn(text, separator) {
		if c.counter.Count(split) < c.chunkSize {
			pending = append(pending, split)
			continue
		}
		if len(pending) > 0 {
			final = append(final, c.mergeSplits(pending, separator)...)
			pending = nil
		}
		if len(remaining) == 0 {
			// Last resort: emit oversized, nothing left to split on.
			final = append(final, split)
		} else {
			final = append(final, c.splitText(split, remaining)...)
		}
	}
	if len(pending) > 0 {
		final = append(final, c.mergeSplits(pending, separator)...)
	}
	return final
}

func splitOn(text, separator string) []string {
	if separator == "" {
		runes := make([]string, 0, len(text))
		for _, r := range text {
			runes = append(runes, string(r))
		}
		return runes
	}
	return strings.Split(text, separator)
}

// mergeSplits greedily packs splits into chunks up to chunkSize tokens.
// When a chunk closes, trailing splits totalling at most chunkOverlap
// tokens carry over into the next chunk.
func (c *Chunker) mergeSplits(splits []string, separator string) []string {
	sepTokens := c.counter.Count(separator)

	var chunks []string
	var current []string
	total := 0

	for _, split := range splits {
		splitTokens := c.counter.Count(split)

		joinCost := 0
		if len(current) > 0 {
			joinCost = sepTokens
		}
		if total+splitTokens+joinCost > c.chunkSize && len(current) > 0 {
			if chunk := strings.TrimSpace(strings.Join(current, separator)); chunk != "" {
				chunks = append(chunks, chunk)
			}
			for total > c.chunkOverlap ||
				(total+splitTokens+sepTokens > c.chunkSize && total > 0) {
				dropCost := 0
				if len(current) > 1 {
					dropCost = sepTokens
				}
				total -= c.counter.Count(current[0]) + dropCost
				current = current[1:]
			}
		}

		if len(current) > 0 {
			total += sepTokens
		}
		current = append(current, split)
		total += splitTokens
	}

	if chunk := strings.TrimSpace(strings.Join(current, separator)); chunk != "" {
		chunks = append(chunks, chunk)
	}
	return chunks
}
