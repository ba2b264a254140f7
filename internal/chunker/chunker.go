// Package chunker provides bounded-size, line-boundary-respecting
// text chunking.
package chunker

import "strings"

// DefaultMaxChunkSize is the default number of characters per chunk.
const DefaultMaxChunkSize = 2000

// Chunker splits document content into bounded-size segments,
// preferring to cut on line boundaries.
type Chunker struct {
	maxChunkSize int
}

// Option configures the chunker.
type Option func(*Chunker)

// WithMaxChunkSize sets the maximum chunk size in characters.
func WithMaxChunkSize(size int) Option {
	return func(c *Chunker) {
		if size > 0 {
			c.maxChunkSize = size
		}
	}
}

// New creates a new chunker with the given options.
func New(opts ...Option) *Chunker {
	c := &Chunker{
		maxChunkSize: DefaultMaxChunkSize,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// MaxChunkSize returns the configured maximum chunk size.
func (c *Chunker) MaxChunkSize() int {
	return c.maxChunkSize
}

// Split cuts content into non-overlapping segments covering the full
// input, in original order. At each candidate boundary maxChunkSize
// characters from the cursor, the cut moves back to the last newline
// between the cursor and the boundary when one exists, so lines stay
// intact where possible. Segments are trimmed of surrounding
// whitespace. Empty input yields no chunks.
func (c *Chunker) Split(content string) []string {
	if content == "" {
		return nil
	}

	if len(content) <= c.maxChunkSize {
		if trimmed := strings.TrimSpace(content); trimmed != "" {
			return []string{trimmed}
		}
		return nil
	}

	chunks := make([]string, 0, len(content)/c.maxChunkSize+1)

	cursor := 0
	for cursor < len(content) {
		end := cursor + c.maxChunkSize
		if end >= len(content) {
			if tail := strings.TrimSpace(content[cursor:]); tail != "" {
				chunks = append(chunks, tail)
			}
			break
		}

		// Prefer the last newline before the boundary. The newline
		// must lie strictly after the cursor, otherwise a single
		// unbroken line forces a hard cut.
		cut := end
		if nl := strings.LastIndexByte(content[cursor:end], '\n'); nl > 0 {
			cut = cursor + nl
		}

		// Whitespace-only segments (blank-line runs) carry nothing
		// worth embedding.
		if seg := strings.TrimSpace(content[cursor:cut]); seg != "" {
			chunks = append(chunks, seg)
		}

		cursor = cut
		// Skip the newline we cut on so it is not re-emitted.
		if content[cursor] == '\n' {
			cursor++
		}
	}

	return chunks
}
