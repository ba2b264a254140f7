package domain

import (
	"fmt"
	"time"
)

// Document represents a raw input unit during ingestion.
// It exists only until its chunks are persisted.
type Document struct {
	// Name is the human-readable identifier, usually the file name.
	Name string

	// Path is the unique stable locator of the document.
	Path string

	// Content is the full text content before chunking.
	Content string

	// Size is the content length in bytes.
	Size int
}

// NewDocument creates a Document with Size derived from the content.
func NewDocument(name, path, content string) Document {
	return Document{
		Name:    name,
		Path:    path,
		Content: content,
		Size:    len(content),
	}
}

// Chunk represents the atomic retrievable unit within a document.
// Documents are split into chunks for granular retrieval.
type Chunk struct {
	// ID is the storage row identifier, assigned by the store.
	ID int64

	// Name identifies the chunk within its document,
	// derived as "<document-name>_chunk_<index>" (1-based).
	Name string

	// Path is the storage key. Re-indexing the same path replaces
	// the prior record. Ingestion suffixes the document path per
	// chunk so each chunk keeps its own row.
	Path string

	// Content is the text content of this chunk.
	Content string

	// Embedding is the vector representation for semantic retrieval.
	// All stored embeddings must share one dimensionality.
	Embedding []float64

	// IndexedAt is when the chunk was persisted, assigned by the store.
	IndexedAt time.Time
}

// ChunkName derives the canonical chunk name for a document and
// 1-based chunk index.
func ChunkName(docName string, index int) string {
	return fmt.Sprintf("%s_chunk_%d", docName, index)
}

// ChunkPath derives the storage key for a chunk. The fragment suffix
// keeps chunks of one document from overwriting each other while
// still replacing themselves on re-indexing.
func ChunkPath(docPath string, index int) string {
	return fmt.Sprintf("%s#chunk-%d", docPath, index)
}

// SearchResult pairs a stored chunk with its similarity to a query.
type SearchResult struct {
	// Chunk is the matched chunk.
	Chunk Chunk

	// Similarity is the cosine similarity score in [-1, 1].
	Similarity float64
}

// RetrievalResponse carries the assembled context block together with
// the ranked results it was built from.
type RetrievalResponse struct {
	// Context is the formatted context block for the language model.
	Context string

	// Results are the ranked results, similarity descending.
	Results []SearchResult
}

// Default retrieval parameters.
const (
	// DefaultTopK is the default number of results returned.
	DefaultTopK = 3

	// DefaultThreshold is the default minimum similarity score.
	DefaultThreshold = 0.5
)

// RetrievalOptions configures a retrieval query.
type RetrievalOptions struct {
	// TopK is the maximum number of results. Zero or negative
	// yields no results.
	TopK int

	// Threshold is the minimum similarity for a result to be kept.
	// The boundary is inclusive.
	Threshold float64
}

// DefaultRetrievalOptions returns the standard retrieval parameters.
func DefaultRetrievalOptions() RetrievalOptions {
	return RetrievalOptions{
		TopK:      DefaultTopK,
		Threshold: DefaultThreshold,
	}
}
