package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewDocument_DerivesSize(t *testing.T) {
	doc := NewDocument("notes.txt", "/inbox/notes.txt", "hello world")
	assert.Equal(t, "notes.txt", doc.Name)
	assert.Equal(t, "/inbox/notes.txt", doc.Path)
	assert.Equal(t, 11, doc.Size)
}

func TestChunkName_OneBased(t *testing.T) {
	assert.Equal(t, "notes.txt_chunk_1", ChunkName("notes.txt", 1))
	assert.Equal(t, "notes.txt_chunk_12", ChunkName("notes.txt", 12))
}

func TestChunkPath_DistinctPerChunk(t *testing.T) {
	p1 := ChunkPath("/inbox/notes.txt", 1)
	p2 := ChunkPath("/inbox/notes.txt", 2)
	assert.NotEqual(t, p1, p2)
	assert.Equal(t, "/inbox/notes.txt#chunk-1", p1)

	// Re-indexing derives the same key again, so the row is replaced.
	assert.Equal(t, p1, ChunkPath("/inbox/notes.txt", 1))
}

func TestDefaultRetrievalOptions(t *testing.T) {
	opts := DefaultRetrievalOptions()
	assert.Equal(t, 3, opts.TopK)
	assert.Equal(t, 0.5, opts.Threshold)
}
