package driven

import (
	"context"

	"github.com/kontext-labs/kontext/internal/core/domain"
)

// VectorStore persists chunks with their embeddings.
// Backed by SQLite.
//
// Records are keyed on Chunk.Path: writing a chunk whose path already
// exists replaces the prior record. All operations on a closed store
// fail with domain.ErrClosedStore.
type VectorStore interface {
	// Upsert inserts a chunk or replaces the record sharing its path.
	// IndexedAt is assigned at call time.
	Upsert(ctx context.Context, chunk domain.Chunk) error

	// BulkUpsert applies all upserts as one atomic unit. Either every
	// chunk becomes visible to subsequent reads or none does; readers
	// never observe a partially committed batch.
	BulkUpsert(ctx context.Context, chunks []domain.Chunk) error

	// FetchAll returns every stored chunk with its embedding decoded.
	// Callers must not rely on ordering. A record whose embedding
	// cannot be decoded fails the whole call with domain.ErrCorruptRecord.
	FetchAll(ctx context.Context) ([]domain.Chunk, error)

	// Count returns the number of stored chunks.
	Count(ctx context.Context) (int, error)

	// Clear deletes all stored chunks. Irreversible.
	Clear(ctx context.Context) error

	// Close releases the underlying handle. Call exactly once.
	Close() error
}
