package driving

import (
	"context"

	"github.com/kontext-labs/kontext/internal/core/domain"
)

// IngestService turns raw documents into persisted, embedded chunks.
type IngestService interface {
	// IngestDocument chunks the document, embeds every chunk and
	// persists them in one atomic batch. Returns the chunk count.
	IngestDocument(ctx context.Context, doc domain.Document) (int, error)

	// IngestFile reads the file at path and ingests it.
	IngestFile(ctx context.Context, path string) (int, error)
}
