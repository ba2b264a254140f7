package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/kontext-labs/kontext/internal/chunker"
	"github.com/kontext-labs/kontext/internal/core/domain"
	"github.com/kontext-labs/kontext/internal/core/ports/driven"
	"github.com/kontext-labs/kontext/internal/core/ports/driving"
	"github.com/kontext-labs/kontext/internal/logger"
)

// Ensure IngestService implements the interface.
var _ driving.IngestService = (*IngestService)(nil)

// IngestService turns raw documents into persisted, embedded chunks:
// split, embed each chunk, write all of them in one atomic batch.
type IngestService struct {
	chunker          *chunker.Chunker
	embeddingService driven.EmbeddingService
	store            driven.VectorStore
}

// NewIngestService creates a new ingestion service.
func NewIngestService(
	ch *chunker.Chunker,
	embeddingService driven.EmbeddingService,
	store driven.VectorStore,
) *IngestService {
	return &IngestService{
		chunker:          ch,
		embeddingService: embeddingService,
		store:            store,
	}
}

// IngestDocument chunks the document, embeds every chunk and persists
// them in a single atomic batch. A provider failure happens before any
// store write, so a failed ingestion leaves the store untouched. Each
// chunk is stored under a path suffixed with its index, so re-indexing
// the same document replaces exactly its own chunks.
func (s *IngestService) IngestDocument(ctx context.Context, doc domain.Document) (int, error) {
	if doc.Path == "" {
		return 0, fmt.Errorf("%w: document path is empty", domain.ErrInvalidInput)
	}

	runID := uuid.New().String()[:8]
	logger.Section("Ingestion")
	logger.Debug("[%s] Document %q (%d bytes)", runID, doc.Path, doc.Size)

	texts := s.chunker.Split(doc.Content)
	if len(texts) == 0 {
		logger.Debug("[%s] No chunks produced, nothing to persist", runID)
		return 0, nil
	}
	logger.Debug("[%s] Split into %d chunks", runID, len(texts))

	embeddings, err := s.embeddingService.EmbedBatch(ctx, texts)
	if err != nil {
		return 0, fmt.Errorf("embedding chunks of %q: %w", doc.Path, err)
	}

	chunks := make([]domain.Chunk, len(texts))
	for i, text := range texts {
		chunks[i] = domain.Chunk{
			Name:      domain.ChunkName(doc.Name, i+1),
			Path:      domain.ChunkPath(doc.Path, i+1),
			Content:   text,
			Embedding: embeddings[i],
		}
	}

	// TODO: delete leftover higher-index chunks when a re-index
	// produces fewer chunks than the previous run.
	if err := s.store.BulkUpsert(ctx, chunks); err != nil {
		return 0, fmt.Errorf("persisting chunks of %q: %w", doc.Path, err)
	}
	logger.Info("[%s] Indexed %d chunks for %q", runID, len(chunks), doc.Path)

	return len(chunks), nil
}

// IngestFile reads the file at path and ingests it as one document.
func (s *IngestService) IngestFile(ctx context.Context, path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("reading %q: %w", path, err)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	doc := domain.NewDocument(name, abs, string(data))

	return s.IngestDocument(ctx, doc)
}
