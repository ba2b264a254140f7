package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/kontext-labs/kontext/internal/core/domain"
	"github.com/kontext-labs/kontext/internal/core/ports/driven"
	"github.com/kontext-labs/kontext/internal/core/ports/driving"
	"github.com/kontext-labs/kontext/internal/logger"
)

// Ensure RetrievalService implements the interface.
var _ driving.RetrievalService = (*RetrievalService)(nil)

// RetrievalService ranks stored chunks by similarity to a query.
// It holds a single long-lived store handle; lifecycle (open once,
// close at shutdown) belongs to the caller that constructed the store.
type RetrievalService struct {
	store            driven.VectorStore
	embeddingService driven.EmbeddingService
}

// NewRetrievalService creates a new retrieval service.
func NewRetrievalService(store driven.VectorStore, embeddingService driven.EmbeddingService) *RetrievalService {
	return &RetrievalService{
		store:            store,
		embeddingService: embeddingService,
	}
}

// Retrieve embeds the query, scores it against every stored chunk,
// keeps results at or above the threshold, sorts by similarity
// descending and truncates to TopK. Ties keep fetch order (stable
// sort). Any provider or store failure aborts the call wrapped in
// domain.ErrRetrieval; no partial results are returned.
func (s *RetrievalService) Retrieve(
	ctx context.Context, query string, opts domain.RetrievalOptions,
) ([]domain.SearchResult, error) {
	logger.Section("Retrieval")
	logger.Debug("Query: %q", query)
	logger.Debug("TopK: %d, Threshold: %.2f", opts.TopK, opts.Threshold)

	if opts.TopK <= 0 {
		logger.Debug("Non-positive topK, returning no results")
		return []domain.SearchResult{}, nil
	}

	queryEmbedding, err := s.embeddingService.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: embedding query: %w", domain.ErrRetrieval, err)
	}
	logger.Debug("Query embedded: %d dimensions", len(queryEmbedding))

	chunks, err := s.store.FetchAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: fetching chunks: %w", domain.ErrRetrieval, err)
	}
	logger.Debug("Scoring %d stored chunks", len(chunks))

	results := make([]domain.SearchResult, 0, len(chunks))
	for i := range chunks {
		similarity, err := domain.CosineSimilarity(queryEmbedding, chunks[i].Embedding)
		if err != nil {
			return nil, fmt.Errorf("%w: scoring chunk %q: %w", domain.ErrRetrieval, chunks[i].Name, err)
		}

		// Inclusive boundary: a score equal to the threshold is kept.
		if similarity < opts.Threshold {
			continue
		}

		results = append(results, domain.SearchResult{
			Chunk:      chunks[i],
			Similarity: similarity,
		})
	}
	logger.Debug("%d results above threshold", len(results))

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Similarity > results[j].Similarity
	})

	if len(results) > opts.TopK {
		results = results[:opts.TopK]
	}
	logger.Info("Returning %d results", len(results))

	return results, nil
}

// RetrieveContext runs Retrieve and assembles the ranked results into
// a context block for a downstream language model.
func (s *RetrievalService) RetrieveContext(
	ctx context.Context, query string, opts domain.RetrievalOptions,
) (*domain.RetrievalResponse, error) {
	results, err := s.Retrieve(ctx, query, opts)
	if err != nil {
		return nil, err
	}

	return &domain.RetrievalResponse{
		Context: AssembleContext(results),
		Results: results,
	}, nil
}
