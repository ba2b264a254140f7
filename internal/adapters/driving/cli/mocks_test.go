package cli

import (
	"context"
	"errors"
	"time"

	"github.com/kontext-labs/kontext/internal/core/domain"
)

// mockRetrievalService returns a fixed result set.
type mockRetrievalService struct {
	results []domain.SearchResult
	context string
	err     error
}

func (m *mockRetrievalService) Retrieve(
	_ context.Context,
	_ string,
	_ domain.RetrievalOptions,
) ([]domain.SearchResult, error) {
	return m.results, m.err
}

func (m *mockRetrievalService) RetrieveContext(
	_ context.Context,
	_ string,
	_ domain.RetrievalOptions,
) (*domain.RetrievalResponse, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &domain.RetrievalResponse{Context: m.context, Results: m.results}, nil
}

// mockIngestService records ingested paths.
type mockIngestService struct {
	indexed int
	err     error
	paths   []string
}

func (m *mockIngestService) IngestDocument(_ context.Context, _ domain.Document) (int, error) {
	return m.indexed, m.err
}

func (m *mockIngestService) IngestFile(_ context.Context, path string) (int, error) {
	if m.err != nil {
		return 0, m.err
	}
	m.paths = append(m.paths, path)
	return m.indexed, m.err
}

// mockVectorStore reports a fixed chunk count.
type mockVectorStore struct {
	count   int
	cleared bool
	err     error
}

func (m *mockVectorStore) Upsert(_ context.Context, _ domain.Chunk) error       { return m.err }
func (m *mockVectorStore) BulkUpsert(_ context.Context, _ []domain.Chunk) error { return m.err }
func (m *mockVectorStore) FetchAll(_ context.Context) ([]domain.Chunk, error)   { return nil, m.err }
func (m *mockVectorStore) Count(_ context.Context) (int, error)                 { return m.count, m.err }
func (m *mockVectorStore) Close() error                                         { return m.err }

func (m *mockVectorStore) Clear(_ context.Context) error {
	if m.err == nil {
		m.cleared = true
	}
	return m.err
}

// mockEmbeddingService satisfies driven.EmbeddingService for wiring tests.
type mockEmbeddingService struct{}

func (m *mockEmbeddingService) Embed(_ context.Context, _ string) ([]float64, error) {
	return []float64{1, 0}, nil
}

func (m *mockEmbeddingService) EmbedBatch(_ context.Context, texts []string) ([][]float64, error) {
	out := make([][]float64, len(texts))
	for i := range out {
		out[i] = []float64{1, 0}
	}
	return out, nil
}

func (m *mockEmbeddingService) Dimensions() int              { return 2 }
func (m *mockEmbeddingService) ModelName() string            { return "mock-model" }
func (m *mockEmbeddingService) Ping(_ context.Context) error { return nil }
func (m *mockEmbeddingService) Close() error                 { return nil }

// mockRetrievalServiceError always fails.
type mockRetrievalServiceError struct{}

func (m *mockRetrievalServiceError) Retrieve(
	_ context.Context,
	_ string,
	_ domain.RetrievalOptions,
) ([]domain.SearchResult, error) {
	return nil, errors.New("boom")
}

func (m *mockRetrievalServiceError) RetrieveContext(
	_ context.Context,
	_ string,
	_ domain.RetrievalOptions,
) (*domain.RetrievalResponse, error) {
	return nil, errors.New("boom")
}

// setupTestServices injects mocks and returns a cleanup restoring the
// previous services.
func setupTestServices() func() {
	old := Services{
		Retrieval: retrievalService,
		Ingest:    ingestService,
		Store:     vectorStore,
		Embedding: embeddingService,
		Config:    appConfig,
	}

	SetServices(Services{
		Retrieval: &mockRetrievalService{
			context: "[1] notes_chunk_1 (similarity: 0.91)\nchunk body",
			results: []domain.SearchResult{
				{
					Chunk: domain.Chunk{
						Name:      "notes_chunk_1",
						Path:      "/docs/notes.md#chunk-1",
						Content:   "chunk body",
						IndexedAt: time.Now(),
					},
					Similarity: 0.91,
				},
			},
		},
		Ingest:    &mockIngestService{indexed: 2},
		Store:     &mockVectorStore{count: 7},
		Embedding: &mockEmbeddingService{},
	})

	return func() { SetServices(old) }
}
