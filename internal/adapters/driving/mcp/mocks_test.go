package mcp

import (
	"context"

	"github.com/kontext-labs/kontext/internal/core/domain"
)

// mockRetrievalService is a mock implementation of driving.RetrievalService.
type mockRetrievalService struct {
	resp     domain.RetrievalResponse
	err      error
	lastOpts domain.RetrievalOptions
}

func (m *mockRetrievalService) Retrieve(
	_ context.Context,
	_ string,
	opts domain.RetrievalOptions,
) ([]domain.SearchResult, error) {
	m.lastOpts = opts
	return m.resp.Results, m.err
}

func (m *mockRetrievalService) RetrieveContext(
	_ context.Context,
	_ string,
	opts domain.RetrievalOptions,
) (*domain.RetrievalResponse, error) {
	m.lastOpts = opts
	if m.err != nil {
		return nil, m.err
	}
	return &m.resp, nil
}

// mockIngestService is a mock implementation of driving.IngestService.
type mockIngestService struct {
	indexed int
	err     error
	lastDoc domain.Document
}

func (m *mockIngestService) IngestDocument(_ context.Context, doc domain.Document) (int, error) {
	m.lastDoc = doc
	return m.indexed, m.err
}

func (m *mockIngestService) IngestFile(_ context.Context, _ string) (int, error) {
	return m.indexed, m.err
}

// mockVectorStore is a mock implementation of driven.VectorStore.
type mockVectorStore struct {
	count int
	err   error
}

func (m *mockVectorStore) Upsert(_ context.Context, _ domain.Chunk) error       { return m.err }
func (m *mockVectorStore) BulkUpsert(_ context.Context, _ []domain.Chunk) error { return m.err }
func (m *mockVectorStore) FetchAll(_ context.Context) ([]domain.Chunk, error)   { return nil, m.err }
func (m *mockVectorStore) Count(_ context.Context) (int, error)                 { return m.count, m.err }
func (m *mockVectorStore) Clear(_ context.Context) error                        { return m.err }
func (m *mockVectorStore) Close() error                                         { return m.err }
