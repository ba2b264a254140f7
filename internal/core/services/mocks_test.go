package services

import (
	"context"
	"time"

	"github.com/kontext-labs/kontext/internal/core/domain"
)

// stubEmbedder returns canned vectors and records calls.
type stubEmbedder struct {
	vector     []float64
	vectors    map[string][]float64
	err        error
	embedCalls int
}

func (s *stubEmbedder) Embed(_ context.Context, text string) ([]float64, error) {
	s.embedCalls++
	if s.err != nil {
		return nil, s.err
	}
	if v, ok := s.vectors[text]; ok {
		return v, nil
	}
	return s.vector, nil
}

func (s *stubEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float64, error) {
	out := make([][]float64, len(texts))
	for i, text := range texts {
		v, err := s.Embed(ctx, text)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (s *stubEmbedder) Dimensions() int            { return len(s.vector) }
func (s *stubEmbedder) ModelName() string          { return "stub" }
func (s *stubEmbedder) Ping(context.Context) error { return nil }
func (s *stubEmbedder) Close() error               { return nil }

// memStore is an in-memory VectorStore keyed on chunk path.
type memStore struct {
	chunks   []domain.Chunk
	fetchErr error
	bulkErr  error
	nextID   int64
}

func (m *memStore) Upsert(_ context.Context, chunk domain.Chunk) error {
	for i := range m.chunks {
		if m.chunks[i].Path == chunk.Path {
			chunk.ID = m.chunks[i].ID
			chunk.IndexedAt = time.Now().UTC()
			m.chunks[i] = chunk
			return nil
		}
	}
	m.nextID++
	chunk.ID = m.nextID
	chunk.IndexedAt = time.Now().UTC()
	m.chunks = append(m.chunks, chunk)
	return nil
}

func (m *memStore) BulkUpsert(ctx context.Context, chunks []domain.Chunk) error {
	if m.bulkErr != nil {
		return m.bulkErr
	}
	for _, chunk := range chunks {
		if err := m.Upsert(ctx, chunk); err != nil {
			return err
		}
	}
	return nil
}

func (m *memStore) FetchAll(context.Context) ([]domain.Chunk, error) {
	if m.fetchErr != nil {
		return nil, m.fetchErr
	}
	out := make([]domain.Chunk, len(m.chunks))
	copy(out, m.chunks)
	return out, nil
}

func (m *memStore) Count(context.Context) (int, error) { return len(m.chunks), nil }

func (m *memStore) Clear(context.Context) error {
	m.chunks = nil
	return nil
}

func (m *memStore) Close() error { return nil }
