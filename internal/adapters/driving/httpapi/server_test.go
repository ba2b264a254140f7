package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kontext-labs/kontext/internal/core/domain"
)

// stubRetrieval returns canned retrieval responses and records the
// options it was called with.
type stubRetrieval struct {
	resp     domain.RetrievalResponse
	err      error
	lastOpts domain.RetrievalOptions
}

func (s *stubRetrieval) Retrieve(_ context.Context, _ string, opts domain.RetrievalOptions) ([]domain.SearchResult, error) {
	s.lastOpts = opts
	return s.resp.Results, s.err
}

func (s *stubRetrieval) RetrieveContext(_ context.Context, _ string, opts domain.RetrievalOptions) (*domain.RetrievalResponse, error) {
	s.lastOpts = opts
	if s.err != nil {
		return nil, s.err
	}
	return &s.resp, nil
}

type stubStore struct {
	count    int
	countErr error
}

func (s *stubStore) Upsert(context.Context, domain.Chunk) error       { return nil }
func (s *stubStore) BulkUpsert(context.Context, []domain.Chunk) error { return nil }
func (s *stubStore) FetchAll(context.Context) ([]domain.Chunk, error) { return nil, nil }
func (s *stubStore) Count(context.Context) (int, error)               { return s.count, s.countErr }
func (s *stubStore) Clear(context.Context) error                      { return nil }
func (s *stubStore) Close() error                                     { return nil }

type stubEmbedding struct {
	pingErr error
}

func (s *stubEmbedding) Embed(context.Context, string) ([]float64, error) { return nil, nil }
func (s *stubEmbedding) EmbedBatch(context.Context, []string) ([][]float64, error) {
	return nil, nil
}
func (s *stubEmbedding) Dimensions() int            { return 3 }
func (s *stubEmbedding) ModelName() string          { return "test-model" }
func (s *stubEmbedding) Ping(context.Context) error { return s.pingErr }
func (s *stubEmbedding) Close() error               { return nil }

func postRetrieve(t *testing.T, handler http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/retrieve", bytes.NewBufferString(body))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestRetrieve_Success(t *testing.T) {
	retrieval := &stubRetrieval{
		resp: domain.RetrievalResponse{
			Context: "[1] notes (similarity: 0.90)\nchunk body",
			Results: []domain.SearchResult{
				{
					Chunk: domain.Chunk{
						Name:      "notes_chunk_1",
						Path:      "/docs/notes.md#chunk-1",
						Content:   "chunk body",
						IndexedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
					},
					Similarity: 0.9,
				},
			},
		},
	}
	server := NewServer(retrieval, &stubStore{}, &stubEmbedding{})

	rec := postRetrieve(t, server.Handler(), `{"prompt": "what are the notes about?"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var resp retrieveResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, retrieval.resp.Context, resp.Context)
	require.Len(t, resp.Results, 1)
	assert.Equal(t, "notes_chunk_1", resp.Results[0].Name)
	assert.Equal(t, "/docs/notes.md#chunk-1", resp.Results[0].Path)
	assert.InDelta(t, 0.9, resp.Results[0].Similarity, 1e-9)

	// No explicit options in the request means the defaults.
	assert.Equal(t, domain.DefaultRetrievalOptions(), retrieval.lastOpts)
}

func TestRetrieve_ExplicitOptions(t *testing.T) {
	retrieval := &stubRetrieval{}
	server := NewServer(retrieval, &stubStore{}, &stubEmbedding{})

	rec := postRetrieve(t, server.Handler(), `{"prompt": "q", "topK": 7, "limiarSimilaridade": 0.25}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 7, retrieval.lastOpts.TopK)
	assert.InDelta(t, 0.25, retrieval.lastOpts.Threshold, 1e-9)
}

func TestRetrieve_EmptyPrompt(t *testing.T) {
	server := NewServer(&stubRetrieval{}, &stubStore{}, &stubEmbedding{})

	rec := postRetrieve(t, server.Handler(), `{"prompt": ""}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp errorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Contains(t, resp.Error, "prompt")
}

func TestRetrieve_MalformedBody(t *testing.T) {
	server := NewServer(&stubRetrieval{}, &stubStore{}, &stubEmbedding{})

	rec := postRetrieve(t, server.Handler(), `{not json`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRetrieve_ProviderFailureIsBadGateway(t *testing.T) {
	retrieval := &stubRetrieval{
		err: domain.ErrEmbeddingProvider,
	}
	server := NewServer(retrieval, &stubStore{}, &stubEmbedding{})

	rec := postRetrieve(t, server.Handler(), `{"prompt": "q"}`)
	require.Equal(t, http.StatusBadGateway, rec.Code)

	var resp errorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.NotEmpty(t, resp.Error)
}

func TestRetrieve_StoreFailureIsInternalError(t *testing.T) {
	retrieval := &stubRetrieval{
		err: domain.ErrPersistence,
	}
	server := NewServer(retrieval, &stubStore{}, &stubEmbedding{})

	rec := postRetrieve(t, server.Handler(), `{"prompt": "q"}`)
	require.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestRetrieve_NoMatchesIsStillSuccess(t *testing.T) {
	retrieval := &stubRetrieval{
		resp: domain.RetrievalResponse{
			Context: "No relevant documents were found for this query.",
			Results: []domain.SearchResult{},
		},
	}
	server := NewServer(retrieval, &stubStore{}, &stubEmbedding{})

	rec := postRetrieve(t, server.Handler(), `{"prompt": "unrelated"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp retrieveResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Empty(t, resp.Results)
	assert.NotEmpty(t, resp.Context)
}

func TestHealthz_OK(t *testing.T) {
	server := NewServer(&stubRetrieval{}, &stubStore{count: 42}, &stubEmbedding{})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "ok", resp["status"])
	assert.EqualValues(t, 42, resp["chunks"])
	assert.Equal(t, "test-model", resp["model"])
}

func TestHealthz_ProviderDown(t *testing.T) {
	server := NewServer(&stubRetrieval{}, &stubStore{}, &stubEmbedding{pingErr: domain.ErrEmbeddingProvider})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
