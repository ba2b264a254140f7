// Package httpapi exposes the retrieval engine over HTTP.
//
// The wire field names (prompt, topK, limiarSimilaridade, contexto,
// resultados) match the pre-existing consumer of this API and must
// not be renamed.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/kontext-labs/kontext/internal/core/domain"
	"github.com/kontext-labs/kontext/internal/core/ports/driven"
	"github.com/kontext-labs/kontext/internal/core/ports/driving"
	"github.com/kontext-labs/kontext/internal/logger"
)

// Server serves the retrieval API.
type Server struct {
	retrieval driving.RetrievalService
	store     driven.VectorStore
	embedding driven.EmbeddingService
}

// NewServer creates a new API server.
func NewServer(
	retrieval driving.RetrievalService,
	store driven.VectorStore,
	embedding driven.EmbeddingService,
) *Server {
	return &Server{
		retrieval: retrieval,
		store:     store,
		embedding: embedding,
	}
}

// retrieveRequest is the retrieval request body.
type retrieveRequest struct {
	Prompt    string   `json:"prompt"`
	TopK      *int     `json:"topK,omitempty"`
	Threshold *float64 `json:"limiarSimilaridade,omitempty"`
}

// retrieveResponse is the retrieval response body.
type retrieveResponse struct {
	Context string             `json:"contexto"`
	Results []searchResultJSON `json:"resultados"`
}

// searchResultJSON is the wire form of a search result.
type searchResultJSON struct {
	Name       string    `json:"name"`
	Path       string    `json:"path"`
	Content    string    `json:"content"`
	Similarity float64   `json:"similarity"`
	IndexedAt  time.Time `json:"indexed_at"`
}

// errorResponse is the error envelope.
type errorResponse struct {
	Error string `json:"error"`
}

// Handler returns the HTTP handler for the API.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /retrieve", s.handleRetrieve)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	return mux
}

// Run serves the API on addr until the context is cancelled.
func (s *Server) Run(ctx context.Context, addr string) error {
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown when context is cancelled
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		httpServer.Shutdown(shutdownCtx) //nolint:errcheck
	}()

	logger.Info("Serving retrieval API on %s", addr)
	err := httpServer.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (s *Server) handleRetrieve(w http.ResponseWriter, r *http.Request) {
	var req retrieveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	if req.Prompt == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "prompt is required"})
		return
	}

	opts := domain.DefaultRetrievalOptions()
	if req.TopK != nil {
		opts.TopK = *req.TopK
	}
	if req.Threshold != nil {
		opts.Threshold = *req.Threshold
	}

	resp, err := s.retrieval.RetrieveContext(r.Context(), req.Prompt, opts)
	if err != nil {
		// Retrieval failures must be distinguishable from zero
		// matches, so they never produce a success-shaped body.
		status := http.StatusInternalServerError
		if errors.Is(err, domain.ErrEmbeddingProvider) {
			status = http.StatusBadGateway
		}
		writeJSON(w, status, errorResponse{Error: err.Error()})
		return
	}

	results := make([]searchResultJSON, len(resp.Results))
	for i, result := range resp.Results {
		results[i] = searchResultJSON{
			Name:       result.Chunk.Name,
			Path:       result.Chunk.Path,
			Content:    result.Chunk.Content,
			Similarity: result.Similarity,
			IndexedAt:  result.Chunk.IndexedAt,
		}
	}

	writeJSON(w, http.StatusOK, retrieveResponse{
		Context: resp.Context,
		Results: results,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	count, err := s.store.Count(r.Context())
	if err != nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: fmt.Sprintf("store: %v", err)})
		return
	}

	if err := s.embedding.Ping(r.Context()); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: fmt.Sprintf("embedding: %v", err)})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"chunks": count,
		"model":  s.embedding.ModelName(),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
