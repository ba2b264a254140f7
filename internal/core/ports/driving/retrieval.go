package driving

import (
	"context"

	"github.com/kontext-labs/kontext/internal/core/domain"
)

// RetrievalService provides similarity-ranked retrieval to external actors.
type RetrievalService interface {
	// Retrieve embeds the query, scores it against every stored chunk,
	// and returns the surviving results ranked by similarity descending.
	Retrieve(ctx context.Context, query string, opts domain.RetrievalOptions) ([]domain.SearchResult, error)

	// RetrieveContext runs Retrieve and assembles the ranked results
	// into a single context block for a downstream language model.
	RetrieveContext(ctx context.Context, query string, opts domain.RetrievalOptions) (*domain.RetrievalResponse, error)
}
