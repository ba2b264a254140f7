package mcp

import (
	"github.com/kontext-labs/kontext/internal/core/ports/driven"
	"github.com/kontext-labs/kontext/internal/core/ports/driving"
)

// Ports aggregates all port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Retrieval answers semantic queries over the index.
	Retrieval driving.RetrievalService

	// Store exposes index statistics.
	Store driven.VectorStore

	// Ingest adds documents to the index.
	Ingest driving.IngestService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Retrieval == nil {
		return ErrMissingRetrievalService
	}
	// Store and Ingest are optional; their tools are simply not
	// registered when absent.
	return nil
}
