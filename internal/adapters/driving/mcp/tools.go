package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/kontext-labs/kontext/internal/core/domain"
)

// RetrieveInput is the input schema for the retrieve tool.
type RetrieveInput struct {
	Query     string   `json:"query" jsonschema:"the prompt to retrieve relevant document context for"`
	TopK      int      `json:"top_k,omitempty" jsonschema:"maximum number of chunks to return (default 3)"`
	Threshold *float64 `json:"threshold,omitempty" jsonschema:"minimum cosine similarity between 0 and 1 (default 0.5)"`
}

// RetrieveOutput is the output schema for the retrieve tool.
type RetrieveOutput struct {
	Context string                 `json:"context"`
	Results []RetrieveResultOutput `json:"results"`
	Count   int                    `json:"count"`
}

// RetrieveResultOutput represents a single retrieved chunk.
type RetrieveResultOutput struct {
	Name       string  `json:"name"`
	Path       string  `json:"path"`
	Content    string  `json:"content"`
	Similarity float64 `json:"similarity"`
}

// IngestInput is the input schema for the ingest tool.
type IngestInput struct {
	Name    string `json:"name" jsonschema:"a short identifier for the document"`
	Path    string `json:"path" jsonschema:"the document's canonical path or URI"`
	Content string `json:"content" jsonschema:"the full document text to index"`
}

// IngestOutput is the output schema for the ingest tool.
type IngestOutput struct {
	ChunksIndexed int `json:"chunks_indexed"`
}

// StatsOutput is the output schema for the index_stats tool.
type StatsOutput struct {
	Chunks int `json:"chunks"`
}

// registerTools registers all tool handlers with the MCP server.
// Tools whose ports were not provided are left unregistered.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "retrieve",
		Description: "Retrieve the most relevant indexed document chunks for a prompt",
	}, s.handleRetrieve)

	if s.ports.Ingest != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "ingest",
			Description: "Chunk, embed and index a document",
		}, s.handleIngest)
	}

	if s.ports.Store != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "index_stats",
			Description: "Report how many chunks are currently indexed",
		}, s.handleStats)
	}
}

// handleRetrieve handles the retrieve tool invocation.
func (s *Server) handleRetrieve(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input RetrieveInput,
) (*mcp.CallToolResult, RetrieveOutput, error) {
	opts := domain.DefaultRetrievalOptions()
	if input.TopK > 0 {
		opts.TopK = input.TopK
	}
	if input.Threshold != nil {
		opts.Threshold = *input.Threshold
	}

	resp, err := s.ports.Retrieval.RetrieveContext(ctx, input.Query, opts)
	if err != nil {
		return nil, RetrieveOutput{}, err
	}

	output := RetrieveOutput{
		Context: resp.Context,
		Results: make([]RetrieveResultOutput, len(resp.Results)),
		Count:   len(resp.Results),
	}

	for i := range resp.Results {
		output.Results[i] = RetrieveResultOutput{
			Name:       resp.Results[i].Chunk.Name,
			Path:       resp.Results[i].Chunk.Path,
			Content:    resp.Results[i].Chunk.Content,
			Similarity: resp.Results[i].Similarity,
		}
	}

	return nil, output, nil
}

// handleIngest handles the ingest tool invocation.
func (s *Server) handleIngest(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input IngestInput,
) (*mcp.CallToolResult, IngestOutput, error) {
	doc := domain.NewDocument(input.Name, input.Path, input.Content)
	indexed, err := s.ports.Ingest.IngestDocument(ctx, doc)
	if err != nil {
		return nil, IngestOutput{}, err
	}
	return nil, IngestOutput{ChunksIndexed: indexed}, nil
}

// handleStats handles the index_stats tool invocation.
func (s *Server) handleStats(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ struct{},
) (*mcp.CallToolResult, StatsOutput, error) {
	count, err := s.ports.Store.Count(ctx)
	if err != nil {
		return nil, StatsOutput{}, err
	}
	return nil, StatsOutput{Chunks: count}, nil
}
