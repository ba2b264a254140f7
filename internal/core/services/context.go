package services

import (
	"fmt"
	"strings"

	"github.com/kontext-labs/kontext/internal/core/domain"
)

// NoRelevantDocuments is returned by AssembleContext when no result
// survived thresholding. Consumers can match on it to distinguish
// "nothing relevant" from an assembled context.
const NoRelevantDocuments = "No relevant documents were found for this query."

// AssembleContext formats ranked results into a single context block
// for a downstream language model. Results are emitted in input order
// (already ranked by the retrieval engine), each as a labelled block
// with its 1-based position, chunk name, similarity to two decimals
// and full content, separated by blank lines. Pure function.
func AssembleContext(results []domain.SearchResult) string {
	if len(results) == 0 {
		return NoRelevantDocuments
	}

	var b strings.Builder
	for i, result := range results {
		if i > 0 {
			b.WriteString("\n\n")
		}
		fmt.Fprintf(&b, "[%d] %s (similarity: %.2f)\n%s",
			i+1, result.Chunk.Name, result.Similarity, result.Chunk.Content)
	}

	return b.String()
}
