package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/kontext-labs/kontext/internal/core/domain"
)

var (
	searchTopK      int
	searchThreshold float64
	searchJSON      bool
	searchContext   bool
)

var (
	resultTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("12"))

	resultScoreStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("10"))

	resultPathStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))
)

var searchCmd = &cobra.Command{
	Use:   "search [prompt]",
	Short: "Retrieve relevant document chunks for a prompt",
	Long: `Embeds the prompt and ranks all indexed chunks by cosine similarity.
Chunks below the similarity threshold are discarded and the top-k
survivors are returned, most similar first.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchTopK, "top-k", "k", domain.DefaultTopK, "maximum number of chunks to return")
	searchCmd.Flags().Float64VarP(&searchThreshold, "threshold", "t", domain.DefaultThreshold, "minimum cosine similarity")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	searchCmd.Flags().BoolVar(&searchContext, "context", false, "print the assembled context block instead of a result list")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	prompt := args[0]

	if retrievalService == nil {
		return errors.New("retrieval service not configured")
	}

	opts := domain.RetrievalOptions{
		TopK:      searchTopK,
		Threshold: searchThreshold,
	}

	if searchContext {
		resp, err := retrievalService.RetrieveContext(cmd.Context(), prompt, opts)
		if err != nil {
			return fmt.Errorf("retrieval failed: %w", err)
		}
		cmd.Println(resp.Context)
		return nil
	}

	results, err := retrievalService.Retrieve(cmd.Context(), prompt, opts)
	if err != nil {
		return fmt.Errorf("retrieval failed: %w", err)
	}

	if searchJSON {
		return outputSearchJSON(cmd, results)
	}

	return outputSearchTable(cmd, results)
}

func outputSearchJSON(cmd *cobra.Command, results []domain.SearchResult) error {
	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputSearchTable(cmd *cobra.Command, results []domain.SearchResult) error {
	if len(results) == 0 {
		cmd.Println("No results found.")
		return nil
	}

	cmd.Println("Results:")
	cmd.Println()
	for i := range results {
		cmd.Printf("  [%d] %s %s\n",
			i+1,
			resultTitleStyle.Render(results[i].Chunk.Name),
			resultScoreStyle.Render(fmt.Sprintf("(%.2f)", results[i].Similarity)),
		)
		cmd.Printf("      %s\n", resultPathStyle.Render(results[i].Chunk.Path))
		cmd.Printf("      %s\n", snippet(results[i].Chunk.Content))
		cmd.Println()
	}

	return nil
}

// snippet shortens chunk content to a single preview line.
func snippet(content string) string {
	const maxLen = 120
	for i, r := range content {
		if r == '\n' || i >= maxLen {
			return content[:i] + "..."
		}
	}
	return content
}
