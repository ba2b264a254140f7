package cli

import (
	"errors"

	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show index statistics",
	RunE:  runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, _ []string) error {
	if vectorStore == nil {
		return errors.New("vector store not configured")
	}

	count, err := vectorStore.Count(cmd.Context())
	if err != nil {
		return err
	}

	cmd.Printf("Indexed chunks:  %d\n", count)
	if embeddingService != nil {
		cmd.Printf("Embedding model: %s\n", embeddingService.ModelName())
	}
	return nil
}
