package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var indexCmd = &cobra.Command{
	Use:   "index [file...]",
	Short: "Chunk, embed and index documents",
	Long: `Reads each file, splits it into chunks, embeds every chunk and
stores the vectors in the local index. Re-indexing a file replaces
its previous chunks.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIndex,
}

func init() {
	rootCmd.AddCommand(indexCmd)
}

func runIndex(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	total := 0
	for _, path := range args {
		indexed, err := ingestService.IngestFile(cmd.Context(), path)
		if err != nil {
			return fmt.Errorf("indexing %s: %w", path, err)
		}
		cmd.Printf("  %s: %d chunks\n", path, indexed)
		total += indexed
	}

	cmd.Printf("Indexed %d chunks from %d files.\n", total, len(args))
	return nil
}
