// Package cli implements the kontext command line interface.
package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kontext-labs/kontext/internal/config"
	"github.com/kontext-labs/kontext/internal/core/ports/driven"
	"github.com/kontext-labs/kontext/internal/core/ports/driving"
	"github.com/kontext-labs/kontext/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// Services injected by the composition root before Execute runs.
var (
	retrievalService driving.RetrievalService
	ingestService    driving.IngestService
	vectorStore      driven.VectorStore
	embeddingService driven.EmbeddingService
	appConfig        config.Config
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "kontext",
	Short: "Local document indexing and semantic retrieval",
	Long: `Kontext indexes documents into a local vector store and retrieves
the most relevant chunks for a prompt using embedding similarity.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
}

// Services aggregates everything the commands need.
// This provides a single injection point for the composition root.
type Services struct {
	Retrieval driving.RetrievalService
	Ingest    driving.IngestService
	Store     driven.VectorStore
	Embedding driven.EmbeddingService
	Config    config.Config
}

// SetServices injects the service implementations used by commands.
func SetServices(s Services) {
	retrievalService = s.Retrieval
	ingestService = s.Ingest
	vectorStore = s.Store
	embeddingService = s.Embedding
	appConfig = s.Config
}

// Execute runs the root command until completion or SIGINT/SIGTERM.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}
