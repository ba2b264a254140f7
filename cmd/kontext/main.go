// Command kontext indexes documents into a local vector store and
// retrieves relevant chunks by embedding similarity.
package main

import (
	"fmt"
	"os"

	"github.com/kontext-labs/kontext/internal/adapters/driven/embedding/ollama"
	"github.com/kontext-labs/kontext/internal/adapters/driven/embedding/openai"
	"github.com/kontext-labs/kontext/internal/adapters/driven/storage/sqlite"
	"github.com/kontext-labs/kontext/internal/adapters/driving/cli"
	"github.com/kontext-labs/kontext/internal/chunker"
	"github.com/kontext-labs/kontext/internal/config"
	"github.com/kontext-labs/kontext/internal/core/ports/driven"
	"github.com/kontext-labs/kontext/internal/core/services"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configPath, err := config.DefaultPath()
	if err != nil {
		return err
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	store, err := sqlite.NewStore(cfg.DataDir)
	if err != nil {
		return fmt.Errorf("opening vector store: %w", err)
	}
	defer store.Close()

	embedder, err := newEmbeddingService(cfg.Embedding)
	if err != nil {
		return err
	}
	defer embedder.Close()

	splitter := chunker.New(chunker.WithMaxChunkSize(cfg.Chunker.MaxChunkSize))

	cli.SetServices(cli.Services{
		Retrieval: services.NewRetrievalService(store, embedder),
		Ingest:    services.NewIngestService(splitter, embedder, store),
		Store:     store,
		Embedding: embedder,
		Config:    cfg,
	})

	return cli.Execute()
}

// newEmbeddingService builds the embedding adapter selected by the
// configuration.
func newEmbeddingService(cfg config.EmbeddingConfig) (driven.EmbeddingService, error) {
	switch cfg.Provider {
	case config.ProviderOpenAI:
		return openai.NewEmbeddingService(openai.Config{
			APIKey:     cfg.APIKey,
			BaseURL:    cfg.BaseURL,
			Model:      cfg.Model,
			Timeout:    cfg.Timeout(),
			Dimensions: cfg.Dimensions,
		})
	case config.ProviderOllama, "":
		return ollama.NewEmbeddingService(ollama.Config{
			BaseURL:    cfg.BaseURL,
			Model:      cfg.Model,
			Timeout:    cfg.Timeout(),
			Dimensions: cfg.Dimensions,
		}), nil
	default:
		return nil, fmt.Errorf("unknown embedding provider %q", cfg.Provider)
	}
}
