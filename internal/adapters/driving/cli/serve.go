package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/kontext-labs/kontext/internal/adapters/driving/httpapi"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the retrieval HTTP API",
	Long: `Starts an HTTP server exposing retrieval over POST /retrieve and a
health probe on GET /healthz.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides config)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	if retrievalService == nil {
		return errors.New("retrieval service not configured")
	}

	addr := appConfig.HTTP.Addr
	if serveAddr != "" {
		addr = serveAddr
	}

	server := httpapi.NewServer(retrievalService, vectorStore, embeddingService)
	cmd.Printf("Retrieval API listening on http://%s\n", addr)
	return server.Run(cmd.Context(), addr)
}
