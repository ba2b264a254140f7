package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/kontext-labs/kontext/internal/watcher"
)

var watchInbox string

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch a folder and index documents dropped into it",
	Long: `Watches the inbox directory and indexes every file dropped into it.
Successfully indexed files move to the processed subdirectory,
failures move to the failed subdirectory.

The inbox comes from the configuration unless --inbox is given.`,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().StringVar(&watchInbox, "inbox", "", "inbox directory to watch (overrides config)")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, _ []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	cfg := appConfig.Watch
	if watchInbox != "" {
		cfg.InboxDir = watchInbox
		cfg.ProcessedDir = ""
		cfg.FailedDir = ""
	}

	w, err := watcher.New(cfg, ingestService)
	if err != nil {
		return err
	}

	cmd.Printf("Watching %s (Ctrl+C to stop)\n", cfg.InboxDir)
	err = w.Run(cmd.Context())
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
