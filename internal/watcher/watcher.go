// Package watcher ingests documents dropped into a watched inbox
// directory. Successfully indexed files move to the processed
// directory, failures move to the failed directory, so the inbox
// only ever holds work in flight.
package watcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"

	"github.com/kontext-labs/kontext/internal/config"
	"github.com/kontext-labs/kontext/internal/core/ports/driving"
	"github.com/kontext-labs/kontext/internal/logger"
)

// debounceDelay is how long a file must stay quiet after its last
// write event before ingestion starts. Editors and copies emit
// several writes per file.
const debounceDelay = 500 * time.Millisecond

// Watcher runs the watch-folder ingestion loop.
type Watcher struct {
	inboxDir     string
	processedDir string
	failedDir    string
	ingest       driving.IngestService

	mu     sync.Mutex
	timers map[string]*time.Timer
}

// New creates a watcher for the configured directories. ProcessedDir
// and FailedDir default to subdirectories of the inbox.
func New(cfg config.WatchConfig, ingest driving.IngestService) (*Watcher, error) {
	if cfg.InboxDir == "" {
		return nil, fmt.Errorf("watch: inbox directory is required")
	}

	w := &Watcher{
		inboxDir:     cfg.InboxDir,
		processedDir: cfg.ProcessedDir,
		failedDir:    cfg.FailedDir,
		ingest:       ingest,
		timers:       make(map[string]*time.Timer),
	}
	if w.processedDir == "" {
		w.processedDir = filepath.Join(cfg.InboxDir, "processed")
	}
	if w.failedDir == "" {
		w.failedDir = filepath.Join(cfg.InboxDir, "failed")
	}

	for _, dir := range []string{w.inboxDir, w.processedDir, w.failedDir} {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return nil, fmt.Errorf("creating %s: %w", dir, err)
		}
	}

	return w, nil
}

// Run watches the inbox until the context is cancelled. Files already
// present at startup are processed first.
func (w *Watcher) Run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer fsw.Close()

	if err := fsw.Add(w.inboxDir); err != nil {
		return fmt.Errorf("watching %s: %w", w.inboxDir, err)
	}

	logger.Info("Watching %s", w.inboxDir)

	if err := w.processExisting(ctx); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			if !w.isIngestible(event.Name) {
				continue
			}
			w.schedule(ctx, event.Name)

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Watcher error: %v", err)
		}
	}
}

// processExisting ingests files already sitting in the inbox.
func (w *Watcher) processExisting(ctx context.Context) error {
	entries, err := os.ReadDir(w.inboxDir)
	if err != nil {
		return fmt.Errorf("reading inbox: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		path := filepath.Join(w.inboxDir, entry.Name())
		if w.isIngestible(path) {
			w.process(ctx, path)
		}
	}
	return nil
}

// schedule (re)starts the debounce timer for a path.
func (w *Watcher) schedule(ctx context.Context, path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if timer, ok := w.timers[path]; ok {
		timer.Stop()
	}
	w.timers[path] = time.AfterFunc(debounceDelay, func() {
		w.mu.Lock()
		delete(w.timers, path)
		w.mu.Unlock()

		w.process(ctx, path)
	})
}

// process ingests one file and relocates it by outcome.
func (w *Watcher) process(ctx context.Context, path string) {
	if _, err := os.Stat(path); err != nil {
		return // Moved or deleted before we got to it
	}

	runID := uuid.New().String()[:8]
	logger.Debug("[%s] Processing %s", runID, path)

	if _, err := w.ingest.IngestFile(ctx, path); err != nil {
		logger.Warn("[%s] Ingestion failed for %s: %v", runID, path, err)
		w.relocate(path, w.failedDir)
		return
	}

	logger.Info("[%s] Ingested %s", runID, path)
	w.relocate(path, w.processedDir)
}

// relocate moves a file into dir, disambiguating name collisions.
func (w *Watcher) relocate(path, dir string) {
	target := filepath.Join(dir, filepath.Base(path))
	if _, err := os.Stat(target); err == nil {
		ext := filepath.Ext(target)
		base := strings.TrimSuffix(filepath.Base(path), ext)
		target = filepath.Join(dir, fmt.Sprintf("%s-%s%s", base, uuid.New().String()[:8], ext))
	}

	if err := os.Rename(path, target); err != nil {
		logger.Warn("Could not move %s to %s: %v", path, target, err)
	}
}

// isIngestible filters out directories, hidden files and anything
// inside the processed/failed subdirectories.
func (w *Watcher) isIngestible(path string) bool {
	base := filepath.Base(path)
	if strings.HasPrefix(base, ".") {
		return false
	}

	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return false
	}

	dir := filepath.Dir(path)
	return dir != w.processedDir && dir != w.failedDir
}
