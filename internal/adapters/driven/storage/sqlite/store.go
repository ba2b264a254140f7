package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/kontext-labs/kontext/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/kontext-labs/kontext/internal/core/domain"
	"github.com/kontext-labs/kontext/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.VectorStore = (*Store)(nil)

// Store is the SQLite-backed vector store. One Store owns its
// database handle exclusively; construct it once and Close it once
// at process shutdown.
type Store struct {
	db     *sql.DB
	path   string
	closed atomic.Bool
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.kontext/data/index.db.
// Initialization is idempotent: opening an existing database runs only
// the pending migrations.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".kontext", "data")
	}

	// Ensure directory exists
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "index.db")

	// Open database with WAL mode so readers are never blocked by a
	// batch write in progress.
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	// Run migrations
	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection. Further operations on the
// store fail with domain.ErrClosedStore.
func (s *Store) Close() error {
	if s.closed.Swap(true) {
		return domain.ErrClosedStore
	}
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	// Ensure schema_migrations table exists
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	// Get current version
	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	// Find all up migrations
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_initial.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}

		if version <= currentVersion {
			continue // Already applied
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(
			"INSERT INTO schema_migrations (version) VALUES (?)", version,
		); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// Upsert inserts a chunk or replaces the record sharing its path.
// IndexedAt is assigned here, not by the caller.
func (s *Store) Upsert(ctx context.Context, chunk domain.Chunk) error {
	if s.closed.Load() {
		return domain.ErrClosedStore
	}

	embeddingJSON, err := json.Marshal(chunk.Embedding)
	if err != nil {
		return fmt.Errorf("marshalling embedding: %w", err)
	}

	indexedAt := time.Now().UTC().Format(time.RFC3339)

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO chunks (name, path, content, embedding, indexed_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			name = excluded.name,
			content = excluded.content,
			embedding = excluded.embedding,
			indexed_at = excluded.indexed_at
	`, chunk.Name, chunk.Path, chunk.Content, string(embeddingJSON), indexedAt)

	if err != nil {
		return fmt.Errorf("%w: saving chunk %q: %w", domain.ErrPersistence, chunk.Path, err)
	}
	return nil
}

// BulkUpsert applies all upserts in one transaction. A failure
// partway rolls the whole batch back; readers see either the
// pre-batch or post-batch state, never an interleaving.
func (s *Store) BulkUpsert(ctx context.Context, chunks []domain.Chunk) error {
	if s.closed.Load() {
		return domain.ErrClosedStore
	}
	if len(chunks) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: beginning transaction: %w", domain.ErrPersistence, err)
	}
	defer tx.Rollback() //nolint:errcheck

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO chunks (name, path, content, embedding, indexed_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			name = excluded.name,
			content = excluded.content,
			embedding = excluded.embedding,
			indexed_at = excluded.indexed_at
	`)
	if err != nil {
		return fmt.Errorf("%w: preparing statement: %w", domain.ErrPersistence, err)
	}
	defer stmt.Close()

	indexedAt := time.Now().UTC().Format(time.RFC3339)

	for _, chunk := range chunks {
		embeddingJSON, err := json.Marshal(chunk.Embedding)
		if err != nil {
			return fmt.Errorf("marshalling embedding of %q: %w", chunk.Path, err)
		}

		if _, err := stmt.ExecContext(ctx, chunk.Name, chunk.Path, chunk.Content,
			string(embeddingJSON), indexedAt); err != nil {
			return fmt.Errorf("%w: saving chunk %q: %w", domain.ErrPersistence, chunk.Path, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: committing transaction: %w", domain.ErrPersistence, err)
	}
	return nil
}

// FetchAll returns every stored chunk with its embedding decoded.
// Callers must not rely on row order. The whole call fails on the
// first undecodable embedding: retrieval ranking depends on seeing
// the complete set, so skipping a record would silently distort it.
func (s *Store) FetchAll(ctx context.Context) ([]domain.Chunk, error) {
	if s.closed.Load() {
		return nil, domain.ErrClosedStore
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, path, content, embedding, indexed_at
		FROM chunks
	`)
	if err != nil {
		return nil, fmt.Errorf("%w: querying chunks: %w", domain.ErrPersistence, err)
	}
	defer rows.Close()

	var chunks []domain.Chunk //nolint:prealloc // size unknown from query
	for rows.Next() {
		chunk, err := scanChunk(rows)
		if err != nil {
			return nil, err
		}
		chunks = append(chunks, *chunk)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating chunks: %w", domain.ErrPersistence, err)
	}

	return chunks, nil
}

// Count returns the number of stored chunks.
func (s *Store) Count(ctx context.Context) (int, error) {
	if s.closed.Load() {
		return 0, domain.ErrClosedStore
	}

	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM chunks").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("%w: counting chunks: %w", domain.ErrPersistence, err)
	}
	return count, nil
}

// Clear deletes all stored chunks. Irreversible.
func (s *Store) Clear(ctx context.Context) error {
	if s.closed.Load() {
		return domain.ErrClosedStore
	}

	_, err := s.db.ExecContext(ctx, "DELETE FROM chunks")
	if err != nil {
		return fmt.Errorf("%w: clearing chunks: %w", domain.ErrPersistence, err)
	}
	return nil
}

// scanChunk scans a chunk from *sql.Rows.
func scanChunk(rows *sql.Rows) (*domain.Chunk, error) {
	var chunk domain.Chunk
	var embeddingJSON, indexedAt string

	if err := rows.Scan(&chunk.ID, &chunk.Name, &chunk.Path, &chunk.Content,
		&embeddingJSON, &indexedAt); err != nil {
		return nil, fmt.Errorf("%w: scanning chunk: %w", domain.ErrPersistence, err)
	}

	if err := json.Unmarshal([]byte(embeddingJSON), &chunk.Embedding); err != nil {
		return nil, fmt.Errorf("%w: chunk %q: %w", domain.ErrCorruptRecord, chunk.Path, err)
	}

	if ts, err := time.Parse(time.RFC3339, indexedAt); err == nil {
		chunk.IndexedAt = ts
	}

	return &chunk, nil
}
