// Package sqlite provides the SQLite-backed vector store adapter.
//
// Each chunk is one row keyed on its path; embeddings are stored as
// JSON-encoded arrays of floats and indexed_at as RFC 3339 text, so
// the rows stay readable with any sqlite client. The database opens
// in WAL mode to support concurrent readers during batch writes.
package sqlite
