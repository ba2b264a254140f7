package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrDimensionMismatch indicates two vectors of differing length
	// were compared. Stored embeddings must share one dimensionality.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")

	// ErrPersistence indicates the storage medium is unavailable
	// (locked database, I/O failure). Never swallowed.
	ErrPersistence = errors.New("persistence failure")

	// ErrCorruptRecord indicates a stored embedding could not be
	// decoded. A full scan fails as a whole on the first corrupt
	// record since ranking depends on completeness.
	ErrCorruptRecord = errors.New("corrupt stored record")

	// ErrEmbeddingProvider indicates the remote embedding service
	// returned a non-success response or was unreachable.
	ErrEmbeddingProvider = errors.New("embedding provider failure")

	// ErrRetrieval wraps any failure surfaced during a retrieval
	// call. Retrieval never returns partial results.
	ErrRetrieval = errors.New("retrieval failed")

	// ErrClosedStore indicates use of a vector store after Close.
	ErrClosedStore = errors.New("vector store is closed")
)
