package types

import (
	"errors"
	"fmt"
)

// Domain errors shared across the retrieval pipeline. Callers match them
// with errors.Is; packages add detail with fmt.Errorf("%w: ...").
var (
	// ErrChunkConfig reports invalid chunking parameters.
	ErrChunkConfig = errors.New("invalid chunk configuration")

	// ErrEmptyCorpus reports that no chunks survived ingestion, leaving
	// nothing to index.
	ErrEmptyCorpus = errors.New("empty corpus")

	// ErrDimensionMismatch reports inconsistent embedding dimensions
	// within one index build or between an index and a query vector.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")

	// ErrEmbeddingService reports a failure of the external embedding
	// capability (transport, auth, rate limit).
	ErrEmbeddingService = errors.New("embedding service failed")

	// ErrCompletionService reports a failure of the external completion
	// capability.
	ErrCompletionService = errors.New("completion service failed")

	// ErrUnknownModel reports a token estimation request for a model the
	// estimator has no scheme for.
	ErrUnknownModel = errors.New("unknown model")

	// ErrUnknownBackend reports a completion backend name missing from
	// the configured lookup table.
	ErrUnknownBackend = errors.New("unknown completion backend")

	// ErrNotIndexed reports that no corpus version has been published yet.
	ErrNotIndexed = errors.New("corpus not indexed")

	// ErrUnknownDocument reports a query against a document name absent
	// from the current corpus version.
	ErrUnknownDocument = errors.New("unknown document")

	// ErrRebuildInProgress reports that another rebuild already holds the
	// corpus slot.
	ErrRebuildInProgress = errors.New("corpus rebuild already in progress")
)

// LoadError reports a per-file document decoding failure. Ingestion collects
// these and continues with the remaining files.
type LoadError struct {
	Name string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load %s: %v", e.Name, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}
