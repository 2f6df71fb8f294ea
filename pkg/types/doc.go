// Package types provides shared type definitions for the docqa retrieval
// pipeline.
//
// The package defines the domain vocabulary used across components:
//
//   - Document: an uploaded file reduced to immutable plain text
//   - Chunk: a bounded substring of one document, the unit of embedding
//   - VectorRecord: a chunk embedding paired with its source-document tag
//   - Match: a nearest-neighbor result (tag, squared L2 distance)
//
// It also carries the shared error taxonomy. Errors are package-level
// sentinels wrapped with fmt.Errorf("%w: ...") at the point of failure, so
// callers can classify failures with errors.Is without string matching:
//
//	if errors.Is(err, types.ErrEmptyCorpus) {
//	    // nothing was indexed; report to the operator
//	}
//
// LoadError is the one structured error: it names the file that failed to
// decode so ingestion can report per-file failures while continuing with the
// rest of the batch.
package types
