package types

import "errors"

// Document is an uploaded file reduced to plain text. The body is immutable
// for the lifetime of one corpus version; a rebuild replaces it wholesale.
type Document struct {
	// Name uniquely identifies the document within the corpus.
	Name string

	// Text is the plain-text body produced by a loader.
	Text string
}

// Validate checks that the document can participate in an ingestion.
func (d *Document) Validate() error {
	if d.Name == "" {
		return errors.New("document name cannot be empty")
	}
	return nil
}

// Chunk is a contiguous substring of exactly one document's text. Chunks are
// the atomic unit of embedding and retrieval.
type Chunk struct {
	// Source is the name of the originating document. Provenance only,
	// never used to mutate the document.
	Source string

	// Ordinal is the 0-based position of the chunk within its document.
	Ordinal int

	// Content is the chunk text. At most the configured chunk size, except
	// possibly the final chunk of a document.
	Content string
}
