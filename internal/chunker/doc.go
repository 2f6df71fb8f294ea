// Package chunker divides document text into overlapping chunks for
// embedding and retrieval.
//
// The splitter prefers natural boundaries: it tries paragraph breaks first,
// then line breaks, sentence ends, and whitespace, falling back to raw
// character windows only when a piece has no structural boundary left.
// Adjacent chunks from the same document overlap by a fixed number of
// characters so content spanning a chunk boundary is visible to both sides.
//
// # Basic Usage
//
//	s, err := chunker.New(1000, 200)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	chunks := s.Split(doc.Text)
//
// Splitting is a pure function of the input: the same text and parameters
// always produce the same chunks. Empty or whitespace-only documents produce
// no chunks; the ingestion layer is responsible for skipping and reporting
// them.
package chunker
