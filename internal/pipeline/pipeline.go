// Package pipeline orchestrates the retrieval flow: chunk documents, embed
// chunks, build the vector index, and answer queries against it.
package pipeline

import (
	"context"
	"fmt"
	"log"

	"golang.org/x/sync/errgroup"

	"github.com/docqa/docqa-mcp/internal/assembler"
	"github.com/docqa/docqa-mcp/internal/chunker"
	"github.com/docqa/docqa-mcp/internal/embedder"
	"github.com/docqa/docqa-mcp/internal/index"
	"github.com/docqa/docqa-mcp/pkg/types"
)

const (
	// DefaultTopK is the number of nearest chunks retrieved per query.
	DefaultTopK = 5

	// DefaultWorkers bounds concurrent embedding batches.
	DefaultWorkers = 4
)

// Pipeline owns the stages between raw documents and answer context.
type Pipeline struct {
	embedder  embedder.Embedder
	assembler *assembler.Assembler
	workers   int
}

// New creates a pipeline. workers <= 0 selects DefaultWorkers.
func New(emb embedder.Embedder, asm *assembler.Assembler, workers int) *Pipeline {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	return &Pipeline{
		embedder:  emb,
		assembler: asm,
		workers:   workers,
	}
}

// IngestResult is the output of one full ingestion pass.
type IngestResult struct {
	// Index is the searchable flat index over every embedded chunk.
	Index *index.Flat

	// Records pairs each vector with its chunk text, aligned with Chunks.
	Records []types.VectorRecord

	// Chunks carries provenance for every indexed vector.
	Chunks []types.Chunk

	// Skipped names documents that produced no chunks.
	Skipped []string
}

// Ingest chunks and embeds every document and builds a fresh index.
// Documents that yield no chunks are skipped with a log line; if nothing
// survives chunking the corpus is empty and ingestion fails.
func (p *Pipeline) Ingest(ctx context.Context, docs []types.Document, chunkSize, chunkOverlap int) (*IngestResult, error) {
	splitter, err := chunker.New(chunkSize, chunkOverlap)
	if err != nil {
		return nil, err
	}

	var chunks []types.Chunk
	var skipped []string
	for _, doc := range docs {
		if err := doc.Validate(); err != nil {
			return nil, err
		}
		docChunks := splitter.ChunkDocument(doc)
		if len(docChunks) == 0 {
			log.Printf("skipping document with no content: %s", doc.Name)
			skipped = append(skipped, doc.Name)
			continue
		}
		chunks = append(chunks, docChunks...)
	}

	if len(chunks) == 0 {
		return nil, fmt.Errorf("%w: no chunks produced from %d documents", types.ErrEmptyCorpus, len(docs))
	}

	vectors, err := p.embedAll(ctx, chunks)
	if err != nil {
		return nil, err
	}

	records := make([]types.VectorRecord, len(chunks))
	for i, chunk := range chunks {
		records[i] = types.VectorRecord{
			Vector: vectors[i],
			Tag:    chunk.Source,
		}
	}

	idx, err := index.Build(records)
	if err != nil {
		return nil, err
	}

	return &IngestResult{
		Index:   idx,
		Records: records,
		Chunks:  chunks,
		Skipped: skipped,
	}, nil
}

// embedAll embeds every chunk in provider-sized batches, preserving order.
func (p *Pipeline) embedAll(ctx context.Context, chunks []types.Chunk) ([][]float32, error) {
	vectors := make([][]float32, len(chunks))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)

	for start := 0; start < len(chunks); start += embedder.MaxBatchSize {
		end := start + embedder.MaxBatchSize
		if end > len(chunks) {
			end = len(chunks)
		}
		start, end := start, end

		g.Go(func() error {
			texts := make([]string, end-start)
			for i := start; i < end; i++ {
				texts[i-start] = chunks[i].Content
			}
			batch, err := p.embedder.EmbedBatch(gctx, texts)
			if err != nil {
				return err
			}
			copy(vectors[start:end], batch)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return vectors, nil
}

// Query embeds the question and returns the topK nearest chunks, closest
// first. topK <= 0 selects DefaultTopK.
func (p *Pipeline) Query(ctx context.Context, idx *index.Flat, question string, topK int) ([]types.Match, error) {
	if idx == nil {
		return nil, types.ErrNotIndexed
	}
	if topK <= 0 {
		topK = DefaultTopK
	}

	queryVec, err := p.embedder.EmbedOne(ctx, question)
	if err != nil {
		return nil, err
	}

	return idx.Search(queryVec, topK)
}

// AnswerContext assembles the prompt context for an answer: the full
// document text leads, followed by the retrieved texts in relevance order,
// trimmed to the token budget.
func (p *Pipeline) AnswerContext(docText string, retrieved []string, maxTokens int, model string) (string, error) {
	fragments := make([]string, 0, len(retrieved)+1)
	fragments = append(fragments, docText)
	fragments = append(fragments, retrieved...)
	return p.assembler.Assemble(fragments, maxTokens, model)
}
