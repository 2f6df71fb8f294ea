// Package service ties the corpus store, retrieval pipeline, and chat
// backend into the operations exposed to callers: ingest, search, and ask.
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/docqa/docqa-mcp/internal/assembler"
	"github.com/docqa/docqa-mcp/internal/chunker"
	"github.com/docqa/docqa-mcp/internal/completion"
	"github.com/docqa/docqa-mcp/internal/corpus"
	"github.com/docqa/docqa-mcp/internal/pipeline"
	"github.com/docqa/docqa-mcp/internal/tokens"
	"github.com/docqa/docqa-mcp/pkg/types"
)

// Config carries the retrieval parameters the service applies to every
// request unless the request overrides them.
type Config struct {
	ChunkSize    int
	ChunkOverlap int
	TopK         int
	MaxTokens    int
	AnswerLength int

	// Model is the chat model answers are generated with. It must have a
	// token estimation scheme.
	Model string
}

// applyDefaults fills unset fields.
func (c *Config) applyDefaults() {
	if c.ChunkSize <= 0 {
		c.ChunkSize = chunker.DefaultChunkSize
	}
	if c.ChunkOverlap <= 0 {
		c.ChunkOverlap = chunker.DefaultChunkOverlap
	}
	if c.TopK <= 0 {
		c.TopK = pipeline.DefaultTopK
	}
	if c.MaxTokens <= 0 {
		c.MaxTokens = assembler.DefaultMaxTokens
	}
	if c.AnswerLength <= 0 {
		c.AnswerLength = completion.DefaultAnswerLength
	}
	if c.Model == "" {
		c.Model = tokens.DefaultModel
	}
}

// Service answers questions about ingested documents.
type Service struct {
	store *corpus.Store
	pipe  *pipeline.Pipeline
	chat  completion.Completion
	cfg   Config
}

// New creates a service. The chat client may be nil for deployments that
// only ingest and search; Ask then fails with types.ErrCompletionService.
func New(store *corpus.Store, pipe *pipeline.Pipeline, chat completion.Completion, cfg Config) (*Service, error) {
	cfg.applyDefaults()
	if !tokens.Supported(cfg.Model) {
		return nil, fmt.Errorf("%w: %q", types.ErrUnknownModel, cfg.Model)
	}
	if _, err := chunker.New(cfg.ChunkSize, cfg.ChunkOverlap); err != nil {
		return nil, err
	}

	return &Service{
		store: store,
		pipe:  pipe,
		chat:  chat,
		cfg:   cfg,
	}, nil
}

// IngestOptions overrides the configured chunk parameters for one
// ingestion. Zero fields keep the configured values.
type IngestOptions struct {
	ChunkSize    int
	ChunkOverlap int
}

// Ingest rebuilds the corpus from docs and publishes the new version.
// A nil opts uses the configured chunk parameters.
func (s *Service) Ingest(ctx context.Context, docs []types.Document, opts *IngestOptions) (*corpus.Version, error) {
	chunkSize := s.cfg.ChunkSize
	chunkOverlap := s.cfg.ChunkOverlap
	if opts != nil {
		if opts.ChunkSize > 0 {
			chunkSize = opts.ChunkSize
		}
		if opts.ChunkOverlap > 0 {
			chunkOverlap = opts.ChunkOverlap
		}
	}
	if _, err := chunker.New(chunkSize, chunkOverlap); err != nil {
		return nil, err
	}

	return s.store.Rebuild(ctx, docs, func(ctx context.Context, docs []types.Document) (*corpus.Version, error) {
		result, err := s.pipe.Ingest(ctx, docs, chunkSize, chunkOverlap)
		if err != nil {
			return nil, err
		}
		return corpus.NewVersion(result.Index, result.Records, result.Chunks, docs, result.Skipped), nil
	})
}

// Search retrieves the chunks nearest to the question across the whole
// corpus, closest first.
func (s *Service) Search(ctx context.Context, question string, topK int) ([]types.Match, error) {
	version, err := s.store.Current()
	if err != nil {
		return nil, err
	}
	if topK <= 0 {
		topK = s.cfg.TopK
	}
	return s.pipe.Query(ctx, version.Index, question, topK)
}

// AskRequest is one question against one ingested document.
type AskRequest struct {
	// Question is the user's question. Required.
	Question string

	// Document names the document the answer should be grounded in.
	// Required; it must exist in the current corpus version.
	Document string

	// TopK, MaxTokens, and AnswerLength override the configured defaults
	// when positive.
	TopK         int
	MaxTokens    int
	AnswerLength int
}

// AskResponse is a generated answer plus the retrieval that produced it.
type AskResponse struct {
	// Answer is the chat model's reply.
	Answer string

	// Matches are the retrieval results the context was assembled from,
	// closest first. Each tag names the source document. Retrieval is
	// corpus wide, so matches may come from documents other than the
	// requested one.
	Matches []types.Match

	// Context is the token-trimmed context block sent to the model.
	Context string

	// Model is the chat model that produced the answer.
	Model string
}

// Ask retrieves context for the question and generates an answer.
func (s *Service) Ask(ctx context.Context, req AskRequest) (*AskResponse, error) {
	if req.Question == "" {
		return nil, fmt.Errorf("question cannot be empty")
	}
	if s.chat == nil {
		return nil, fmt.Errorf("%w: no chat backend configured", types.ErrCompletionService)
	}

	version, err := s.store.Current()
	if err != nil {
		return nil, err
	}
	doc, err := version.Document(req.Document)
	if err != nil {
		return nil, err
	}

	topK := req.TopK
	if topK <= 0 {
		topK = s.cfg.TopK
	}
	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = s.cfg.MaxTokens
	}
	answerLength := req.AnswerLength
	if answerLength <= 0 {
		answerLength = s.cfg.AnswerLength
	}

	matches, err := s.pipe.Query(ctx, version.Index, req.Question, topK)
	if err != nil {
		return nil, err
	}

	// Match positions index into the version's chunk slice, which is
	// aligned with the index the matches came from.
	retrieved := make([]string, 0, len(matches))
	for _, m := range matches {
		if m.Position < 0 || m.Position >= len(version.Chunks) {
			continue
		}
		retrieved = append(retrieved, version.Chunks[m.Position].Content)
	}

	contextBlock, err := s.pipe.AnswerContext(doc.Text, retrieved, maxTokens, s.cfg.Model)
	if err != nil {
		return nil, err
	}

	prompt := completion.BuildPrompt(completion.PromptInput{
		DocumentName: doc.Name,
		Question:     req.Question,
		Context:      contextBlock,
		AnswerLength: answerLength,
	})

	answer, err := s.chat.Generate(ctx, prompt)
	if err != nil {
		return nil, err
	}

	return &AskResponse{
		Answer:  answer,
		Matches: matches,
		Context: contextBlock,
		Model:   s.cfg.Model,
	}, nil
}

// Status describes the published corpus version, if any.
type Status struct {
	Indexed       bool
	VersionID     string
	BuiltAt       string
	DocumentCount int
	ChunkCount    int
	Documents     []string
	Skipped       []string
}

// Status reports the current corpus state without error: an unindexed
// store is a valid state, not a failure.
func (s *Service) Status() Status {
	version, err := s.store.Current()
	if err != nil {
		return Status{}
	}
	return Status{
		Indexed:       true,
		VersionID:     version.ID,
		BuiltAt:       version.BuiltAt.Format(time.RFC3339),
		DocumentCount: len(version.Documents),
		ChunkCount:    version.Index.Size(),
		Documents:     version.DocumentNames(),
		Skipped:       version.Skipped,
	}
}

// Config returns the effective configuration after defaults.
func (s *Service) Config() Config {
	return s.cfg
}
