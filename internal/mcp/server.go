package mcp

import (
	"context"
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/server"

	"github.com/docqa/docqa-mcp/internal/assembler"
	"github.com/docqa/docqa-mcp/internal/completion"
	"github.com/docqa/docqa-mcp/internal/config"
	"github.com/docqa/docqa-mcp/internal/corpus"
	"github.com/docqa/docqa-mcp/internal/embedder"
	"github.com/docqa/docqa-mcp/internal/loader"
	"github.com/docqa/docqa-mcp/internal/pipeline"
	"github.com/docqa/docqa-mcp/internal/service"
	"github.com/docqa/docqa-mcp/internal/tokens"
	"github.com/docqa/docqa-mcp/pkg/types"
)

const (
	// ServerName is the MCP server name
	ServerName = "docqa-mcp"
	// ServerVersion is the current server version
	ServerVersion = "1.0.0"
)

// Server wraps the MCP server with application dependencies
type Server struct {
	mcp *server.MCPServer
	svc *service.Service
	emb embedder.Embedder
}

// NewServer creates a new MCP server instance
func NewServer(cfg *config.AppConfig) (*Server, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	// Create embedder (shared between ingestion and query)
	provider := cfg.Embedder.Provider
	if provider == "" {
		provider = embedder.DetectProvider()
	}
	emb, err := embedder.New(embedder.Config{
		Provider:  provider,
		APIKey:    os.Getenv(embedder.EnvOpenAIAPIKey),
		BaseURL:   cfg.Embedder.BaseURL,
		Model:     cfg.Embedder.Model,
		CacheSize: cfg.Embedder.CacheSize,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize embedder: %w", err)
	}

	// Create chat backend when a key is available; without one the server
	// still serves ingestion and search.
	chatModel, err := completion.ResolveBackend(cfg.Completion.Backend)
	if err != nil {
		return nil, err
	}
	var chat completion.Completion
	if key := os.Getenv(embedder.EnvOpenAIAPIKey); key != "" {
		chat, err = completion.NewOpenAIChat(completion.ChatConfig{
			APIKey:  key,
			BaseURL: cfg.Completion.BaseURL,
			Model:   chatModel,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize chat backend: %w", err)
		}
	}

	pipe := pipeline.New(emb, assembler.New(tokens.New()), cfg.Retrieval.Workers)

	svc, err := service.New(corpus.NewStore(), pipe, chat, service.Config{
		ChunkSize:    cfg.Retrieval.ChunkSize,
		ChunkOverlap: cfg.Retrieval.ChunkOverlap,
		TopK:         cfg.Retrieval.TopK,
		MaxTokens:    cfg.Retrieval.MaxTokens,
		AnswerLength: cfg.Retrieval.AnswerLength,
		Model:        cfg.Retrieval.Model,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize service: %w", err)
	}

	// Create MCP server
	mcpServer := server.NewMCPServer(
		ServerName,
		ServerVersion,
	)

	s := &Server{
		mcp: mcpServer,
		svc: svc,
		emb: emb,
	}

	s.registerTools()

	return s, nil
}

// Serve starts the MCP server on stdio and blocks until shutdown
func (s *Server) Serve(ctx context.Context) error {
	defer func() { _ = s.emb.Close() }()
	return server.ServeStdio(s.mcp)
}

// loadDocuments reads the requested files, collecting per-file failures.
func (s *Server) loadDocuments(paths []string) ([]types.Document, []error) {
	return loader.LoadFiles(paths)
}

// registerTools registers all MCP tools
func (s *Server) registerTools() {
	s.mcp.AddTool(ingestDocumentsTool(), s.handleIngestDocuments)
	s.mcp.AddTool(askQuestionTool(), s.handleAskQuestion)
	s.mcp.AddTool(searchChunksTool(), s.handleSearchChunks)
	s.mcp.AddTool(listDocumentsTool(), s.handleListDocuments)
	s.mcp.AddTool(getStatusTool(), s.handleGetStatus)
}
