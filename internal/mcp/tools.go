package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/docqa/docqa-mcp/internal/service"
	"github.com/docqa/docqa-mcp/pkg/types"
)

// MCP error codes
const (
	ErrorCodeInvalidParams     = -32602 // Invalid method parameters
	ErrorCodeInternalError     = -32603 // Internal JSON-RPC error
	ErrorCodeNotIndexed        = -32001 // No corpus has been ingested yet
	ErrorCodeRebuildInProgress = -32002 // Another ingestion is already running
	ErrorCodeUnknownDocument   = -32003 // Named document is not in the corpus
	ErrorCodeEmptyCorpus       = -32004 // Ingestion produced no chunks
	ErrorCodeBackendFailure    = -32005 // Embedding or completion backend failed
)

// handleIngestDocuments handles the ingest_documents tool invocation
func (s *Server) handleIngestDocuments(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	paths, err := getStringSlice(args, "paths")
	if err != nil || len(paths) == 0 {
		return nil, newMCPError(ErrorCodeInvalidParams, "paths parameter is required", map[string]interface{}{
			"param":  "paths",
			"reason": "missing or empty",
		})
	}

	docs, loadErrs := s.loadDocuments(paths)
	if len(docs) == 0 {
		return nil, newMCPError(ErrorCodeInvalidParams, "no documents could be loaded", map[string]interface{}{
			"errors": errorStrings(loadErrs),
		})
	}

	opts := &service.IngestOptions{
		ChunkSize:    getIntDefault(args, "chunk_size", 0),
		ChunkOverlap: getIntDefault(args, "chunk_overlap", 0),
	}
	if opts.ChunkSize < 0 || opts.ChunkOverlap < 0 {
		return nil, newMCPError(ErrorCodeInvalidParams, "chunk parameters must be positive", map[string]interface{}{
			"chunk_size":    opts.ChunkSize,
			"chunk_overlap": opts.ChunkOverlap,
		})
	}

	version, err := s.svc.Ingest(ctx, docs, opts)
	if err != nil {
		return nil, mapServiceError(err, "ingestion failed")
	}

	response := map[string]interface{}{
		"indexed":        true,
		"version_id":     version.ID,
		"document_count": len(version.Documents),
		"chunk_count":    version.Index.Size(),
		"skipped":        version.Skipped,
	}
	if len(loadErrs) > 0 {
		response["load_errors"] = errorStrings(loadErrs)
	}

	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleAskQuestion handles the ask_question tool invocation
func (s *Server) handleAskQuestion(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	question, ok := args["question"].(string)
	if !ok || question == "" {
		return nil, newMCPError(ErrorCodeInvalidParams, "question parameter is required and cannot be empty", map[string]interface{}{
			"param":  "question",
			"reason": "missing or empty",
		})
	}

	document, ok := args["document"].(string)
	if !ok || document == "" {
		return nil, newMCPError(ErrorCodeInvalidParams, "document parameter is required", map[string]interface{}{
			"param":  "document",
			"reason": "missing or empty",
		})
	}

	topK, err := getTopK(args)
	if err != nil {
		return nil, err
	}

	resp, err := s.svc.Ask(ctx, service.AskRequest{
		Question:     question,
		Document:     document,
		TopK:         topK,
		MaxTokens:    getIntDefault(args, "max_tokens", 0),
		AnswerLength: getIntDefault(args, "answer_length", 0),
	})
	if err != nil {
		return nil, mapServiceError(err, "answering failed")
	}

	sources := make([]map[string]interface{}, len(resp.Matches))
	for i, m := range resp.Matches {
		sources[i] = map[string]interface{}{
			"source":   m.Tag,
			"distance": m.Distance,
		}
	}

	response := map[string]interface{}{
		"answer":  resp.Answer,
		"model":   resp.Model,
		"sources": sources,
	}

	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleSearchChunks handles the search_chunks tool invocation
func (s *Server) handleSearchChunks(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	query, ok := args["query"].(string)
	if !ok || query == "" {
		return nil, newMCPError(ErrorCodeInvalidParams, "query parameter is required and cannot be empty", map[string]interface{}{
			"param":  "query",
			"reason": "missing or empty",
		})
	}

	topK, err := getTopK(args)
	if err != nil {
		return nil, err
	}

	matches, err := s.svc.Search(ctx, query, topK)
	if err != nil {
		return nil, mapServiceError(err, "search failed")
	}

	results := make([]map[string]interface{}, len(matches))
	for i, m := range matches {
		results[i] = map[string]interface{}{
			"source":   m.Tag,
			"distance": m.Distance,
		}
	}

	response := map[string]interface{}{
		"query":   query,
		"results": results,
	}

	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleListDocuments handles the list_documents tool invocation
func (s *Server) handleListDocuments(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	status := s.svc.Status()

	response := map[string]interface{}{
		"indexed":   status.Indexed,
		"documents": status.Documents,
	}

	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleGetStatus handles the get_status tool invocation
func (s *Server) handleGetStatus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	status := s.svc.Status()

	if !status.Indexed {
		response := map[string]interface{}{
			"indexed": false,
			"message": "No corpus ingested. Use the ingest_documents tool first.",
		}
		return mcp.NewToolResultText(formatJSON(response)), nil
	}

	cfg := s.svc.Config()
	response := map[string]interface{}{
		"indexed": true,
		"corpus": map[string]interface{}{
			"version_id":     status.VersionID,
			"built_at":       status.BuiltAt,
			"document_count": status.DocumentCount,
			"chunk_count":    status.ChunkCount,
			"skipped":        status.Skipped,
		},
		"settings": map[string]interface{}{
			"chunk_size":    cfg.ChunkSize,
			"chunk_overlap": cfg.ChunkOverlap,
			"top_k":         cfg.TopK,
			"max_tokens":    cfg.MaxTokens,
			"model":         cfg.Model,
		},
	}

	return mcp.NewToolResultText(formatJSON(response)), nil
}

// Helper functions

// newMCPError creates a properly formatted MCP error
func newMCPError(code int, message string, data interface{}) error {
	// MCP errors are returned as regular errors, the framework handles encoding
	return &MCPError{
		Code:    code,
		Message: message,
		Data:    data,
	}
}

// MCPError represents an MCP protocol error
type MCPError struct {
	Code    int
	Message string
	Data    interface{}
}

func (e *MCPError) Error() string {
	return fmt.Sprintf("MCP error %d: %s", e.Code, e.Message)
}

// mapServiceError translates typed service errors into MCP error codes.
func mapServiceError(err error, message string) error {
	code := ErrorCodeInternalError
	switch {
	case errors.Is(err, types.ErrChunkConfig):
		code = ErrorCodeInvalidParams
	case errors.Is(err, types.ErrNotIndexed):
		code = ErrorCodeNotIndexed
	case errors.Is(err, types.ErrRebuildInProgress):
		code = ErrorCodeRebuildInProgress
	case errors.Is(err, types.ErrUnknownDocument):
		code = ErrorCodeUnknownDocument
	case errors.Is(err, types.ErrEmptyCorpus):
		code = ErrorCodeEmptyCorpus
	case errors.Is(err, types.ErrEmbeddingService), errors.Is(err, types.ErrCompletionService):
		code = ErrorCodeBackendFailure
	}
	return newMCPError(code, message, map[string]interface{}{
		"error": err.Error(),
	})
}

// formatJSON formats a map as indented JSON
func formatJSON(data map[string]interface{}) string {
	bytes, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", data)
	}
	return string(bytes)
}

// getTopK extracts the optional top_k parameter. Absent means "use the
// configured default" (returned as 0); when present it must be 1-100.
func getTopK(args map[string]interface{}) (int, error) {
	if _, present := args["top_k"]; !present {
		return 0, nil
	}
	topK := getIntDefault(args, "top_k", 0)
	if topK < 1 || topK > 100 {
		return 0, newMCPError(ErrorCodeInvalidParams, "top_k must be between 1 and 100", map[string]interface{}{
			"param": "top_k",
			"value": topK,
		})
	}
	return topK, nil
}

// getIntDefault extracts an integer parameter with a default value
func getIntDefault(args map[string]interface{}, key string, defaultValue int) int {
	if val, ok := args[key].(float64); ok {
		return int(val)
	}
	if val, ok := args[key].(int); ok {
		return val
	}
	return defaultValue
}

// getStringSlice extracts a string array parameter
func getStringSlice(args map[string]interface{}, key string) ([]string, error) {
	raw, ok := args[key].([]interface{})
	if !ok {
		return nil, fmt.Errorf("%s is not an array", key)
	}
	out := make([]string, len(raw))
	for i, v := range raw {
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("%s[%d] is not a string", key, i)
		}
		out[i] = s
	}
	return out, nil
}

// errorStrings renders collected load errors for a response payload.
func errorStrings(errs []error) []string {
	out := make([]string, len(errs))
	for i, err := range errs {
		out[i] = err.Error()
	}
	return out
}
