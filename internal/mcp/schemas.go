package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// ingestDocumentsTool returns the tool definition for ingest_documents
func ingestDocumentsTool() mcp.Tool {
	return mcp.Tool{
		Name:        "ingest_documents",
		Description: "Load text documents from disk and build a searchable corpus from them",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"paths": map[string]interface{}{
					"type":        "array",
					"description": "Absolute paths of the files to ingest (.txt, .md)",
					"items": map[string]interface{}{
						"type": "string",
					},
				},
				"chunk_size": map[string]interface{}{
					"type":        "integer",
					"description": "Chunk size in characters (overrides the configured value)",
					"default":     1000,
					"minimum":     1,
				},
				"chunk_overlap": map[string]interface{}{
					"type":        "integer",
					"description": "Character overlap between adjacent chunks (must be less than chunk_size)",
					"default":     200,
					"minimum":     0,
				},
			},
			Required: []string{"paths"},
		},
	}
}

// askQuestionTool returns the tool definition for ask_question
func askQuestionTool() mcp.Tool {
	return mcp.Tool{
		Name:        "ask_question",
		Description: "Answer a question about an ingested document using retrieved context",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"question": map[string]interface{}{
					"type":        "string",
					"description": "The question to answer",
				},
				"document": map[string]interface{}{
					"type":        "string",
					"description": "Name of the ingested document to ground the answer in",
				},
				"top_k": map[string]interface{}{
					"type":        "integer",
					"description": "Number of nearest chunks to retrieve (1-100)",
					"default":     5,
					"minimum":     1,
					"maximum":     100,
				},
				"max_tokens": map[string]interface{}{
					"type":        "integer",
					"description": "Token budget for the assembled context",
					"default":     2000,
				},
				"answer_length": map[string]interface{}{
					"type":        "integer",
					"description": "Requested answer length in words",
					"default":     300,
				},
			},
			Required: []string{"question", "document"},
		},
	}
}

// searchChunksTool returns the tool definition for search_chunks
func searchChunksTool() mcp.Tool {
	return mcp.Tool{
		Name:        "search_chunks",
		Description: "Retrieve the corpus chunks nearest to a query, closest first",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"query": map[string]interface{}{
					"type":        "string",
					"description": "Search query",
				},
				"top_k": map[string]interface{}{
					"type":        "integer",
					"description": "Number of results to return (1-100)",
					"default":     5,
					"minimum":     1,
					"maximum":     100,
				},
			},
			Required: []string{"query"},
		},
	}
}

// listDocumentsTool returns the tool definition for list_documents
func listDocumentsTool() mcp.Tool {
	return mcp.Tool{
		Name:        "list_documents",
		Description: "List the documents in the current corpus",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}
}

// getStatusTool returns the tool definition for get_status
func getStatusTool() mcp.Tool {
	return mcp.Tool{
		Name:        "get_status",
		Description: "Query corpus status and statistics",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}
}
