// Package mcp implements the Model Context Protocol (MCP) server for docqa.
//
// The server exposes five tools to MCP clients:
//   - ingest_documents: load text files and build a searchable corpus
//   - ask_question: answer a question about an ingested document
//   - search_chunks: retrieve the nearest chunks for a query
//   - list_documents: list the documents in the current corpus
//   - get_status: report corpus statistics and effective settings
//
// MCP is a JSON-RPC 2.0 protocol over stdio transport. The server reads
// protocol messages from stdin and writes responses to stdout, so all
// logging goes to stderr.
//
// Tool failures carry typed error codes (see tools.go) so clients can
// distinguish a missing corpus from a backend outage.
package mcp
