// Package embedder turns text into fixed-dimension float32 vectors for
// similarity search.
//
// Two providers are available:
//
//   - openai: an OpenAI-compatible HTTP /embeddings client with bounded
//     exponential-backoff retries and a configurable base URL
//   - local: a deterministic in-process hash embedder for offline use
//
// Selection happens through New with an explicit Config, or NewFromEnv
// which consults DOCQA_EMBEDDING_PROVIDER and OPENAI_API_KEY and falls back
// to the local provider.
//
// Embeddings are cached in an LRU cache keyed by the SHA-256 hash of the
// text, so rebuilding an unchanged corpus does not repeat remote calls.
//
// Remote failures wrap types.ErrEmbeddingService; the pipeline propagates
// them to its caller rather than retrying at a semantic level.
package embedder
