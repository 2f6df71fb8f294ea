// Package config loads and validates the application configuration.
// Validation is strict: unknown model or backend names fail at load time,
// before any documents are touched.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/docqa/docqa-mcp/internal/assembler"
	"github.com/docqa/docqa-mcp/internal/chunker"
	"github.com/docqa/docqa-mcp/internal/completion"
	"github.com/docqa/docqa-mcp/internal/embedder"
	"github.com/docqa/docqa-mcp/internal/pipeline"
	"github.com/docqa/docqa-mcp/internal/tokens"
)

// RetrievalConfig holds the chunking and retrieval parameters.
type RetrievalConfig struct {
	ChunkSize    int    `yaml:"chunk_size"`
	ChunkOverlap int    `yaml:"chunk_overlap"`
	TopK         int    `yaml:"top_k"`
	MaxTokens    int    `yaml:"max_tokens"`
	AnswerLength int    `yaml:"answer_length"`
	Model        string `yaml:"model"`
	Workers      int    `yaml:"workers"`
}

// EmbedderConfig selects and tunes the embedding provider. The API key is
// never stored in the file; it comes from the environment.
type EmbedderConfig struct {
	Provider  string `yaml:"provider"`
	Model     string `yaml:"model"`
	BaseURL   string `yaml:"base_url"`
	CacheSize int    `yaml:"cache_size"`
}

// CompletionConfig selects the chat backend by its user-facing name.
type CompletionConfig struct {
	Backend string `yaml:"backend"`
	BaseURL string `yaml:"base_url"`
}

// AppConfig is the root of the configuration file.
type AppConfig struct {
	Retrieval  RetrievalConfig  `yaml:"retrieval"`
	Embedder   EmbedderConfig   `yaml:"embedder"`
	Completion CompletionConfig `yaml:"completion"`
}

// Default returns the configuration used when no file is present.
func Default() *AppConfig {
	cfg := &AppConfig{}
	cfg.applyDefaults()
	return cfg
}

func (c *AppConfig) applyDefaults() {
	if c.Retrieval.ChunkSize <= 0 {
		c.Retrieval.ChunkSize = chunker.DefaultChunkSize
	}
	if c.Retrieval.ChunkOverlap <= 0 {
		c.Retrieval.ChunkOverlap = chunker.DefaultChunkOverlap
	}
	if c.Retrieval.TopK <= 0 {
		c.Retrieval.TopK = pipeline.DefaultTopK
	}
	if c.Retrieval.MaxTokens <= 0 {
		c.Retrieval.MaxTokens = assembler.DefaultMaxTokens
	}
	if c.Retrieval.AnswerLength <= 0 {
		c.Retrieval.AnswerLength = completion.DefaultAnswerLength
	}
	if c.Retrieval.Model == "" {
		c.Retrieval.Model = tokens.DefaultModel
	}
	if c.Retrieval.Workers <= 0 {
		c.Retrieval.Workers = pipeline.DefaultWorkers
	}
	if c.Embedder.CacheSize <= 0 {
		c.Embedder.CacheSize = embedder.DefaultCacheSize
	}
	if c.Completion.Backend == "" {
		c.Completion.Backend = completion.DefaultBackend
	}
}

// Validate rejects configurations the pipeline cannot run with.
func (c *AppConfig) Validate() error {
	if _, err := chunker.New(c.Retrieval.ChunkSize, c.Retrieval.ChunkOverlap); err != nil {
		return err
	}
	if !tokens.Supported(c.Retrieval.Model) {
		return fmt.Errorf("retrieval model %q has no token estimation scheme (supported: %v)",
			c.Retrieval.Model, tokens.Models())
	}
	if _, err := completion.ResolveBackend(c.Completion.Backend); err != nil {
		return err
	}
	return nil
}

// Load reads, defaults, and validates a configuration file.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := &AppConfig{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadDefault loads path if it exists and falls back to Default otherwise.
func LoadDefault(path string) (*AppConfig, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Default(), nil
	}
	return Load(path)
}

// Save writes the configuration to path.
func (c *AppConfig) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
