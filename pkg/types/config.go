// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "newsroom-engine/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// GenerationConfig holds settings for the text-generation capability used by
// task execution.
type GenerationConfig struct {
	HTTPConfig `yaml:",inline"`

	// Model is the AI model identifier (e.g. "claude-sonnet-4-5-20250929").
	Model string `json:"model" yaml:"model"`

	// APIKey is the authentication key for the AI API.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// MaxRetries is the number of retry attempts for failed API calls (default 3).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}

// VectorConfig holds settings for the vector index used by enrichment.
type VectorConfig struct {
	// DSN is the Postgres connection string for the pgvector-backed index.
	DSN string `json:"dsn,omitempty" yaml:"dsn,omitempty"`

	// Table is the context-document table name (default "context_documents").
	Table string `json:"table" yaml:"table"`

	// TopK is the number of similarity matches used for enrichment (default 5).
	TopK int `json:"top_k" yaml:"top_k"`

	// EmbeddingURL is the base URL of the embedding HTTP service
	// (default "http://localhost:11434").
	EmbeddingURL string `json:"embedding_url,omitempty" yaml:"embedding_url,omitempty"`

	// EmbeddingModel is the embedding model name (default "nomic-embed-text").
	EmbeddingModel string `json:"embedding_model,omitempty" yaml:"embedding_model,omitempty"`
}

// LogStoreConfig holds settings for the prompt log store.
type LogStoreConfig struct {
	// LogsDir is the base directory for the prompt log (contains index/).
	LogsDir string `json:"logs_dir" yaml:"logs_dir"`

	// MaxResults is the default maximum number of search results (default 20).
	MaxResults int `json:"max_results" yaml:"max_results"`
}

// OrchestratorConfig holds settings for pipeline runs.
type OrchestratorConfig struct {
	// Workers bounds concurrent task execution. 0 or 1 runs tasks
	// sequentially.
	Workers int `json:"workers" yaml:"workers"`

	// OutputDir is the directory for compiled article artifacts
	// (e.g. "output/articles/").
	OutputDir string `json:"output_dir" yaml:"output_dir"`

	// MockMode substitutes in-memory capabilities for the generation API,
	// vector index, and log store. Consumed at construction time.
	MockMode bool `json:"mock_mode" yaml:"mock_mode"`
}

// PipelineConfig groups all stage configurations for the pipeline.
type PipelineConfig struct {
	Generation   GenerationConfig   `json:"generation" yaml:"generation"`
	Vector       VectorConfig       `json:"vector" yaml:"vector"`
	LogStore     LogStoreConfig     `json:"log_store" yaml:"log_store"`
	Orchestrator OrchestratorConfig `json:"orchestrator" yaml:"orchestrator"`
	Settings     ResearchSettings   `json:"settings" yaml:"settings"`
}
