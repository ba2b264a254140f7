// Package config loads the Kontext configuration from a TOML file.
//
// Configuration is an explicit struct handed to each component at
// construction time; business logic never reads the process
// environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Provider kinds for the embedding service.
const (
	ProviderOllama = "ollama"
	ProviderOpenAI = "openai"
)

// Config is the root configuration.
type Config struct {
	// DataDir is where the SQLite index lives.
	// Empty means ~/.kontext/data.
	DataDir string `toml:"data_dir"`

	Chunker   ChunkerConfig   `toml:"chunker"`
	Embedding EmbeddingConfig `toml:"embedding"`
	Watch     WatchConfig     `toml:"watch"`
	HTTP      HTTPConfig      `toml:"http"`
}

// ChunkerConfig configures document splitting.
type ChunkerConfig struct {
	// MaxChunkSize is the maximum chunk size in characters.
	MaxChunkSize int `toml:"max_chunk_size"`
}

// EmbeddingConfig configures the embedding provider.
type EmbeddingConfig struct {
	// Provider selects the adapter: "ollama" or "openai".
	Provider string `toml:"provider"`

	// BaseURL is the provider API base URL.
	BaseURL string `toml:"base_url"`

	// Model is the embedding model name.
	Model string `toml:"model"`

	// APIKey authenticates against hosted providers (OpenAI).
	APIKey string `toml:"api_key"`

	// TimeoutSeconds bounds each provider request.
	TimeoutSeconds int `toml:"timeout_seconds"`

	// Dimensions overrides the model's default vector size.
	Dimensions int `toml:"dimensions"`
}

// Timeout returns the request timeout as a duration.
func (e EmbeddingConfig) Timeout() time.Duration {
	return time.Duration(e.TimeoutSeconds) * time.Second
}

// WatchConfig configures the watch-folder ingestion.
type WatchConfig struct {
	// InboxDir is the directory watched for new documents.
	InboxDir string `toml:"inbox_dir"`

	// ProcessedDir receives successfully ingested files.
	// Empty means <inbox>/processed.
	ProcessedDir string `toml:"processed_dir"`

	// FailedDir receives files whose ingestion failed.
	// Empty means <inbox>/failed.
	FailedDir string `toml:"failed_dir"`
}

// HTTPConfig configures the retrieval HTTP API.
type HTTPConfig struct {
	// Addr is the listen address for `kontext serve`.
	Addr string `toml:"addr"`
}

// Default returns the configuration defaults.
func Default() Config {
	return Config{
		Chunker: ChunkerConfig{
			MaxChunkSize: 2000,
		},
		Embedding: EmbeddingConfig{
			Provider:       ProviderOllama,
			TimeoutSeconds: 30,
		},
		HTTP: HTTPConfig{
			Addr: "127.0.0.1:8090",
		},
	}
}

// DefaultPath returns the default config file location,
// ~/.kontext/config.toml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".kontext", "config.toml"), nil
}

// Load reads the TOML file at path, applying defaults for absent
// fields. A missing file yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}

// Save writes the configuration as TOML to path, creating the parent
// directory if needed. The file is private: it may hold an API key.
func Save(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}
