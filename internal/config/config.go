// Package config loads the engine configuration from a YAML file, falling
// back to defaults when no file exists.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// BM25Config tunes the lexical ranking function per instance.
type BM25Config struct {
	K1        float64  `yaml:"k1"`
	B         float64  `yaml:"b"`
	Stopwords []string `yaml:"stopwords,omitempty"` // empty means the default set
}

// CacheConfig configures the embedding cache.
type CacheConfig struct {
	Dir         string `yaml:"dir"`
	HotCapacity int    `yaml:"hot_capacity"`
}

// EmbedderConfig selects the embedding provider.
type EmbedderConfig struct {
	Type      string `yaml:"type"` // currently "local"
	Dimension int    `yaml:"dimension"`
}

// IndexerConfig configures directory indexing.
type IndexerConfig struct {
	Workers    int      `yaml:"workers"`
	Extensions []string `yaml:"extensions,omitempty"`
}

// Config is the root configuration.
type Config struct {
	BM25     BM25Config     `yaml:"bm25"`
	Cache    CacheConfig    `yaml:"cache"`
	Embedder EmbedderConfig `yaml:"embedder"`
	Indexer  IndexerConfig  `yaml:"indexer"`

	// DefaultLimit is the result count used when a search request does
	// not specify one.
	DefaultLimit int `yaml:"default_limit"`
}

// Load reads a config from path. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default()
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	applyDefaults(&cfg)
	return &cfg, nil
}

// DefaultPath returns the conventional config file location.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "docindex", "config.yaml")
	}
	return filepath.Join(home, ".docindex", "config.yaml")
}

// Default returns the built-in configuration.
func Default() (*Config, error) {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.BM25.K1 == 0 {
		cfg.BM25.K1 = 1.5
	}
	if cfg.BM25.B == 0 {
		cfg.BM25.B = 0.75
	}
	if cfg.Cache.Dir == "" {
		cfg.Cache.Dir = defaultCacheDir()
	}
	if cfg.Cache.HotCapacity == 0 {
		cfg.Cache.HotCapacity = 1000
	}
	if cfg.Embedder.Type == "" {
		cfg.Embedder.Type = "local"
	}
	if cfg.Embedder.Dimension == 0 {
		cfg.Embedder.Dimension = 384
	}
	if cfg.DefaultLimit == 0 {
		cfg.DefaultLimit = 10
	}
}

func defaultCacheDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "docindex", "embeddings")
	}
	return filepath.Join(home, ".docindex", "embeddings")
}
