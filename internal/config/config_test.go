package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 1.5, cfg.BM25.K1)
	assert.Equal(t, 0.75, cfg.BM25.B)
	assert.Equal(t, 1000, cfg.Cache.HotCapacity)
	assert.Equal(t, "local", cfg.Embedder.Type)
	assert.Equal(t, 384, cfg.Embedder.Dimension)
	assert.Equal(t, 10, cfg.DefaultLimit)
	assert.NotEmpty(t, cfg.Cache.Dir)
}

func TestLoadAppliesDefaultsToPartialConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
bm25:
  k1: 1.2
cache:
  hot_capacity: 50
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 1.2, cfg.BM25.K1)
	assert.Equal(t, 0.75, cfg.BM25.B) // defaulted
	assert.Equal(t, 50, cfg.Cache.HotCapacity)
}

func TestLoadCustomStopwords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
bm25:
  stopwords: [foo, bar]
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"foo", "bar"}, cfg.BM25.Stopwords)
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("bm25: ["), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}
