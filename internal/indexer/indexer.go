// Package indexer walks a directory tree and feeds text files into the
// retrieval engine: read -> lexical index -> embed -> vector index.
package indexer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"sync/atomic"
	"time"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"

	"github.com/dshills/docindex-mcp/internal/retriever"
)

// MaxFileSize bounds how large a file the indexer will read (4 MiB).
const MaxFileSize = 4 << 20

// Config contains configuration for the indexer.
type Config struct {
	Workers    int      // concurrent workers (default: runtime.NumCPU())
	Extensions []string // file extensions to index (default: common text formats)
}

// Statistics summarizes one indexing run.
type Statistics struct {
	FilesIndexed  int
	FilesSkipped  int
	FilesFailed   int
	Duration      time.Duration
	ErrorMessages []string
}

// defaultExtensions covers the formats the engine is normally pointed at.
var defaultExtensions = []string{
	".txt", ".md", ".rst", ".go", ".py", ".rs", ".js", ".ts",
	".json", ".yaml", ".yml", ".toml", ".html", ".css",
}

// Indexer coordinates concurrent file indexing against a retrieval engine.
type Indexer struct {
	engine *retriever.Engine
}

// New creates an Indexer for the given engine.
func New(engine *retriever.Engine) *Indexer {
	return &Indexer{engine: engine}
}

// IndexDirectory walks rootPath and indexes every matching file. Per-file
// failures are collected into the statistics rather than aborting the run;
// only walk errors and context cancellation are fatal.
func (idx *Indexer) IndexDirectory(ctx context.Context, rootPath string, config *Config) (*Statistics, error) {
	if config == nil {
		config = &Config{}
	}
	workers := config.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	extensions := config.Extensions
	if len(extensions) == 0 {
		extensions = defaultExtensions
	}

	allowed := make(map[string]struct{}, len(extensions))
	for _, ext := range extensions {
		allowed[strings.ToLower(ext)] = struct{}{}
	}

	files, err := discoverFiles(rootPath, allowed)
	if err != nil {
		return nil, fmt.Errorf("failed to discover files: %w", err)
	}

	startTime := time.Now()
	stats := &Statistics{ErrorMessages: make([]string, 0)}

	var (
		indexed int32
		skipped int32
		failed  int32
		mu      sync.Mutex // protects stats.ErrorMessages
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for _, filePath := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			switch err := idx.indexFile(gctx, rootPath, filePath); {
			case err == nil:
				atomic.AddInt32(&indexed, 1)
			case err == errSkipped:
				atomic.AddInt32(&skipped, 1)
			default:
				atomic.AddInt32(&failed, 1)
				mu.Lock()
				stats.ErrorMessages = append(stats.ErrorMessages, fmt.Sprintf("%s: %v", filePath, err))
				mu.Unlock()
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	stats.FilesIndexed = int(indexed)
	stats.FilesSkipped = int(skipped)
	stats.FilesFailed = int(failed)
	stats.Duration = time.Since(startTime)
	return stats, nil
}

// errSkipped marks files that were discovered but intentionally not indexed.
var errSkipped = fmt.Errorf("skipped")

// indexFile reads one file and hands it to the engine under its
// root-relative path.
func (idx *Indexer) indexFile(ctx context.Context, rootPath, filePath string) error {
	info, err := os.Stat(filePath)
	if err != nil {
		return err
	}
	if info.Size() > MaxFileSize {
		return errSkipped
	}

	content, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	if !utf8.Valid(content) {
		return errSkipped
	}

	relPath, err := filepath.Rel(rootPath, filePath)
	if err != nil {
		return err
	}

	return idx.engine.IndexDocument(ctx, relPath, string(content))
}

// discoverFiles finds indexable files under rootPath, skipping hidden
// directories and files with unlisted extensions.
func discoverFiles(rootPath string, allowed map[string]struct{}) ([]string, error) {
	var files []string

	err := filepath.WalkDir(rootPath, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			if path != rootPath && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}

		if strings.HasPrefix(d.Name(), ".") {
			return nil
		}

		ext := strings.ToLower(filepath.Ext(path))
		if _, ok := allowed[ext]; !ok {
			return nil
		}

		files = append(files, path)
		return nil
	})

	return files, err
}
