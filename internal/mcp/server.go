// Package mcp exposes the retrieval engine as an MCP stdio server.
package mcp

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/server"

	"github.com/dshills/docindex-mcp/internal/bm25"
	"github.com/dshills/docindex-mcp/internal/config"
	"github.com/dshills/docindex-mcp/internal/embedcache"
	"github.com/dshills/docindex-mcp/internal/embedder"
	"github.com/dshills/docindex-mcp/internal/indexer"
	"github.com/dshills/docindex-mcp/internal/retriever"
	"github.com/dshills/docindex-mcp/internal/searcher"
	"github.com/dshills/docindex-mcp/internal/tokenizer"
	"github.com/dshills/docindex-mcp/internal/vector"
)

const (
	// ServerName is the MCP server name
	ServerName = "docindex-mcp"
	// ServerVersion is the current server version
	ServerVersion = "1.0.0"
)

// Server wraps the MCP server with application dependencies
type Server struct {
	mcp     *server.MCPServer
	cfg     *config.Config
	engine  *retriever.Engine
	indexer *indexer.Indexer
}

// NewServer builds the engine from configuration and registers the tools.
func NewServer(cfg *config.Config) (*Server, error) {
	if cfg == nil {
		var err error
		cfg, err = config.Default()
		if err != nil {
			return nil, err
		}
	}

	tok := tokenizer.New()
	if len(cfg.BM25.Stopwords) > 0 {
		tok = tokenizer.NewWithStopwords(cfg.BM25.Stopwords)
	}
	lexical := searcher.NewWithConfig(bm25Params(cfg), tok)

	cache, err := embedcache.NewWithCapacity(cfg.Cache.Dir, cfg.Cache.HotCapacity)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize embedding cache: %w", err)
	}

	emb, err := newEmbedder(cfg)
	if err != nil {
		return nil, err
	}

	engine := retriever.New(lexical, vector.New(), cache, emb)

	mcpServer := server.NewMCPServer(
		ServerName,
		ServerVersion,
	)

	s := &Server{
		mcp:     mcpServer,
		cfg:     cfg,
		engine:  engine,
		indexer: indexer.New(engine),
	}

	s.registerTools()
	return s, nil
}

// Serve starts the MCP server on stdio and blocks until shutdown.
func (s *Server) Serve(ctx context.Context) error {
	return server.ServeStdio(s.mcp)
}

// Engine exposes the underlying retrieval engine, used by tests.
func (s *Server) Engine() *retriever.Engine {
	return s.engine
}

func (s *Server) registerTools() {
	s.mcp.AddTool(indexDocumentTool(), s.handleIndexDocument)
	s.mcp.AddTool(indexDirectoryTool(), s.handleIndexDirectory)
	s.mcp.AddTool(searchTool(), s.handleSearch)
	s.mcp.AddTool(getStatusTool(), s.handleGetStatus)
	s.mcp.AddTool(clearIndexTool(), s.handleClearIndex)
	s.mcp.AddTool(pruneCacheTool(), s.handlePruneCache)
}

func bm25Params(cfg *config.Config) bm25.Params {
	return bm25.Params{K1: cfg.BM25.K1, B: cfg.BM25.B}
}

func newEmbedder(cfg *config.Config) (embedder.Embedder, error) {
	switch cfg.Embedder.Type {
	case "local":
		return embedder.NewLocal(cfg.Embedder.Dimension), nil
	default:
		return nil, fmt.Errorf("unsupported embedder type: %s", cfg.Embedder.Type)
	}
}
