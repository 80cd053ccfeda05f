// Package app wires configuration, the corpus index, providers, and the
// pipeline into a single dependency container.
package app

import (
	"context"
	"fmt"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/rix-ai/research-rag/internal/budget"
	"github.com/rix-ai/research-rag/internal/config"
	"github.com/rix-ai/research-rag/internal/embedding"
	"github.com/rix-ai/research-rag/internal/generation"
	openaiprovider "github.com/rix-ai/research-rag/internal/generation/openai"
	"github.com/rix-ai/research-rag/internal/index"
	"github.com/rix-ai/research-rag/internal/pipeline"
	"github.com/rix-ai/research-rag/internal/prompt"
	"github.com/rix-ai/research-rag/internal/retrieval"
	"github.com/rix-ai/research-rag/internal/store/sqlite"
)

// Dependencies holds all initialized application components.
type Dependencies struct {
	Config   *config.Config
	Logger   *zap.Logger
	Index    *index.Index
	Embedder embedding.Embedder
	Registry *generation.Registry
	Tracker  *budget.Tracker
	Pipeline *pipeline.Pipeline
}

// NewDependencies initializes the full component graph from configuration.
func NewDependencies(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Dependencies, error) {
	ix, err := loadIndex(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to load index: %w", err)
	}

	embedder, err := buildEmbedder(cfg, ix.Dimension())
	if err != nil {
		return nil, fmt.Errorf("failed to build embedder: %w", err)
	}

	registry := generation.NewRegistry()
	if err := registry.Register(generation.NewStubProvider()); err != nil {
		return nil, err
	}
	if cfg.Providers.GenerationProvider == "openai" {
		adapter, err := openaiprovider.New(
			cfg.Providers.OpenAI.APIKey,
			cfg.Providers.OpenAI.BaseURL,
			cfg.Providers.OpenAI.ChatModels,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to build openai provider: %w", err)
		}
		if err := registry.Register(adapter); err != nil {
			return nil, err
		}
	}

	prices := generation.DefaultPriceTable()
	if err := prices.ApplyOverrides(cfg.Generation.PriceOverrides); err != nil {
		return nil, fmt.Errorf("invalid price overrides: %w", err)
	}

	client := generation.NewClient(registry, prices, generation.RetryConfig{
		MaxAttempts: cfg.Generation.MaxAttempts,
		BaseDelay:   cfg.Generation.BaseDelay,
		MaxDelay:    cfg.Generation.MaxDelay,
		CallTimeout: cfg.Generation.CallTimeout,
	}, logger)

	tracker := budget.NewTracker()
	retriever := retrieval.NewRetriever(embedder, ix, logger)
	assembler := prompt.NewAssembler(cfg.Prompt.ContextBudgetChars)

	defaults := pipeline.Defaults{
		K:               cfg.Retrieval.TopK,
		MinScore:        cfg.Retrieval.MinScore,
		MaxOutputTokens: cfg.Generation.MaxOutputTokens,
		Model:           cfg.Generation.Model,
	}
	if cfg.Providers.GenerationProvider == "stub" {
		defaults.Model = generation.StubModel
	}

	pl := pipeline.New(retriever, assembler, client, tracker, defaults, logger)

	logger.Info("dependencies initialized",
		zap.Int("index_documents", ix.Len()),
		zap.Int("index_dimension", ix.Dimension()),
		zap.String("embedding_provider", cfg.Providers.EmbeddingProvider),
		zap.String("generation_provider", cfg.Providers.GenerationProvider),
		zap.String("default_model", defaults.Model))

	return &Dependencies{
		Config:   cfg,
		Logger:   logger,
		Index:    ix,
		Embedder: embedder,
		Registry: registry,
		Tracker:  tracker,
		Pipeline: pl,
	}, nil
}

// loadIndex builds the in-memory index from the configured snapshot. The
// file extension selects the loader: .db opens a SQLite snapshot, anything
// else is parsed as JSON. An empty path yields an empty index, which readyz
// reports as unhealthy until a corpus is loaded.
func loadIndex(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*index.Index, error) {
	path := cfg.Index.SnapshotPath
	if path == "" {
		logger.Warn("no snapshot configured, starting with an empty index")
		return index.New(cfg.Index.Dimension), nil
	}

	if filepath.Ext(path) == ".db" {
		store, err := sqlite.Open(path)
		if err != nil {
			return nil, err
		}
		defer store.Close()

		dimension, err := store.Dimension(ctx)
		if err != nil {
			return nil, err
		}
		docs, err := store.LoadDocuments(ctx)
		if err != nil {
			return nil, err
		}

		ix := index.New(dimension)
		if err := ix.ReplaceAll(docs); err != nil {
			return nil, err
		}
		logger.Info("loaded sqlite snapshot",
			zap.String("path", path),
			zap.Int("documents", ix.Len()))
		return ix, nil
	}

	snapshot, err := index.LoadSnapshot(path)
	if err != nil {
		return nil, err
	}
	ix, err := snapshot.BuildIndex()
	if err != nil {
		return nil, err
	}
	logger.Info("loaded json snapshot",
		zap.String("path", path),
		zap.Int("documents", ix.Len()))
	return ix, nil
}

// buildEmbedder selects the embedding backend and wraps it in an LRU cache
// so repeated queries skip the provider round trip.
func buildEmbedder(cfg *config.Config, dimension int) (embedding.Embedder, error) {
	var inner embedding.Embedder
	switch cfg.Providers.EmbeddingProvider {
	case "openai":
		e, err := embedding.NewOpenAIEmbedder(
			cfg.Providers.OpenAI.APIKey,
			cfg.Providers.OpenAI.BaseURL,
			cfg.Providers.OpenAI.EmbeddingModel,
			dimension,
		)
		if err != nil {
			return nil, err
		}
		inner = e
	case "stub":
		inner = embedding.NewStubEmbedder(dimension)
	default:
		return nil, fmt.Errorf("unknown embedding provider %q", cfg.Providers.EmbeddingProvider)
	}

	return embedding.NewCachedEmbedder(inner, cfg.Retrieval.EmbedCacheSize)
}
