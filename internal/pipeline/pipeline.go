// Package pipeline composes retrieval, context assembly, and generation into
// the single answer(query) operation.
package pipeline

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/rix-ai/research-rag/internal/budget"
	"github.com/rix-ai/research-rag/internal/generation"
	"github.com/rix-ai/research-rag/internal/models"
	"github.com/rix-ai/research-rag/internal/prompt"
	"github.com/rix-ai/research-rag/internal/retrieval"
)

// Options tunes one answer() invocation. Zero values fall back to the
// pipeline defaults.
type Options struct {
	// K is the number of documents to retrieve.
	K int

	// MinScore is the relevance floor.
	MinScore float64

	// MaxOutputTokens caps the generated answer length.
	MaxOutputTokens int

	// Model selects the generative model.
	Model string
}

// Defaults are the fallback option values, set from configuration.
type Defaults struct {
	K               int
	MinScore        float64
	MaxOutputTokens int
	Model           string
}

// Pipeline executes queries as a strictly sequential state machine:
// embedding -> retrieving -> assembling -> generating -> done. Any stage
// failure short-circuits to failed with the originating error preserved.
// Pipelines are safe for concurrent use; all per-query state is local and
// the cost tracker is the only shared mutable state.
type Pipeline struct {
	retriever *retrieval.Retriever
	assembler *prompt.Assembler
	generator *generation.Client
	tracker   *budget.Tracker
	defaults  Defaults
	logger    *zap.Logger
}

// New creates a pipeline.
func New(
	retriever *retrieval.Retriever,
	assembler *prompt.Assembler,
	generator *generation.Client,
	tracker *budget.Tracker,
	defaults Defaults,
	logger *zap.Logger,
) *Pipeline {
	return &Pipeline{
		retriever: retriever,
		assembler: assembler,
		generator: generator,
		tracker:   tracker,
		defaults:  defaults,
		logger:    logger,
	}
}

// Tracker exposes the shared cost accumulator for stats reporting.
func (p *Pipeline) Tracker() *budget.Tracker {
	return p.tracker
}

// Answer runs one query through the full pipeline and returns the grounded
// answer with citations, usage, cost, and per-stage latency.
func (p *Pipeline) Answer(ctx context.Context, query string, opts Options) (*models.AnswerResult, error) {
	if query == "" {
		return nil, ErrEmptyQuery
	}
	opts = p.applyDefaults(opts)

	queryID := uuid.NewString()
	start := time.Now()
	var stages []models.StageLatency

	p.logger.Debug("stage 1: embedding query", zap.String("query_id", queryID))
	stageStart := time.Now()
	queryVector, err := p.retriever.EmbedQuery(ctx, query)
	if err != nil {
		return nil, newStageError(StageEmbedding, 1, err)
	}
	stages = append(stages, stageLatency(StageEmbedding, stageStart))

	p.logger.Debug("stage 2: searching index", zap.String("query_id", queryID))
	stageStart = time.Now()
	results, err := p.retriever.Search(queryVector, opts.K, opts.MinScore)
	if err != nil {
		return nil, newStageError(StageRetrieving, 1, err)
	}
	stages = append(stages, stageLatency(StageRetrieving, stageStart))

	if len(results) == 0 {
		// Nothing cleared the threshold: a valid outcome, not an error.
		// Generation is skipped entirely.
		p.tracker.Record(0, 0, 0, 0)
		p.logger.Info("query found no grounding",
			zap.String("query_id", queryID),
			zap.Float64("min_score", opts.MinScore))
		return &models.AnswerResult{
			QueryID:   queryID,
			Status:    models.StatusNoResults,
			Answer:    prompt.NoResultsAnswer,
			Sources:   []models.Source{},
			CitedIDs:  []string{},
			Model:     opts.Model,
			LatencyMs: msSince(start),
			Stages:    stages,
		}, nil
	}

	p.logger.Debug("stage 3: assembling context",
		zap.String("query_id", queryID),
		zap.Int("retrieved", len(results)))
	stageStart = time.Now()
	promptCtx := p.assembler.Assemble(results, p.retriever.Document)
	fullPrompt := prompt.Build(query, promptCtx)
	stages = append(stages, stageLatency(StageAssembling, stageStart))

	p.logger.Debug("stage 4: generating answer",
		zap.String("query_id", queryID),
		zap.String("model", opts.Model),
		zap.Int("context_docs", len(promptCtx.Entries)),
		zap.Int("context_chars", promptCtx.UsedChars))
	stageStart = time.Now()
	outcome, err := p.generator.Generate(ctx, generation.Request{
		Model:     opts.Model,
		Prompt:    fullPrompt,
		MaxTokens: opts.MaxOutputTokens,
	})
	if err != nil {
		attempts := 1
		var callErr *generation.CallError
		if errors.As(err, &callErr) {
			attempts = callErr.Attempts
		}
		return nil, newStageError(StageGenerating, attempts, err)
	}
	stages = append(stages, stageLatency(StageGenerating, stageStart))

	p.tracker.Record(outcome.InputTokens, outcome.OutputTokens, outcome.InputCost, outcome.OutputCost)

	result := &models.AnswerResult{
		QueryID:        queryID,
		Status:         models.StatusSuccess,
		Answer:         outcome.Text,
		Sources:        sourcesFrom(promptCtx),
		CitedIDs:       citedIDs(outcome.Text, promptCtx),
		Usage:          models.Usage{InputTokens: outcome.InputTokens, OutputTokens: outcome.OutputTokens},
		CostEstimate:   outcome.Cost,
		CostUnknown:    outcome.CostUnknown,
		Model:          opts.Model,
		RetrievedCount: len(results),
		LatencyMs:      msSince(start),
		Stages:         stages,
	}

	p.logger.Info("query answered",
		zap.String("query_id", queryID),
		zap.Int("retrieved", result.RetrievedCount),
		zap.Int("cited", len(result.CitedIDs)),
		zap.Int("input_tokens", outcome.InputTokens),
		zap.Int("output_tokens", outcome.OutputTokens),
		zap.Float64("cost_usd", outcome.Cost),
		zap.Float64("latency_ms", result.LatencyMs))

	return result, nil
}

// applyDefaults fills unset options from the configured defaults.
func (p *Pipeline) applyDefaults(opts Options) Options {
	if opts.K == 0 {
		opts.K = p.defaults.K
	}
	if opts.MinScore == 0 {
		opts.MinScore = p.defaults.MinScore
	}
	if opts.MaxOutputTokens == 0 {
		opts.MaxOutputTokens = p.defaults.MaxOutputTokens
	}
	if opts.Model == "" {
		opts.Model = p.defaults.Model
	}
	return opts
}

// sourcesFrom converts the admitted context entries into response sources.
func sourcesFrom(promptCtx *prompt.Context) []models.Source {
	sources := make([]models.Source, len(promptCtx.Entries))
	for i, e := range promptCtx.Entries {
		meta := e.Document.Metadata
		sources[i] = models.Source{
			DocumentID: e.Document.ID,
			Title:      meta.Title,
			Authors:    meta.FormatAuthors(),
			Year:       meta.Year,
			Category:   meta.Category,
			SourceURL:  meta.SourceURL,
			Score:      e.Score,
			Truncated:  e.Truncated,
		}
	}
	return sources
}

func stageLatency(stage Stage, start time.Time) models.StageLatency {
	return models.StageLatency{Stage: string(stage), LatencyMs: msSince(start)}
}

func msSince(start time.Time) float64 {
	return float64(time.Since(start).Microseconds()) / 1000.0
}
