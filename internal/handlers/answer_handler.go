// Package handlers contains the HTTP handlers for the answer service.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/rix-ai/research-rag/internal/embedding"
	"github.com/rix-ai/research-rag/internal/httputil"
	"github.com/rix-ai/research-rag/internal/index"
	"github.com/rix-ai/research-rag/internal/models"
	"github.com/rix-ai/research-rag/internal/pipeline"
)

// AnswerRequest represents an answer request body.
type AnswerRequest struct {
	Query           string  `json:"query" validate:"required"`
	K               int     `json:"k,omitempty" validate:"omitempty,gte=1,lte=100"`
	MinScore        float64 `json:"min_score,omitempty" validate:"omitempty,gte=0,lte=1"`
	MaxOutputTokens int     `json:"max_output_tokens,omitempty" validate:"omitempty,gte=1"`
	Model           string  `json:"model,omitempty"`
}

// AnswerService defines the pipeline operation the handler depends on.
type AnswerService interface {
	Answer(ctx context.Context, query string, opts pipeline.Options) (*models.AnswerResult, error)
}

// AnswerHandler handles answer-related HTTP requests.
type AnswerHandler struct {
	service AnswerService
	logger  *zap.Logger
}

// NewAnswerHandler creates a new AnswerHandler.
func NewAnswerHandler(service AnswerService, logger *zap.Logger) *AnswerHandler {
	return &AnswerHandler{
		service: service,
		logger:  logger,
	}
}

// HandleAnswer handles POST /api/v1/answer.
func (h *AnswerHandler) HandleAnswer(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req AnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("failed to parse request body", zap.Error(err))
		_ = httputil.WriteBadRequest(w, "Invalid request body", nil)
		return
	}

	if err := httputil.ValidateStruct(&req); err != nil {
		h.logger.Warn("request validation failed", zap.Error(err))
		details := make(map[string]interface{})
		for field, msg := range httputil.GetValidationFields(err) {
			details[field] = msg
		}
		_ = httputil.WriteBadRequest(w, err.Error(), details)
		return
	}

	result, err := h.service.Answer(ctx, req.Query, pipeline.Options{
		K:               req.K,
		MinScore:        req.MinScore,
		MaxOutputTokens: req.MaxOutputTokens,
		Model:           req.Model,
	})
	if err != nil {
		h.writeAnswerError(w, err)
		return
	}

	if err := httputil.WriteOK(w, result); err != nil {
		h.logger.Error("failed to write response",
			zap.String("query_id", result.QueryID),
			zap.Error(err))
	}
}

// writeAnswerError maps pipeline failures onto HTTP status codes. Caller
// mistakes are 400s; provider failures surface as gateway errors with the
// failed stage attached so clients can tell retrieval problems from
// generation problems.
func (h *AnswerHandler) writeAnswerError(w http.ResponseWriter, err error) {
	if errors.Is(err, pipeline.ErrEmptyQuery) || errors.Is(err, index.ErrInvalidArgument) {
		_ = httputil.WriteBadRequest(w, err.Error(), nil)
		return
	}

	var stageErr *pipeline.StageError
	if errors.As(err, &stageErr) {
		h.logger.Error("pipeline stage failed",
			zap.String("stage", string(stageErr.Stage)),
			zap.Int("attempts", stageErr.Attempts),
			zap.Error(stageErr.Err))

		if errors.Is(stageErr.Err, index.ErrInvalidArgument) {
			_ = httputil.WriteBadRequest(w, stageErr.Err.Error(), nil)
			return
		}
		if errors.Is(stageErr.Err, embedding.ErrUnavailable) {
			_ = httputil.WriteServiceUnavailable(w, "Embedding provider unavailable")
			return
		}
		_ = httputil.WriteBadGateway(w, "", map[string]interface{}{
			"stage":    string(stageErr.Stage),
			"attempts": stageErr.Attempts,
		})
		return
	}

	h.logger.Error("answer failed", zap.Error(err))
	_ = httputil.WriteInternalServerError(w, "")
}
