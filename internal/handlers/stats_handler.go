package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/rix-ai/research-rag/internal/budget"
	"github.com/rix-ai/research-rag/internal/httputil"
)

// StatsHandler exposes the session cost totals.
type StatsHandler struct {
	tracker *budget.Tracker
	logger  *zap.Logger
}

// NewStatsHandler creates a new StatsHandler.
func NewStatsHandler(tracker *budget.Tracker, logger *zap.Logger) *StatsHandler {
	return &StatsHandler{
		tracker: tracker,
		logger:  logger,
	}
}

// HandleGetStats handles GET /api/v1/stats.
func (h *StatsHandler) HandleGetStats(w http.ResponseWriter, r *http.Request) {
	if err := httputil.WriteOK(w, h.tracker.Totals()); err != nil {
		h.logger.Error("failed to write stats response", zap.Error(err))
	}
}

// HandleResetStats handles POST /api/v1/stats/reset.
func (h *StatsHandler) HandleResetStats(w http.ResponseWriter, r *http.Request) {
	before := h.tracker.Totals()
	h.tracker.Reset()

	h.logger.Info("session stats reset",
		zap.Int("queries", before.Queries),
		zap.Float64("total_cost_usd", before.TotalCost))

	if err := httputil.WriteOK(w, h.tracker.Totals()); err != nil {
		h.logger.Error("failed to write stats response", zap.Error(err))
	}
}
