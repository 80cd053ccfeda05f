package handlers

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/rix-ai/research-rag/internal/httputil"
	"github.com/rix-ai/research-rag/internal/index"
)

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp string            `json:"timestamp"`
	Checks    map[string]string `json:"checks,omitempty"`
}

// HealthHandler handles health-related HTTP requests
type HealthHandler struct {
	index  *index.Index
	logger *zap.Logger
}

// NewHealthHandler creates a new HealthHandler
func NewHealthHandler(ix *index.Index, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{
		index:  ix,
		logger: logger,
	}
}

// HandleHealth handles GET /health
// Basic health check - always returns 200 if service is running
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	response := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}

	_ = httputil.WriteOK(w, response)
}

// HandleReadiness handles GET /health/ready
// Readiness requires a non-empty index; an empty one means the corpus
// snapshot never loaded and every query would come back no_results.
func (h *HealthHandler) HandleReadiness(w http.ResponseWriter, r *http.Request) {
	checks := make(map[string]string)
	allHealthy := true

	if h.index == nil || h.index.Len() == 0 {
		h.logger.Warn("index readiness check failed: no documents loaded")
		checks["index"] = "unhealthy"
		allHealthy = false
	} else {
		checks["index"] = "healthy"
	}

	status := "healthy"
	httpStatus := http.StatusOK
	if !allHealthy {
		status = "unhealthy"
		httpStatus = http.StatusServiceUnavailable
	}

	response := HealthResponse{
		Status:    status,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Checks:    checks,
	}

	if err := httputil.WriteJSON(w, httpStatus, httputil.SuccessResponse{Data: response}); err != nil {
		h.logger.Error("failed to write readiness response", zap.Error(err))
	}
}
