package handlers

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"inquiry_service/internal/config"
	"inquiry_service/internal/models"
)

type BatchProcessor interface {
	ProcessBatch(ctx context.Context, limit int) (*models.BatchResult, error)
}

type ProcessHandler struct {
	processor  BatchProcessor
	simulation bool
}

func NewProcessHandler(processor BatchProcessor, simulation bool) *ProcessHandler {
	return &ProcessHandler{processor: processor, simulation: simulation}
}

// POST /api/process-inquiries?limit=N
// 200: batch result
// 400: invalid limit
// 500: internal error
//
// limit defaults to 5 and is clamped to [1, 20]; processing is idempotent,
// so a retried trigger at worst claims a fresh batch.
func (h *ProcessHandler) Run(w http.ResponseWriter, r *http.Request) {
	limit := config.DefaultProcessLimit
	if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "limit must be an integer")
			return
		}
		if n < 1 {
			n = 1
		}
		if n > config.MaxProcessLimit {
			n = config.MaxProcessLimit
		}
		limit = n
	}

	result, err := h.processor.ProcessBatch(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// GET /api/process-inquiries/health
func (h *ProcessHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":          "ok",
		"simulation_mode": h.simulation,
	})
}
