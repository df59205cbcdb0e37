// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/okian/mimic/pkg/metrics"
)

// HistoryHandler handles request journal queries.
type HistoryHandler struct {
	deps   Dependencies
	limits Limits
}

// NewHistoryHandler creates a new history handler.
func NewHistoryHandler(deps Dependencies, limits Limits) *HistoryHandler {
	return &HistoryHandler{deps: deps, limits: limits}
}

// HandleHistory handles GET /history?limit=N requests, returning the most
// recently journaled requests, newest first.
func (h *HistoryHandler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w, http.MethodGet)
		return
	}

	n := h.limits.HistoryLimit
	if s := r.URL.Query().Get("limit"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < 1 {
			metrics.RecordValidationFailure("history")
			writeError(w, http.StatusUnprocessableEntity, "validation_error",
				fmt.Errorf("limit must be a positive integer"))
			return
		}
		n = v
	}
	if capacity := h.deps.JournalCapacity(); n > capacity {
		n = capacity
	}

	records, err := h.deps.Recent(r.Context(), n)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}
	writeJSON(w, http.StatusOK, records)
}
