// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"
	"time"

	"github.com/okian/mimic/internal/domain/model"
)

// HealthHandler handles health check requests.
type HealthHandler struct {
	deps Dependencies
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(deps Dependencies) *HealthHandler {
	return &HealthHandler{deps: deps}
}

// HandleHealth handles GET /health requests.
// The body is fixed so test suites can assert it byte for byte.
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w, http.MethodGet)
		return
	}

	writeJSON(w, http.StatusOK, healthResponse{Status: "healthy"})

	h.deps.Observe(r.Context(), model.RequestRecord{
		Method:     r.Method,
		Route:      "/health",
		Status:     http.StatusOK,
		ReceivedAt: time.Now().UTC(),
	}, "")
}
