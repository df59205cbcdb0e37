// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/okian/mimic/internal/domain/model"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/okian/mimic/pkg/metrics"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// NewItemID synthesizes an identifier for a created item.
	NewItemID() string

	// Observe records a handled request in the audit pipeline. fingerprint
	// is empty for reads; for writes it marks identical replays.
	Observe(ctx context.Context, rec model.RequestRecord, fingerprint string) bool

	// Recent returns up to n journal records, newest first.
	Recent(ctx context.Context, n int) ([]model.RequestRecord, error)

	// JournalCapacity returns the configured journal ring capacity.
	JournalCapacity() int
}

// Limits carries the request validation bounds configured for the API.
type Limits struct {
	// DefaultLimit applies when GET /items/{item_id} has no limit parameter.
	DefaultLimit int
	// MaxLimit caps the limit parameter.
	MaxLimit int
	// HistoryLimit is the default page size for GET /history.
	HistoryLimit int
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler  *HealthHandler
	itemsHandler   *ItemsHandler
	itemHandler    *ItemHandler
	statsHandler   *StatsHandler
	historyHandler *HistoryHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, limits Limits) *Server {
	return &Server{
		healthHandler:  NewHealthHandler(deps),
		itemsHandler:   NewItemsHandler(deps),
		itemHandler:    NewItemHandler(deps, limits),
		statsHandler:   NewStatsHandler(statsProvider),
		historyHandler: NewHistoryHandler(deps, limits),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	// Specific paths first (most specific to least specific)
	mux.HandleFunc("/health", MetricsMiddleware(s.healthHandler.HandleHealth, "health"))
	mux.HandleFunc("/items", MetricsMiddleware(s.itemsHandler.HandleItems, "items"))
	mux.HandleFunc("/items/", MetricsMiddleware(s.itemHandler.HandleItem, "item"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/history", MetricsMiddleware(s.historyHandler.HandleHistory, "history"))
	mux.Handle("/metrics", promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{}))
}

// itemRequest mirrors the documented JSON body for POST /items and
// PUT /items/{item_id}.
type itemRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

func (i itemRequest) validate() error {
	if strings.TrimSpace(i.Name) == "" {
		return errors.New("missing name")
	}
	return nil
}

// itemResponse echoes a write request back to the caller.
type itemResponse struct {
	ItemID      string  `json:"item_id"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
	Message     string  `json:"message"`
}

// getItemResponse echoes the lookup parameters back to the caller.
type getItemResponse struct {
	ItemID  string `json:"item_id"`
	Skip    int    `json:"skip"`
	Limit   int    `json:"limit"`
	Message string `json:"message"`
}

type healthResponse struct {
	Status string `json:"status"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeMethodNotAllowed answers requests with an unsupported method.
func writeMethodNotAllowed(w http.ResponseWriter, allowed string) {
	w.Header().Set("Allow", allowed)
	writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", ErrMethodNotAllowed)
}
