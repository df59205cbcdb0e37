// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/okian/mimic/internal/domain/model"
	"github.com/okian/mimic/internal/domain/replay"
	"github.com/okian/mimic/pkg/metrics"
)

// itemRoute is the normalized journal route for single-item requests.
const itemRoute = "/items/{item_id}"

// ItemHandler handles GET and PUT requests for a single item.
type ItemHandler struct {
	deps   Dependencies
	limits Limits
}

// NewItemHandler creates a new single-item handler.
func NewItemHandler(deps Dependencies, limits Limits) *ItemHandler {
	return &ItemHandler{deps: deps, limits: limits}
}

// HandleItem dispatches /items/{item_id} requests by method.
func (h *ItemHandler) HandleItem(w http.ResponseWriter, r *http.Request) {
	// Extract path parameter after /items/
	id := strings.TrimPrefix(r.URL.Path, "/items/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, http.StatusNotFound, "not_found", ErrNotFound)
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.handleGet(w, r, id)
	case http.MethodPut:
		h.handleUpdate(w, r, id)
	default:
		writeMethodNotAllowed(w, "GET, PUT")
	}
}

// handleGet handles GET /items/{item_id}?skip=&limit= requests.
// The id and pagination parameters are echoed back; there is no lookup.
func (h *ItemHandler) handleGet(w http.ResponseWriter, r *http.Request, id string) {
	skip, limit, err := h.parseQuery(r)
	if err != nil {
		h.reject(w, r, id, err)
		return
	}

	writeJSON(w, http.StatusOK, getItemResponse{
		ItemID:  id,
		Skip:    skip,
		Limit:   limit,
		Message: "GET request processed successfully",
	})
	metrics.RecordItemFetched()

	h.deps.Observe(r.Context(), model.RequestRecord{
		Method:     r.Method,
		Route:      itemRoute,
		ItemID:     id,
		Status:     http.StatusOK,
		ReceivedAt: time.Now().UTC(),
	}, "")
}

// handleUpdate handles PUT /items/{item_id} requests. The echo is
// deterministic, so identical requests always yield identical responses;
// replays are only flagged in the journal.
func (h *ItemHandler) handleUpdate(w http.ResponseWriter, r *http.Request, id string) {
	body, req, err := decodeItemBody(r)
	if err != nil {
		h.reject(w, r, id, err)
		return
	}

	writeJSON(w, http.StatusOK, itemResponse{
		ItemID:      id,
		Name:        req.Name,
		Description: req.Description,
		Message:     "PUT request processed successfully",
	})
	metrics.RecordItemUpdated()

	h.deps.Observe(r.Context(), model.RequestRecord{
		Method:     r.Method,
		Route:      itemRoute,
		ItemID:     id,
		Status:     http.StatusOK,
		ReceivedAt: time.Now().UTC(),
	}, replay.Fingerprint(r.Method, r.URL.Path, body))
}

// parseQuery validates the pagination parameters, applying defaults when
// they are absent.
func (h *ItemHandler) parseQuery(r *http.Request) (skip, limit int, err error) {
	skip = 0
	limit = h.limits.DefaultLimit

	q := r.URL.Query()
	if s := q.Get("skip"); s != "" {
		v, convErr := strconv.Atoi(s)
		if convErr != nil || v < 0 {
			return 0, 0, fmt.Errorf("skip must be a non-negative integer")
		}
		skip = v
	}
	if s := q.Get("limit"); s != "" {
		v, convErr := strconv.Atoi(s)
		if convErr != nil || v < 1 {
			return 0, 0, fmt.Errorf("limit must be a positive integer")
		}
		if v > h.limits.MaxLimit {
			return 0, 0, fmt.Errorf("limit must not exceed %d", h.limits.MaxLimit)
		}
		limit = v
	}
	return skip, limit, nil
}

// reject answers an unprocessable single-item request and journals the rejection.
func (h *ItemHandler) reject(w http.ResponseWriter, r *http.Request, id string, err error) {
	metrics.RecordValidationFailure("item")
	writeError(w, http.StatusUnprocessableEntity, "validation_error", err)

	h.deps.Observe(r.Context(), model.RequestRecord{
		Method:     r.Method,
		Route:      itemRoute,
		ItemID:     id,
		Status:     http.StatusUnprocessableEntity,
		ReceivedAt: time.Now().UTC(),
	}, "")
}
