// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/okian/mimic/internal/domain/model"
	"github.com/okian/mimic/internal/domain/replay"
	"github.com/okian/mimic/pkg/metrics"
)

// ItemsHandler handles item creation requests.
type ItemsHandler struct {
	deps Dependencies
}

// NewItemsHandler creates a new items handler.
func NewItemsHandler(deps Dependencies) *ItemsHandler {
	return &ItemsHandler{deps: deps}
}

// HandleItems handles POST /items requests. The payload is echoed back with
// a synthesized item id; nothing is persisted.
func (h *ItemsHandler) HandleItems(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeMethodNotAllowed(w, http.MethodPost)
		return
	}

	body, req, err := decodeItemBody(r)
	if err != nil {
		h.reject(w, r, err)
		return
	}

	resp := itemResponse{
		ItemID:      h.deps.NewItemID(),
		Name:        req.Name,
		Description: req.Description,
		Message:     "POST request processed successfully",
	}
	writeJSON(w, http.StatusOK, resp)
	metrics.RecordItemCreated()

	h.deps.Observe(r.Context(), model.RequestRecord{
		Method:     r.Method,
		Route:      "/items",
		ItemID:     resp.ItemID,
		Status:     http.StatusOK,
		ReceivedAt: time.Now().UTC(),
	}, replay.Fingerprint(r.Method, r.URL.Path, body))
}

// reject answers an unprocessable create request and journals the rejection.
func (h *ItemsHandler) reject(w http.ResponseWriter, r *http.Request, err error) {
	metrics.RecordValidationFailure("items")
	writeError(w, http.StatusUnprocessableEntity, "validation_error", err)

	h.deps.Observe(r.Context(), model.RequestRecord{
		Method:     r.Method,
		Route:      "/items",
		Status:     http.StatusUnprocessableEntity,
		ReceivedAt: time.Now().UTC(),
	}, "")
}

// decodeItemBody reads and validates a write payload, returning the raw
// bytes for fingerprinting alongside the decoded request.
func decodeItemBody(r *http.Request) ([]byte, itemRequest, error) {
	var req itemRequest

	body, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, req, errors.New("unreadable request body")
	}
	if len(body) == 0 {
		return nil, req, errors.New("request body required")
	}
	if err := json.Unmarshal(body, &req); err != nil {
		return nil, req, errors.New("malformed JSON body")
	}
	if err := req.validate(); err != nil {
		return nil, req, err
	}
	return body, req, nil
}
