package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/okian/nutriscreen/internal/adapters/mq/queue"
	service "github.com/okian/nutriscreen/internal/app"
	"github.com/okian/nutriscreen/internal/domain/assessment"
	"github.com/okian/nutriscreen/internal/domain/types"
)

const defaultTopLimit = 10

// ScreeningDependencies defines the asynchronous screening operations.
type ScreeningDependencies interface {
	Submit(ctx context.Context, id string, req assessment.Request) (types.Submission, error)
	Screening(ctx context.Context, id string) (types.Record, error)
	TopRisk(ctx context.Context, n int) ([]types.Record, error)
}

// ScreeningHandler handles screening submission and lookup.
type ScreeningHandler struct {
	deps     ScreeningDependencies
	maxLimit int
}

// NewScreeningHandler creates a new screening handler.
func NewScreeningHandler(deps ScreeningDependencies, maxLimit int) *ScreeningHandler {
	if maxLimit < 1 {
		maxLimit = 100
	}
	return &ScreeningHandler{deps: deps, maxLimit: maxLimit}
}

// HandleSubmit handles POST /screenings.
func (h *ScreeningHandler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	const op = "api.submit_screening"
	var req screeningRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	sub, err := h.deps.Submit(r.Context(), strings.TrimSpace(req.ScreeningID), req.Request)
	switch {
	case errors.Is(err, queue.ErrQueueFull):
		writeError(w, http.StatusTooManyRequests, "backpressure", WrapKind(op, ErrBackpressure, err))
		return
	case errors.Is(err, service.ErrStoreFull):
		writeError(w, http.StatusInsufficientStorage, "store_full", WrapKind(op, ErrUnavailable, err))
		return
	case errors.Is(err, service.ErrNotStarted), errors.Is(err, queue.ErrQueueClosed):
		writeError(w, http.StatusServiceUnavailable, "unavailable", WrapKind(op, ErrUnavailable, err))
		return
	case err != nil:
		writeError(w, http.StatusInternalServerError, "internal_error", WrapKind(op, ErrInternal, err))
		return
	}

	if sub.Duplicate {
		writeJSON(w, http.StatusOK, ackResponse{Status: "duplicate", Submission: sub})
		return
	}
	writeJSON(w, http.StatusAccepted, ackResponse{Status: "accepted", Submission: sub})
}

// HandleGet handles GET /screenings/{id}.
func (h *ScreeningHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_screening"
	id := strings.TrimSpace(r.PathValue("id"))
	if id == "" {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	rec, err := h.deps.Screening(r.Context(), id)
	if err != nil {
		h.writeLookupError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// HandleTopRisk handles GET /screenings/top?limit=N.
func (h *ScreeningHandler) HandleTopRisk(w http.ResponseWriter, r *http.Request) {
	const op = "api.top_risk"
	n := defaultTopLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		var err error
		if n, err = strconv.Atoi(v); err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
			return
		}
	}
	if n > h.maxLimit {
		writeError(w, http.StatusBadRequest, "limit_exceeded", NewKind(op, ErrBadRequest))
		return
	}
	recs, err := h.deps.TopRisk(r.Context(), n)
	if err != nil {
		h.writeLookupError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, recs)
}

func (h *ScreeningHandler) writeLookupError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", WrapKind(op, ErrNotFound, err))
	case errors.Is(err, service.ErrNotStarted):
		writeError(w, http.StatusServiceUnavailable, "unavailable", WrapKind(op, ErrUnavailable, err))
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", WrapKind(op, ErrInternal, err))
	}
}
