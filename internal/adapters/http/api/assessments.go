package api

import (
	"context"
	"errors"
	"net/http"

	service "github.com/okian/nutriscreen/internal/app"
	"github.com/okian/nutriscreen/internal/domain/assessment"
)

// maxBodyBytes bounds request bodies; a full batch fits well within it.
const maxBodyBytes = 8 << 20

// AssessmentDependencies defines the synchronous assessment operations.
type AssessmentDependencies interface {
	Assess(ctx context.Context, req assessment.Request) assessment.Result
	AssessBatch(ctx context.Context, reqs []assessment.Request) ([]assessment.Result, error)
}

// AssessmentHandler handles synchronous assessment requests.
type AssessmentHandler struct {
	deps AssessmentDependencies
}

// NewAssessmentHandler creates a new assessment handler.
func NewAssessmentHandler(deps AssessmentDependencies) *AssessmentHandler {
	return &AssessmentHandler{deps: deps}
}

// HandleAssess handles POST /assessments. A subject with bad data still
// gets a structured result, sent with 422.
func (h *AssessmentHandler) HandleAssess(w http.ResponseWriter, r *http.Request) {
	const op = "api.assess"
	var req assessment.Request
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	res := h.deps.Assess(r.Context(), req)
	writeJSON(w, resultStatus(&res), res)
}

// HandleAssessBatch handles POST /assessments/batch. Results keep the
// order of the submitted subjects.
func (h *AssessmentHandler) HandleAssessBatch(w http.ResponseWriter, r *http.Request) {
	const op = "api.assess_batch"
	var req batchRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	out, err := h.deps.AssessBatch(r.Context(), req.Assessments)
	switch {
	case errors.Is(err, service.ErrEmptyBatch):
		writeError(w, http.StatusBadRequest, "empty_batch", WrapKind(op, ErrBadRequest, err))
		return
	case errors.Is(err, service.ErrBatchTooLarge):
		writeError(w, http.StatusRequestEntityTooLarge, "batch_too_large", WrapKind(op, ErrBadRequest, err))
		return
	case err != nil:
		writeError(w, http.StatusServiceUnavailable, "unavailable", WrapKind(op, ErrUnavailable, err))
		return
	}
	writeJSON(w, http.StatusOK, batchResponse{Results: out})
}

func resultStatus(res *assessment.Result) int {
	switch {
	case res.Success:
		return http.StatusOK
	case res.ErrorKind == assessment.KindInvalidSubjectData:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
