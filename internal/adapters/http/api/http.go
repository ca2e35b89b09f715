// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/okian/nutriscreen/internal/domain/assessment"
	"github.com/okian/nutriscreen/internal/domain/types"
	"github.com/okian/nutriscreen/pkg/logger"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to the service implementation.
type Dependencies interface {
	AssessmentDependencies
	ScreeningDependencies
	StatsProvider
	Readiness
}

// Server wires HTTP routes for the screening API.
type Server struct {
	healthHandler     *HealthHandler
	statsHandler      *StatsHandler
	assessmentHandler *AssessmentHandler
	screeningHandler  *ScreeningHandler
	logger            logger.Logger
}

// NewServer creates a new API server with all handlers. maxTopLimit caps
// the limit accepted by GET /screenings/top.
func NewServer(deps Dependencies, maxTopLimit int) *Server {
	return &Server{
		healthHandler:     NewHealthHandler(deps),
		statsHandler:      NewStatsHandler(deps),
		assessmentHandler: NewAssessmentHandler(deps),
		screeningHandler:  NewScreeningHandler(deps, maxTopLimit),
		logger:            logger.Get().Named("api"),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.Handle("GET /metrics", s.healthHandler.MetricsHandler())
	mux.HandleFunc("GET /stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("POST /assessments", MetricsMiddleware(s.assessmentHandler.HandleAssess, "assessments"))
	mux.HandleFunc("POST /assessments/batch", MetricsMiddleware(s.assessmentHandler.HandleAssessBatch, "assessments_batch"))
	mux.HandleFunc("POST /screenings", MetricsMiddleware(s.screeningHandler.HandleSubmit, "screenings_submit"))
	mux.HandleFunc("GET /screenings/top", MetricsMiddleware(s.screeningHandler.HandleTopRisk, "screenings_top"))
	mux.HandleFunc("GET /screenings/{id}", MetricsMiddleware(s.screeningHandler.HandleGet, "screenings_get"))

	s.logger.Info(ctx, "api routes registered")
}

// batchRequest mirrors the OpenAPI schema for POST /assessments/batch.
type batchRequest struct {
	Assessments []assessment.Request `json:"assessments"`
}

type batchResponse struct {
	Results []assessment.Result `json:"results"`
}

// screeningRequest mirrors the OpenAPI schema for POST /screenings.
type screeningRequest struct {
	ScreeningID string `json:"screening_id,omitempty"`
	assessment.Request
}

type ackResponse struct {
	Status string `json:"status"`
	types.Submission
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

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	return json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v)
}
