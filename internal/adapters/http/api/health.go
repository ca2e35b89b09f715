package api

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/okian/nutriscreen/pkg/metrics"
)

// Readiness reports whether the screening pipeline is running.
type Readiness interface {
	Started() bool
}

// HealthHandler handles health and metrics requests.
type HealthHandler struct {
	ready Readiness
}

// NewHealthHandler creates a new health handler. A nil ready always
// reports healthy.
func NewHealthHandler(ready Readiness) *HealthHandler {
	return &HealthHandler{ready: ready}
}

type healthResponse struct {
	Status string `json:"status"`
}

// HandleHealth handles GET /healthz. It returns 503 while the pipeline is
// not running.
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, _ *http.Request) {
	if h.ready != nil && !h.ready.Started() {
		writeJSON(w, http.StatusServiceUnavailable, healthResponse{Status: "starting"})
		return
	}
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok"})
}

// MetricsHandler serves the custom Prometheus registry.
func (h *HealthHandler) MetricsHandler() http.Handler {
	return promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{})
}
