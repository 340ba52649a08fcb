package api

import (
	"net/http"
)

// HealthHandler handles health check requests.
type HealthHandler struct {
	deps Dependencies
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(deps Dependencies) *HealthHandler {
	return &HealthHandler{deps: deps}
}

type healthResponse struct {
	Status  string `json:"status"`
	RunID   string `json:"run_id,omitempty"`
	Policy  string `json:"policy,omitempty"`
	Players int    `json:"players"`
}

// HandleHealth handles GET /healthz. It reports "starting" with 503 until a
// run has been published.
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	meta, err := h.deps.Meta(r.Context())
	if err != nil {
		writeJSON(w, http.StatusServiceUnavailable, healthResponse{Status: "starting"})
		return
	}
	writeJSON(w, http.StatusOK, healthResponse{
		Status:  "ok",
		RunID:   meta.RunID,
		Policy:  meta.Policy,
		Players: h.deps.Count(r.Context()),
	})
}
