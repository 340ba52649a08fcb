package api

import (
	"net/http"
	"strings"

	"github.com/okian/secondary/internal/domain/model"
)

// PlayerHandler handles single-player requests.
type PlayerHandler struct {
	deps Dependencies
}

// NewPlayerHandler creates a new player handler.
func NewPlayerHandler(deps Dependencies) *PlayerHandler {
	return &PlayerHandler{deps: deps}
}

type playerResponse struct {
	Player          model.Result      `json:"player"`
	DraftPick       string            `json:"draft_pick"`
	PositionAverage model.ScoreValues `json:"position_average"`
}

// HandleGetPlayer handles GET /players/{id}. The response carries the
// player's position averages for side-by-side display.
func (h *PlayerHandler) HandleGetPlayer(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(r.PathValue("id"))
	if id == "" {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}
	p, err := h.deps.Player(r.Context(), id)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	resp := playerResponse{Player: p, DraftPick: p.Draft.Pick()}
	if p.PositionRecognized {
		if avg, err := h.deps.PositionAverages(r.Context(), p.Position); err == nil {
			resp.PositionAverage = avg
		}
	}
	writeJSON(w, http.StatusOK, resp)
}
