package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/okian/secondary/internal/domain/model"
)

const defaultRankingLimit = 25

// RankingsHandler handles ranking requests.
type RankingsHandler struct {
	deps     Dependencies
	maxLimit int
}

// NewRankingsHandler creates a new rankings handler.
func NewRankingsHandler(deps Dependencies, maxLimit int) *RankingsHandler {
	return &RankingsHandler{deps: deps, maxLimit: maxLimit}
}

// HandleGetRankings handles GET /rankings?position=CB&metric=composite&limit=N.
// position defaults to every group, metric to composite and limit to 25.
func (h *RankingsHandler) HandleGetRankings(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	metric := q.Get("metric")
	if metric == "" {
		metric = string(model.ScoreComposite)
	}
	n := min(defaultRankingLimit, h.maxLimit)
	if s := q.Get("limit"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < 1 {
			writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%w: limit %q", ErrBadRequest, s))
			return
		}
		if v > h.maxLimit {
			writeError(w, http.StatusBadRequest, "limit_exceeded", fmt.Errorf("%w: limit %d above %d", ErrBadRequest, v, h.maxLimit))
			return
		}
		n = v
	}
	entries, err := h.deps.TopN(r.Context(), q.Get("position"), metric, n)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}
