package api

import (
	"net/http"
)

// CategoriesHandler handles category distribution requests.
type CategoriesHandler struct {
	deps Dependencies
}

// NewCategoriesHandler creates a new categories handler.
func NewCategoriesHandler(deps Dependencies) *CategoriesHandler {
	return &CategoriesHandler{deps: deps}
}

// HandleGetCategories handles GET /categories?position=SAF.
func (h *CategoriesHandler) HandleGetCategories(w http.ResponseWriter, r *http.Request) {
	counts, err := h.deps.Categories(r.Context(), r.URL.Query().Get("position"))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, counts)
}
