// Package api serves the ranking read model over HTTP.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/okian/secondary/internal/adapters/repository"
	"github.com/okian/secondary/internal/domain/model"
	"github.com/okian/secondary/internal/domain/types"
	"github.com/okian/secondary/pkg/metrics"
)

// Dependencies required by HTTP handlers.
type Dependencies interface {
	TopN(ctx context.Context, position, metric string, n int) ([]Entry, error)
	Player(ctx context.Context, id string) (model.Result, error)
	Categories(ctx context.Context, position string) ([]repository.CategoryCount, error)
	PositionAverages(ctx context.Context, position string) (model.ScoreValues, error)
	Meta(ctx context.Context) (repository.Meta, error)
	Count(ctx context.Context) int
}

// Entry mirrors the read shape returned by ranking queries.
type Entry = types.Entry

// Server wires HTTP routes for the read API.
type Server struct {
	healthHandler     *HealthHandler
	rankingsHandler   *RankingsHandler
	playerHandler     *PlayerHandler
	categoriesHandler *CategoriesHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, maxLimit int) *Server {
	return &Server{
		healthHandler:     NewHealthHandler(deps),
		rankingsHandler:   NewRankingsHandler(deps, maxLimit),
		playerHandler:     NewPlayerHandler(deps),
		categoriesHandler: NewCategoriesHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.Handle("GET /metrics", promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{}))
	mux.HandleFunc("GET /rankings", MetricsMiddleware(s.rankingsHandler.HandleGetRankings, "rankings"))
	mux.HandleFunc("GET /players/{id}", MetricsMiddleware(s.playerHandler.HandleGetPlayer, "players"))
	mux.HandleFunc("GET /categories", MetricsMiddleware(s.categoriesHandler.HandleGetCategories, "categories"))
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

// writeStoreError maps repository errors onto HTTP statuses.
func writeStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", err)
	case errors.Is(err, repository.ErrInvalidLimit):
		writeError(w, http.StatusBadRequest, "limit_exceeded", err)
	case errors.Is(err, repository.ErrUnknownMetric):
		writeError(w, http.StatusBadRequest, "unknown_metric", err)
	case errors.Is(err, repository.ErrNotReady):
		writeError(w, http.StatusServiceUnavailable, "not_ready", err)
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err)
	}
}
