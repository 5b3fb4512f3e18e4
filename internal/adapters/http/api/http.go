// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/okian/activities/internal/domain/model"
	"github.com/okian/activities/internal/domain/types"
	"github.com/okian/activities/pkg/logger"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	ActivityDependencies
	ChangesDependencies
	StatsProvider
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler     *HealthHandler
	statsHandler      *StatsHandler
	activitiesHandler *ActivitiesHandler
	changesHandler    *ChangesHandler
	logger            logger.Logger
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, maxChangesLimit int, l logger.Logger) *Server {
	if l == nil {
		l = logger.Nop()
	}
	l = l.Named("api")
	return &Server{
		healthHandler:     NewHealthHandler(),
		statsHandler:      NewStatsHandler(deps),
		activitiesHandler: NewActivitiesHandler(deps, l),
		changesHandler:    NewChangesHandler(deps, maxChangesLimit, l),
		logger:            l,
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}
	mux.HandleFunc("GET /activities", MetricsMiddleware(s.activitiesHandler.HandleList, "activities"))
	mux.HandleFunc("POST /activities/{activity}/signup", MetricsMiddleware(s.activitiesHandler.HandleSignup, "signup"))
	mux.HandleFunc("DELETE /activities/{activity}/unregister", MetricsMiddleware(s.activitiesHandler.HandleUnregister, "unregister"))
	mux.HandleFunc("GET /changes", MetricsMiddleware(s.changesHandler.HandleGetChanges, "changes"))
	mux.HandleFunc("GET /stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("GET /healthz", s.healthHandler.HandleHealth)
	mux.Handle("GET /metrics", s.healthHandler.MetricsHandler())
}

// Directory is the JSON shape of GET /activities.
type Directory = model.Directory

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeProblem(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, types.Problem{Detail: detail})
}
