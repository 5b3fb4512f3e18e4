package api

import (
	"context"
	"net/http"

	"github.com/okian/activities/internal/domain/types"
	"github.com/okian/activities/pkg/logger"
)

// ActivityDependencies defines the directory operations the handlers call.
type ActivityDependencies interface {
	List(ctx context.Context) Directory
	Signup(ctx context.Context, activity, email string) (string, error)
	Unregister(ctx context.Context, activity, email string) (string, error)
}

// ActivitiesHandler serves the activity directory.
type ActivitiesHandler struct {
	deps   ActivityDependencies
	logger logger.Logger
}

// NewActivitiesHandler creates a new activities handler.
func NewActivitiesHandler(deps ActivityDependencies, l logger.Logger) *ActivitiesHandler {
	if l == nil {
		l = logger.Nop()
	}
	return &ActivitiesHandler{deps: deps, logger: l}
}

// HandleList handles GET /activities.
func (h *ActivitiesHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.deps.List(r.Context()))
}

// HandleSignup handles POST /activities/{activity}/signup?email=.
func (h *ActivitiesHandler) HandleSignup(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, "api.signup", h.deps.Signup)
}

// HandleUnregister handles DELETE /activities/{activity}/unregister?email=.
func (h *ActivitiesHandler) HandleUnregister(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, "api.unregister", h.deps.Unregister)
}

type rosterOp func(ctx context.Context, activity, email string) (string, error)

// mutate runs a roster operation. The path value is already unescaped by
// the mux, so "Chess%20Club" arrives as "Chess Club".
func (h *ActivitiesHandler) mutate(w http.ResponseWriter, r *http.Request, op string, fn rosterOp) {
	activity := r.PathValue("activity")
	query := r.URL.Query()
	if !query.Has("email") {
		err := NewKind(op, ErrMissingEmail)
		writeProblem(w, statusFor(err), detailFor(err, activity, ""))
		return
	}
	email := query.Get("email")

	msg, err := fn(r.Context(), activity, email)
	if err != nil {
		status := statusFor(err)
		if status >= http.StatusInternalServerError {
			h.logger.Error(r.Context(), "roster operation failed", logger.String("op", op), logger.Error(err))
		}
		writeProblem(w, status, detailFor(err, activity, email))
		return
	}
	writeJSON(w, http.StatusOK, types.Message{Message: msg})
}
