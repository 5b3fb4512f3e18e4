package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/okian/activities/internal/domain/model"
	"github.com/okian/activities/pkg/logger"
)

// defaultChangesLimit applies when GET /changes has no limit parameter.
const defaultChangesLimit = 20

// ChangesDependencies defines the interface for reading the change feed.
type ChangesDependencies interface {
	Changes(ctx context.Context, limit int) ([]model.Change, error)
}

// ChangesHandler handles change feed requests.
type ChangesHandler struct {
	deps     ChangesDependencies
	maxLimit int
	logger   logger.Logger
}

// NewChangesHandler creates a new changes handler.
func NewChangesHandler(deps ChangesDependencies, maxLimit int, l logger.Logger) *ChangesHandler {
	if maxLimit < 1 {
		maxLimit = defaultChangesLimit
	}
	if l == nil {
		l = logger.Nop()
	}
	return &ChangesHandler{deps: deps, maxLimit: maxLimit, logger: l}
}

// HandleGetChanges handles GET /changes?limit=N requests.
func (h *ChangesHandler) HandleGetChanges(w http.ResponseWriter, r *http.Request) {
	n := min(defaultChangesLimit, h.maxLimit)
	if s := r.URL.Query().Get("limit"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < 1 || v > h.maxLimit {
			err = NewKind("api.changes", ErrBadRequest)
			writeProblem(w, statusFor(err), "limit must be an integer between 1 and "+strconv.Itoa(h.maxLimit))
			return
		}
		n = v
	}
	changes, err := h.deps.Changes(r.Context(), n)
	if err != nil {
		h.logger.Error(r.Context(), "reading changes failed", logger.Int("limit", n), logger.Error(err))
		writeProblem(w, statusFor(err), detailFor(err, "", ""))
		return
	}
	writeJSON(w, http.StatusOK, changes)
}
