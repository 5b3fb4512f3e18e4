package api

import (
	"errors"
	"net/http"

	"github.com/okian/activities/internal/domain/model"
)

// Sentinel kinds for API errors.
var (
	ErrBadRequest   = errors.New("bad request")
	ErrMissingEmail = errors.New("email query parameter is required")
)

// kindError tags an underlying error with the operation that failed and a
// kind sentinel, so callers can match either with errors.Is.
type kindError struct {
	op   string
	kind error
	err  error
}

func (e *kindError) Error() string {
	if e.err == nil || e.err == e.kind {
		return e.op + ": " + e.kind.Error()
	}
	return e.op + ": " + e.kind.Error() + ": " + e.err.Error()
}

func (e *kindError) Unwrap() []error {
	if e.err == nil {
		return []error{e.kind}
	}
	return []error{e.kind, e.err}
}

// NewKind returns an error of the given kind raised by op.
func NewKind(op string, kind error) error {
	return &kindError{op: op, kind: kind}
}

// WrapKind tags err with op and kind.
func WrapKind(op string, kind, err error) error {
	return &kindError{op: op, kind: kind, err: err}
}

// statusFor maps an error to its HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, model.ErrActivityNotFound):
		return http.StatusNotFound
	case errors.Is(err, model.ErrAlreadySignedUp), errors.Is(err, model.ErrNotSignedUp):
		return http.StatusBadRequest
	case errors.Is(err, ErrMissingEmail):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ErrBadRequest):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// detailFor renders the human-readable detail for a roster error.
func detailFor(err error, activity, email string) string {
	switch {
	case errors.Is(err, model.ErrActivityNotFound):
		return "Activity not found"
	case errors.Is(err, model.ErrAlreadySignedUp):
		return email + " is already signed up for " + activity
	case errors.Is(err, model.ErrNotSignedUp):
		return email + " is not registered for " + activity
	case errors.Is(err, ErrMissingEmail):
		return ErrMissingEmail.Error()
	default:
		return http.StatusText(statusFor(err))
	}
}
