// Package repository holds the activity directory and the roster change history.
package repository

import (
	"context"

	"github.com/okian/activities/internal/domain/model"
)

// Store provides read/write access to the activity directory.
type Store interface {
	// List returns a deep copy of the whole directory.
	List(ctx context.Context) model.Directory

	// Get returns a copy of one activity. Returns ErrActivityNotFound if absent.
	Get(ctx context.Context, name string) (model.Activity, error)

	// Signup appends email to the roster of name and returns the change,
	// stamped while the roster is still locked.
	// Returns ErrActivityNotFound or ErrAlreadySignedUp.
	Signup(ctx context.Context, name, email string) (model.Change, error)

	// Unregister removes email from the roster of name and returns the change.
	// Returns ErrActivityNotFound or ErrNotSignedUp.
	Unregister(ctx context.Context, name, email string) (model.Change, error)

	// Reset restores the directory to its seed.
	Reset(ctx context.Context)

	// Count returns the number of activities and of roster entries.
	Count(ctx context.Context) (activities, participants int)
}
