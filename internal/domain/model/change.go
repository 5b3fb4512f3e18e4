package model

import (
	"time"

	"github.com/google/uuid"
)

// ChangeKind names the roster transition a Change records.
type ChangeKind string

// Roster transitions.
const (
	ChangeSignup     ChangeKind = "signup"
	ChangeUnregister ChangeKind = "unregister"
)

// Change records one successful roster mutation.
type Change struct {
	ID       string     `json:"id"`
	Kind     ChangeKind `json:"kind"`
	Activity string     `json:"activity"`
	Email    string     `json:"email"`
	At       time.Time  `json:"at"`
}

// NewChange stamps a change with a fresh id and the current UTC time.
func NewChange(kind ChangeKind, activity, email string) Change {
	return Change{
		ID:       uuid.NewString(),
		Kind:     kind,
		Activity: activity,
		Email:    email,
		At:       time.Now().UTC(),
	}
}
