package model

import "errors"

// Roster errors. Every failed directory operation wraps exactly one of these.
var (
	ErrActivityNotFound = errors.New("activity not found")
	ErrAlreadySignedUp  = errors.New("already signed up")
	ErrNotSignedUp      = errors.New("not registered")
)
