package service

import "errors"

// Sentinel kinds for service errors.
var (
	ErrInvalidLimit = errors.New("invalid changes limit")
)
