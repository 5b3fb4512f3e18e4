package repository

import (
	"errors"

	"github.com/okian/activities/internal/domain/model"
)

// Sentinel kinds for directory errors.
var (
	ErrActivityNotFound = model.ErrActivityNotFound
	ErrAlreadySignedUp  = model.ErrAlreadySignedUp
	ErrNotSignedUp      = model.ErrNotSignedUp
	ErrInvalidSeed      = errors.New("invalid seed catalog")
)
