// Package apperr holds the sentinel errors shared by the service and API
// layers.
package apperr

import "errors"

var (
	ErrNotFound      = errors.New("not found")
	ErrConflict      = errors.New("conflict")
	ErrAlreadyExists = errors.New("already exists")
	ErrBadInput      = errors.New("bad input")
)
