package service

import "errors"

// Error kinds surfaced to the HTTP layer. Wrap them with fmt.Errorf("%w: ...").
var (
	ErrNotFound     = errors.New("not found")
	ErrBadRequest   = errors.New("bad request")
	ErrUnauthorized = errors.New("unauthorized")
	ErrConflict     = errors.New("conflict")
	ErrInternal     = errors.New("internal error")
)
