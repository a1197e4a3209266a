package domain

import "errors"

// Shared sentinel errors. Services return these unwrapped or wrapped with
// fmt.Errorf("%w: ...") so the delivery layer can map them with errors.Is.
var (
	ErrNotFound     = errors.New("requested item not found")
	ErrForbidden    = errors.New("you do not have permission to perform this action")
	ErrInvalidInput = errors.New("invalid input")
)
