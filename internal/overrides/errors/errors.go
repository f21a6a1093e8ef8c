package errors

import "errors"

var (
	ErrNotFound  = errors.New("override not found")
	ErrInvalidID = errors.New("invalid override ID format")
)
