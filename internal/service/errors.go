package service

import "errors"

var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")

	// ErrDegraded marks a gateway result produced through the fallback
	// path after a transport or configuration failure. The result is
	// still usable; the error only tells the HTTP layer to answer 500.
	ErrDegraded = errors.New("provider unavailable")
)
