package exam

import "errors"

// Error taxonomy surfaced to callers. Every failure is a caller mistake or a
// legitimate timing condition; nothing is retried or recovered internally.
var (
	ErrNotFound     = errors.New("exam not found")
	ErrConflict     = errors.New("exam already exists")
	ErrInvalidInput = errors.New("invalid input")
	ErrWindowClosed = errors.New("submission window closed")
)
