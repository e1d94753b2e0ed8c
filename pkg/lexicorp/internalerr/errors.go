package internalerr

import "errors"

// Sentinel errors for common cases
var (
	ErrNotFound      = errors.New("not found")
	ErrInvalidInput  = errors.New("invalid input")
	ErrInvalidConfig = errors.New("invalid configuration")
	ErrTransport     = errors.New("transport failure")
	ErrUnknownToken  = errors.New("unknown token")
	ErrPersistence   = errors.New("persistence failure")
	ErrCorrupt       = errors.New("corrupt persisted state")
)
