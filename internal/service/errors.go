package service

import "errors"

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrSavedNotFound   = errors.New("saved inspiration not found")
	// ErrPrecondition reports a no-op: the operation is not valid in the
	// current state and nothing was changed.
	ErrPrecondition = errors.New("operation not valid in current state")
	ErrDeclined     = errors.New("destructive action not confirmed")
	ErrStopped      = errors.New("app loop stopped")
)
