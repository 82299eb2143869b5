package services

import "errors"

var (
	// ErrProviderUnavailable means a metric source could not be read
	ErrProviderUnavailable = errors.New("metrics provider unavailable")
	// ErrProcessNotFound means the requested pid does not exist
	ErrProcessNotFound = errors.New("process not found")
	// ErrPermissionDenied means the monitor lacks the privilege for an action
	ErrPermissionDenied = errors.New("permission denied")
	// ErrInvalidInput means a caller supplied a malformed or missing value
	ErrInvalidInput = errors.New("invalid input")
	// ErrPersistence means the audit log could not be written
	ErrPersistence = errors.New("persistence failure")
)
