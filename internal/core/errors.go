package core

import "errors"

var (
	// ErrInvalidInput rejects empty or non-text input before analysis.
	ErrInvalidInput = errors.New("invalid input")
	// ErrKeyNotFound is returned for truth lookups on a key never written.
	ErrKeyNotFound = errors.New("key not found")
	// ErrStorageUnavailable wraps every failure of the persistence collaborator.
	ErrStorageUnavailable = errors.New("storage unavailable")
)
