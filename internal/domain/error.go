package domain

import "errors"

var (
	// Common domain errors
	ErrAuthentication = errors.New("missing or rejected credential")
	ErrValidation     = errors.New("invalid submission")
	ErrTransport      = errors.New("transport failure")
	ErrNotFound       = errors.New("job not found")
	ErrJobFailed      = errors.New("job failed in remote backend")
	ErrTimeout        = errors.New("polling deadline exceeded")
)
