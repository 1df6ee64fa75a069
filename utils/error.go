package utils

import "errors"

// ErrorRecordNotFound maps to 404 at the endpoint boundary. The message is
// the response detail.
var ErrorRecordNotFound = errors.New("Record not found.")

// ValidationError maps to 400 with the detail verbatim.
type ValidationError struct {
	Detail string
}

func (e *ValidationError) Error() string { return e.Detail }

func NewValidationError(detail string) *ValidationError {
	return &ValidationError{Detail: detail}
}

// ConflictError maps to 400; used for duplicate-email provisioning.
type ConflictError struct {
	Detail string
}

func (e *ConflictError) Error() string { return e.Detail }

func NewConflictError(detail string) *ConflictError {
	return &ConflictError{Detail: detail}
}
