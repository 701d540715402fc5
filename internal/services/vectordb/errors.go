// File: internal/services/vectordb/errors.go
package vectordb

import (
	"errors"
	"fmt"
)

// ErrCollectionNotFound signals that a conversation has no collection yet.
// Callers treat this as "zero results", not as a system fault.
var ErrCollectionNotFound = errors.New("vector collection not found")

type VectorDBError struct {
	Type    string
	Message string
	Err     error
}

func (e *VectorDBError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("vectordb %s error: %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("vectordb %s error: %s", e.Type, e.Message)
}

func (e *VectorDBError) Unwrap() error {
	return e.Err
}

func NewConnectionError(message string, err error) *VectorDBError {
	return &VectorDBError{Type: "connection", Message: message, Err: err}
}

func NewOperationError(message string, err error) *VectorDBError {
	return &VectorDBError{Type: "operation", Message: message, Err: err}
}

func NewConfigError(message string) *VectorDBError {
	return &VectorDBError{Type: "config", Message: message}
}

func NewTimeoutError(message string, err error) *VectorDBError {
	return &VectorDBError{Type: "timeout", Message: message, Err: err}
}
