// File: internal/services/chat/errors.go
package chat

import "fmt"

// ChatError wraps failures of a conversational turn with the step that
// produced them.
type ChatError struct {
	Step    string // "history", "retrieval", "generation", "persistence"
	Message string
	Cause   error
}

func (e *ChatError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("chat %s error: %s: %v", e.Step, e.Message, e.Cause)
	}
	return fmt.Sprintf("chat %s error: %s", e.Step, e.Message)
}

func (e *ChatError) Unwrap() error {
	return e.Cause
}

func NewHistoryError(msg string, cause error) *ChatError {
	return &ChatError{Step: "history", Message: msg, Cause: cause}
}

func NewRetrievalError(msg string, cause error) *ChatError {
	return &ChatError{Step: "retrieval", Message: msg, Cause: cause}
}

func NewGenerationError(msg string, cause error) *ChatError {
	return &ChatError{Step: "generation", Message: msg, Cause: cause}
}

func NewPersistenceError(msg string, cause error) *ChatError {
	return &ChatError{Step: "persistence", Message: msg, Cause: cause}
}
