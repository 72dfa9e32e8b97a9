package app

import "fmt"

// ErrorKind classifies a dispatcher failure the way a host process needs
// to react to it (spec §7): retry, reject, or surface to the client as a
// protocol bug.
type ErrorKind string

const (
	ErrNotFound          ErrorKind = "NOT_FOUND"
	ErrInvalidState      ErrorKind = "INVALID_STATE"
	ErrInvalidAction     ErrorKind = "INVALID_ACTION"
	ErrUnauthorized      ErrorKind = "UNAUTHORIZED"
	ErrConflict          ErrorKind = "CONFLICT"
	ErrProtocolViolation ErrorKind = "PROTOCOL_VIOLATION"
)

// AppError wraps a failure with the taxonomy spec §7 names, the way the
// teacher wraps domain sentinel errors before they reach an RPC boundary.
type AppError struct {
	Kind    ErrorKind
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *AppError) Unwrap() error { return e.Cause }

// NewAppError constructs an AppError of the given kind.
func NewAppError(kind ErrorKind, message string, cause error) *AppError {
	return &AppError{Kind: kind, Message: message, Cause: cause}
}

func notFound(format string, args ...any) *AppError {
	return NewAppError(ErrNotFound, fmt.Sprintf(format, args...), nil)
}

func invalidState(format string, args ...any) *AppError {
	return NewAppError(ErrInvalidState, fmt.Sprintf(format, args...), nil)
}

func invalidAction(format string, args ...any) *AppError {
	return NewAppError(ErrInvalidAction, fmt.Sprintf(format, args...), nil)
}

func unauthorized(format string, args ...any) *AppError {
	return NewAppError(ErrUnauthorized, fmt.Sprintf(format, args...), nil)
}

func conflict(format string, args ...any) *AppError {
	return NewAppError(ErrConflict, fmt.Sprintf(format, args...), nil)
}

func protocolViolation(format string, args ...any) *AppError {
	return NewAppError(ErrProtocolViolation, fmt.Sprintf(format, args...), nil)
}
