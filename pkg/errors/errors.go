package errors

import (
	stderrors "errors"
	"fmt"
)

type AppError struct {
	Code     string
	Message  string
	Entity   string
	EntityID uint
	Err      error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func New(code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

func Wrap(err error, code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// NotFound reports a missing entity of the given kind ("user", "film", ...).
func NotFound(entity string, id uint) *AppError {
	return &AppError{
		Code:     ErrCodeNotFound,
		Message:  fmt.Sprintf("%s %d not found", entity, id),
		Entity:   entity,
		EntityID: id,
	}
}

func InvalidArgument(format string, args ...interface{}) *AppError {
	return New(ErrCodeInvalidArgument, fmt.Sprintf(format, args...))
}

func Internal(err error, message string) *AppError {
	return Wrap(err, ErrCodeInternalError, message)
}

// Common error codes
const (
	ErrCodeValidation      = "VALIDATION_ERROR"
	ErrCodeInvalidArgument = "INVALID_ARGUMENT"
	ErrCodeNotFound        = "NOT_FOUND"
	ErrCodeAlreadyExists   = "ALREADY_EXISTS"
	ErrCodeInternalError   = "INTERNAL_ERROR"
)

// CodeOf returns the code of the first AppError in err's chain, or
// ErrCodeInternalError for anything else.
func CodeOf(err error) string {
	if err == nil {
		return ""
	}
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code
	}
	return ErrCodeInternalError
}

func IsNotFound(err error) bool {
	return CodeOf(err) == ErrCodeNotFound
}

func IsInvalidArgument(err error) bool {
	code := CodeOf(err)
	return code == ErrCodeInvalidArgument || code == ErrCodeValidation
}

func IsConflict(err error) bool {
	return CodeOf(err) == ErrCodeAlreadyExists
}

// IsExpected reports whether err is a caller-triggered condition that must
// not be logged as an error.
func IsExpected(err error) bool {
	return IsNotFound(err) || IsInvalidArgument(err) || IsConflict(err)
}

// PublicMessage is the text a request layer may show to its client. Internal
// details never leak through it.
func PublicMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case IsNotFound(err):
		return "entity not found"
	case IsInvalidArgument(err):
		return "bad request"
	case IsConflict(err):
		return "conflict"
	default:
		return "internal error"
	}
}
