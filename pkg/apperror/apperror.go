package apperror

import (
	"errors"
	"fmt"
)

// Code identifies the kind of an application error.
type Code int

const (
	CodeValidation Code = iota + 1000
	CodeNotFound
	CodeInvalidTransition
	CodeConflict
	CodeInternal
)

// AppError represents an application error
type AppError struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is reports a match for the kind sentinels below: a target without a message
// matches every error carrying the same code.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	if t.Message == "" {
		return e.Code == t.Code
	}
	return e == t
}

// Kind sentinels, usable with errors.Is.
var (
	ErrValidation        = &AppError{Code: CodeValidation}
	ErrNotFound          = &AppError{Code: CodeNotFound}
	ErrInvalidTransition = &AppError{Code: CodeInvalidTransition}
	ErrConflict          = &AppError{Code: CodeConflict}
	ErrInternal          = &AppError{Code: CodeInternal}
)

func New(code Code, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

func Wrap(code Code, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

func Validation(message string) *AppError {
	return New(CodeValidation, message)
}

func NotFound(resource string) *AppError {
	return New(CodeNotFound, fmt.Sprintf("%s not found", resource))
}

func InvalidTransition(message string) *AppError {
	return New(CodeInvalidTransition, message)
}

func Conflict(message string, err error) *AppError {
	return Wrap(CodeConflict, message, err)
}

func Internal(err error) *AppError {
	return Wrap(CodeInternal, "internal server error", err)
}

// CodeOf returns the code of the first AppError in err's chain, CodeInternal otherwise.
func CodeOf(err error) Code {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeInternal
}
