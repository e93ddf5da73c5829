package common

import (
	"errors"
	"fmt"
)

// AppError carries a machine-readable code alongside the wrapped cause.
type AppError struct {
	Code    string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// WrapError wraps an underlying error with a code and message.
func WrapError(code, message string, err error) error {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// NewError creates a new coded error without a cause.
func NewError(code, message string) error {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Error codes.
const (
	ErrCodeGitHubAPI    = "GITHUB_API_ERROR"
	ErrCodeRateLimited  = "RATE_LIMITED"
	ErrCodeReadmeParse  = "README_PARSE_ERROR"
	ErrCodeIO           = "IO_ERROR"
	ErrCodeInvalidInput = "INVALID_INPUT"
)

// IsRateLimited reports whether err (or anything it wraps) is the
// rate-limit condition that a run recovers from by skipping a query.
func IsRateLimited(err error) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == ErrCodeRateLimited
	}
	return false
}
