package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError is a structured error that maps to HTTP responses.
type AppError struct {
	Code       string `json:"error_code"`
	Message    string `json:"message"`
	HTTPStatus int    `json:"-"`
	Err        error  `json:"-"` // Wrapped internal error (not exposed to client)
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

// New creates a new AppError.
func New(code string, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

// Wrap wraps an internal error with an AppError.
func Wrap(code string, message string, httpStatus int, err error) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Err:        err,
	}
}

// Error codes. Each code is one error kind callers can branch on.
const (
	CodeValidation          = "VAL_001"
	CodeCapExceeded         = "CAP_001"
	CodeDuplicateDetected   = "DUP_001"
	CodeInsufficientBalance = "BAL_001"
	CodeNotFound            = "NF_001"
	CodeNotReversible       = "AUD_001"
	CodeSuspiciousActivity  = "FRD_001"
	CodeStorageUnavailable  = "SYS_001"
	CodeStorageConflict     = "SYS_002"
	CodeInvalidToken        = "AUTH_001"
	CodeForbidden           = "AUTH_002"
	CodeRateLimitExceeded   = "RATE_001"
)

// Is reports whether err carries an AppError with the given code.
func Is(err error, code string) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// IsRejection reports whether err is a business rejection: a normal,
// non-retryable outcome that took no side effect.
func IsRejection(err error) bool {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		return false
	}
	switch appErr.Code {
	case CodeStorageUnavailable, CodeStorageConflict:
		return false
	}
	return true
}

// ---- Ledger rejections ----

// Validation returns a VAL_001 error for malformed input.
func Validation(message string) *AppError {
	return New(CodeValidation, message, http.StatusBadRequest)
}

func ErrInvalidAmount() *AppError {
	return Validation("Amount must be a positive integer")
}

func ErrCapExceeded(message string) *AppError {
	return New(CodeCapExceeded, message, http.StatusUnprocessableEntity)
}

func ErrDuplicateDetected(message string) *AppError {
	return New(CodeDuplicateDetected, message, http.StatusConflict)
}

func ErrInsufficientBalance() *AppError {
	return New(CodeInsufficientBalance, "Insufficient HealCoin balance", http.StatusPaymentRequired)
}

func ErrNotFound(entity string) *AppError {
	return New(CodeNotFound, fmt.Sprintf("%s not found", entity), http.StatusNotFound)
}

func ErrNotReversible(message string) *AppError {
	return New(CodeNotReversible, message, http.StatusConflict)
}

func ErrSuspiciousActivity(reason string) *AppError {
	return New(CodeSuspiciousActivity, reason, http.StatusForbidden)
}

// ---- Authentication (AUTH) ----

func ErrInvalidToken() *AppError {
	return New(CodeInvalidToken, "Invalid or expired token", http.StatusUnauthorized)
}

func ErrForbidden() *AppError {
	return New(CodeForbidden, "Insufficient permissions", http.StatusForbidden)
}

// ---- Rate Limiting (RATE) ----

func ErrRateLimitExceeded() *AppError {
	return New(CodeRateLimitExceeded, "Rate limit exceeded", http.StatusTooManyRequests)
}

// ---- Storage (SYS) ----

// ErrStorageConflict marks a concurrent write collision. It is retried
// internally and never reaches a caller unless retries are exhausted.
func ErrStorageConflict(err error) *AppError {
	return Wrap(CodeStorageConflict, "Concurrent update conflict", http.StatusConflict, err)
}

// ErrStorageUnavailable is the only fatal kind: the operation was not applied.
func ErrStorageUnavailable(err error) *AppError {
	return Wrap(CodeStorageUnavailable, "Storage temporarily unavailable", http.StatusServiceUnavailable, err)
}

// InternalError wraps an internal error as a SYS_001 error.
func InternalError(err error) *AppError {
	return ErrStorageUnavailable(err)
}
