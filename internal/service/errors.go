package service

import (
	"fmt"
	"time"
)

// ErrorCode is the stable machine-readable failure taxonomy for the
// resolution pipeline.
type ErrorCode string

const (
	CodeEmptyInput         ErrorCode = "EMPTY_INPUT"
	CodeAliasNotFound      ErrorCode = "ALIAS_NOT_FOUND"
	CodeInvalidToken       ErrorCode = "INVALID_TOKEN"
	CodeInactiveToken      ErrorCode = "INACTIVE_TOKEN"
	CodeExpiredToken       ErrorCode = "EXPIRED_TOKEN"
	CodeViewLimitExceeded  ErrorCode = "VIEW_LIMIT_EXCEEDED"
	CodeRateLimited        ErrorCode = "RATE_LIMITED"
	CodeScopeViolation     ErrorCode = "SCOPE_VIOLATION"
	CodeNoSafePath         ErrorCode = "NO_SAFE_PATH"
	CodeNetworkError       ErrorCode = "NETWORK_ERROR"
	CodeUnexpectedResponse ErrorCode = "UNEXPECTED_RESPONSE"
)

// AccessError is a terminal pipeline failure. Messages are stable and
// never reveal whether a token existed versus was revoked.
type AccessError struct {
	Code       ErrorCode
	Message    string
	RetryAfter time.Duration
	cause      error
}

func (e *AccessError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AccessError) Unwrap() error {
	return e.cause
}

func newAccessError(code ErrorCode, message string) *AccessError {
	return &AccessError{Code: code, Message: message}
}

func wrapAccessError(code ErrorCode, message string, cause error) *AccessError {
	return &AccessError{Code: code, Message: message, cause: cause}
}

// Stable user-facing failures. Invalid, inactive and expired all read
// differently internally but none of them confirm token existence.
var (
	errEmptyInput    = newAccessError(CodeEmptyInput, "no credential provided")
	errAliasNotFound = newAccessError(CodeAliasNotFound, "gallery code not recognized")
	errInvalidToken  = newAccessError(CodeInvalidToken, "access link is not valid")
	errInactiveToken = newAccessError(CodeInactiveToken, "access link is no longer active")
	errExpiredToken  = newAccessError(CodeExpiredToken, "access link has expired")
	errViewLimit     = newAccessError(CodeViewLimitExceeded, "access link has reached its view limit")
	errNoSafePath    = newAccessError(CodeNoSafePath, "no servable rendition for this photo")
)

func errRateLimited(retryAfter time.Duration) *AccessError {
	return &AccessError{
		Code:       CodeRateLimited,
		Message:    "too many requests, slow down",
		RetryAfter: retryAfter,
	}
}
