// Package errors provides standardized error handling for the delivery pipeline.
package errors

import (
	"errors"
	"fmt"
	"time"
)

// ErrorCode represents standardized internal error codes.
type ErrorCode string

// Delivery failure taxonomy. Every push attempt resolves to one of these or
// succeeds; none of them propagates as a fault past the delivery client.
const (
	ErrCodeMissingFCMToken    ErrorCode = "MISSING_FCM_TOKEN"
	ErrCodeFCMCredential      ErrorCode = "FCM_CREDENTIAL_ERROR"
	ErrCodeFCMTransport       ErrorCode = "FCM_TRANSPORT_ERROR"
	ErrCodeFCMRejected        ErrorCode = "FCM_REJECTED"
	ErrCodeDatabaseQuery      ErrorCode = "DATABASE_QUERY_FAILED"
	ErrCodeRecipientNotFound  ErrorCode = "RECIPIENT_NOT_FOUND"
	ErrCodeSweepLockHeld      ErrorCode = "SWEEP_LOCK_HELD"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode `json:"code"`
	Message   string    `json:"message"`
	Details   string    `json:"details,omitempty"`
	Retryable bool      `json:"retryable"`
	Timestamp time.Time `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// CodeOf extracts the error code, or "" for a plain error.
func CodeOf(err error) ErrorCode {
	var se *StandardError
	if errors.As(err, &se) {
		return se.Code
	}
	return ""
}

// IsRetryable reports whether a retry could plausibly succeed.
// Plain errors are treated as non-retryable.
func IsRetryable(err error) bool {
	var se *StandardError
	if errors.As(err, &se) {
		return se.Retryable
	}
	return false
}

// --- Constructors ---

// NewMissingTokenError marks a recipient with no registered device token.
// No credential or network work was attempted.
func NewMissingTokenError(recipientID int64) *StandardError {
	return &StandardError{
		Code:      ErrCodeMissingFCMToken,
		Message:   "Recipient has no FCM registration token",
		Details:   fmt.Sprintf("recipientId: %d", recipientID),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewCredentialError wraps a failure to obtain an OAuth2 access token.
func NewCredentialError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeFCMCredential,
		Message:   "Failed to get OAuth2 access token",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewTransportError wraps a network-level failure reaching FCM (timeout,
// DNS, connection reset).
func NewTransportError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeFCMTransport,
		Message:   "Network error calling FCM",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewRejectedError wraps a non-200 response from the FCM send endpoint.
func NewRejectedError(status int, detail string) *StandardError {
	return &StandardError{
		Code:      ErrCodeFCMRejected,
		Message:   fmt.Sprintf("FCM rejected the message with status %d", status),
		Details:   detail,
		Retryable: status >= 500,
		Timestamp: time.Now().UTC(),
	}
}

// NewDatabaseError wraps a failed query or exec.
func NewDatabaseError(operation string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeDatabaseQuery,
		Message:   fmt.Sprintf("Database operation failed: %s", operation),
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewRecipientNotFoundError marks a lookup for an unknown recipient.
func NewRecipientNotFoundError(recipientID int64) *StandardError {
	return &StandardError{
		Code:      ErrCodeRecipientNotFound,
		Message:   "Recipient not found",
		Details:   fmt.Sprintf("recipientId: %d", recipientID),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewSweepLockHeldError marks a reminder sweep skipped because another
// instance holds the sweep lock.
func NewSweepLockHeldError(key string) *StandardError {
	return &StandardError{
		Code:      ErrCodeSweepLockHeld,
		Message:   "Reminder sweep already running",
		Details:   fmt.Sprintf("lockKey: %s", key),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}
