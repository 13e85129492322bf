package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// AppError is the unified application error type.
type AppError struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Message is the human-readable summary sent as the "error" field.
	Message string `json:"error"`
	// Detail is an optional longer explanation sent as the "details" field.
	// When empty, the cause's message is used instead.
	Detail string `json:"details,omitempty"`
	// Retryable indicates if the operation can be retried.
	Retryable bool `json:"-"`
	// HTTPStatus is the recommended HTTP status code for this error.
	HTTPStatus int `json:"-"`
	// Details contains structured context for logs.
	Details map[string]any `json:"-"`
	// Cause is the underlying error that caused this error.
	Cause error `json:"-"`
}

// Error returns the string representation of the error.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	if e.Detail != "" {
		return fmt.Sprintf("%s: %s: %s", e.Code, e.Message, e.Detail)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *AppError) Unwrap() error { return e.Cause }

// WithCause sets the underlying cause of the error and returns the receiver.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithDetail sets a single structured detail and returns the receiver.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New creates a new AppError with automatic retryable detection.
func New(code ErrorCode, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Retryable:  IsRetryableCode(code),
	}
}

// --- Validation ---

// Validation creates a 400 error with the given message.
func Validation(message string) *AppError {
	return &AppError{
		Code: ErrCodeInvalidInput, Message: message,
		HTTPStatus: http.StatusBadRequest,
	}
}

// InvalidInput creates a 400 error naming the offending field.
func InvalidInput(field, reason string) *AppError {
	return &AppError{
		Code: ErrCodeInvalidInput, Message: fmt.Sprintf("Invalid %s", field), Detail: reason,
		HTTPStatus: http.StatusBadRequest,
		Details:    map[string]any{"field": field},
	}
}

// MissingField creates a 400 error for a missing required field or upload.
func MissingField(field, message string) *AppError {
	return &AppError{
		Code: ErrCodeMissingField, Message: message,
		HTTPStatus: http.StatusBadRequest,
		Details:    map[string]any{"field": field},
	}
}

// PayloadTooLarge creates a 400 error for an upload above the size limit.
func PayloadTooLarge(size, limit int64) *AppError {
	return &AppError{
		Code:       ErrCodePayloadTooLarge,
		Message:    "File too large",
		Detail:     fmt.Sprintf("upload is %d bytes, limit is %d bytes", size, limit),
		HTTPStatus: http.StatusBadRequest,
		Details:    map[string]any{"size": size, "limit": limit},
	}
}

// --- Upstream ---

// Upstream creates an error for a provider that answered with a failure.
// message is the provider's own explanation when one was available.
func Upstream(service, message string, cause error) *AppError {
	if message == "" {
		message = fmt.Sprintf("%s request failed", service)
		if cause != nil {
			message = fmt.Sprintf("%s request failed: %v", service, cause)
		}
	}
	return &AppError{
		Code: ErrCodeUpstream, Message: message,
		HTTPStatus: http.StatusInternalServerError, Retryable: true,
		Details: map[string]any{"service": service}, Cause: cause,
	}
}

// UpstreamUnavailable creates an error for a provider that could not serve
// the request at all.
func UpstreamUnavailable(service, message string, cause error) *AppError {
	if message == "" {
		message = fmt.Sprintf("%s is not available", service)
		if cause != nil {
			message = fmt.Sprintf("%s is not available: %v", service, cause)
		}
	}
	return &AppError{
		Code: ErrCodeUpstreamUnavailable, Message: message,
		HTTPStatus: http.StatusServiceUnavailable, Retryable: true,
		Details: map[string]any{"service": service}, Cause: cause,
	}
}

// JobFailed creates an error for a batch job the provider marked FAILED.
func JobFailed(jobID, providerMessage string) *AppError {
	return &AppError{
		Code: ErrCodeJobFailed, Message: "Hume job failed: " + providerMessage,
		HTTPStatus: http.StatusInternalServerError,
		Details:    map[string]any{"job_id": jobID},
	}
}

// JobTimeout creates an error for a batch job that did not finish in time.
func JobTimeout(jobID string, attempts int) *AppError {
	return &AppError{
		Code: ErrCodeJobTimeout, Message: "Analysis timeout - job did not complete in time",
		HTTPStatus: http.StatusInternalServerError, Retryable: true,
		Details: map[string]any{"job_id": jobID, "attempts": attempts},
	}
}

// --- Internal ---

// Internal creates a new AppError for an internal server error.
func Internal(cause error) *AppError {
	return &AppError{
		Code: ErrCodeInternal, Message: "An unexpected error occurred",
		HTTPStatus: http.StatusInternalServerError, Cause: cause,
	}
}

// Wrap converts any error into an AppError. AppErrors anywhere in the chain
// are returned as-is; anything else becomes an internal error.
func Wrap(err error) *AppError {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr
	}
	return Internal(err)
}

// ForOperation prepares err for the client of a named operation. Client
// errors (4xx) keep their own message. Everything else is reported with op as
// the message and the underlying failure as details, so callers see
// {"error": "Failed to analyze audio", "details": "Hume job failed: ..."}.
func ForOperation(op string, err error) *AppError {
	appErr := Wrap(err)
	if appErr == nil || appErr.HTTPStatus < http.StatusInternalServerError {
		return appErr
	}
	return &AppError{
		Code:       appErr.Code,
		Message:    op,
		Detail:     appErr.detailText(true),
		Retryable:  appErr.Retryable,
		HTTPStatus: appErr.HTTPStatus,
		Details:    appErr.Details,
		Cause:      appErr,
	}
}

// detailText returns what is sent as "details". withMessage is set when
// another message replaces this error's own, which then leads the details.
func (e *AppError) detailText(withMessage bool) string {
	if withMessage {
		if e.Code == ErrCodeInternal && e.Cause != nil {
			return e.Cause.Error()
		}
		if e.Detail != "" {
			return e.Message + ": " + e.Detail
		}
		return e.Message
	}
	if e.Detail != "" {
		return e.Detail
	}
	if e.Cause != nil {
		return e.Cause.Error()
	}
	return ""
}
