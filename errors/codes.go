package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Validation errors
const (
	// ErrCodeInvalidInput indicates the input is invalid.
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
	// ErrCodeMissingField indicates a required field or upload is missing.
	ErrCodeMissingField ErrorCode = "MISSING_FIELD"
	// ErrCodePayloadTooLarge indicates an upload exceeded the configured limit.
	ErrCodePayloadTooLarge ErrorCode = "PAYLOAD_TOO_LARGE"
)

// Upstream errors
const (
	// ErrCodeUpstream indicates a provider answered with a non-success status.
	ErrCodeUpstream ErrorCode = "UPSTREAM_ERROR"
	// ErrCodeUpstreamUnavailable indicates a provider could not be reached or
	// reported that the capability is not loaded.
	ErrCodeUpstreamUnavailable ErrorCode = "UPSTREAM_UNAVAILABLE"
	// ErrCodeJobFailed indicates a batch job reached the FAILED state.
	ErrCodeJobFailed ErrorCode = "JOB_FAILED"
	// ErrCodeJobTimeout indicates a batch job never reached a terminal state
	// within the polling budget.
	ErrCodeJobTimeout ErrorCode = "JOB_TIMEOUT"
)

// Internal errors
const (
	// ErrCodeInternal indicates an internal server error.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

var retryableCodes = map[ErrorCode]bool{
	ErrCodeUpstreamUnavailable: true,
	ErrCodeJobTimeout:          true,
	ErrCodeUpstream:            true,
	ErrCodeJobFailed:           false,
	ErrCodeInternal:            false,
}

// IsRetryableCode returns true if the error code indicates a retryable error.
func IsRetryableCode(code ErrorCode) bool {
	return retryableCodes[code]
}
