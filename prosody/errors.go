package prosody

import (
	"errors"

	apperrors "github.com/kbukum/voicelens/errors"
)

var (
	// ErrJobFailed matches errors for jobs the provider marked FAILED.
	ErrJobFailed = errors.New("prosody job failed")
	// ErrJobTimeout matches errors for jobs that were still running after
	// the last allowed status check.
	ErrJobTimeout = errors.New("prosody job timed out")
)

func jobFailed(jobID, message string) error {
	return apperrors.JobFailed(jobID, message).WithCause(ErrJobFailed)
}

func jobTimeout(jobID string, attempts int) error {
	return apperrors.JobTimeout(jobID, attempts).WithCause(ErrJobTimeout)
}
