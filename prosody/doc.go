// Package prosody submits audio to a batch emotion-inference API and waits
// for the job to finish.
//
// A job is created with Submit, polled with Status on a fixed interval and,
// once COMPLETED, its predictions are fetched as raw JSON for the emotion
// package to aggregate. SubmitAndAwait runs the whole sequence:
//
//	raw, err := client.SubmitAndAwait(ctx, payload)
//	switch {
//	case errors.Is(err, prosody.ErrJobFailed):
//	case errors.Is(err, prosody.ErrJobTimeout):
//	}
//
// Provider-side jobs are never cancelled; a cancelled context only stops
// the local wait.
package prosody
