// Package resilience provides the fixed-interval poller used to wait on
// asynchronous provider jobs.
//
// Poll sleeps for Interval, runs the check, and stops as soon as the check
// reports a terminal result, returns an error, or MaxAttempts checks have been
// made:
//
//	status, attempts, err := resilience.Poll(ctx, resilience.PollConfig{
//	    Interval:    2 * time.Second,
//	    MaxAttempts: 60,
//	}, func(ctx context.Context, attempt int) (Status, bool, error) {
//	    s, err := client.Status(ctx, jobID)
//	    return s, s.Terminal(), err
//	})
package resilience
