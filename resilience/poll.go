package resilience

import (
	"context"
	"errors"
	"time"
)

// ErrPollExhausted is returned when MaxAttempts checks ran without a terminal result.
var ErrPollExhausted = errors.New("poll attempts exhausted")

// SleepFunc waits for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

// PollConfig configures Poll.
type PollConfig struct {
	// Interval is the fixed delay before every check.
	Interval time.Duration
	// MaxAttempts is the number of checks made before giving up.
	MaxAttempts int
	// Sleep replaces the context-aware timer. Tests inject a fake clock here.
	Sleep SleepFunc
	// OnAttempt is called after every non-terminal check.
	OnAttempt func(attempt int)
}

// DefaultPollConfig returns a 2s interval with a 60 attempt ceiling.
func DefaultPollConfig() PollConfig {
	return PollConfig{
		Interval:    2 * time.Second,
		MaxAttempts: 60,
	}
}

// CheckFunc performs one poll. done reports that result is terminal.
type CheckFunc[T any] func(ctx context.Context, attempt int) (result T, done bool, err error)

// Poll runs check on a fixed interval until it reports done, fails, the
// context ends, or MaxAttempts checks have been made. It returns the last
// result and the number of checks performed. When the budget is exhausted the
// last non-terminal result is returned together with ErrPollExhausted.
func Poll[T any](ctx context.Context, cfg PollConfig, check CheckFunc[T]) (T, int, error) {
	var last T

	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 60
	}
	if cfg.Interval < 0 {
		cfg.Interval = 0
	}
	sleep := cfg.Sleep
	if sleep == nil {
		sleep = SleepContext
	}

	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		if err := sleep(ctx, cfg.Interval); err != nil {
			return last, attempt - 1, err
		}

		result, done, err := check(ctx, attempt)
		last = result
		if err != nil {
			return last, attempt, err
		}
		if done {
			return last, attempt, nil
		}
		if cfg.OnAttempt != nil {
			cfg.OnAttempt(attempt)
		}
	}

	return last, cfg.MaxAttempts, ErrPollExhausted
}

// SleepContext waits for d using a timer that is abandoned when ctx ends.
func SleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
