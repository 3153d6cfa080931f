package scheduler

import (
	"context"
	"time"
)

// RetryPolicy re-runs a whole job invocation after a failure, up to
// MaxRetries more times, with a fixed delay between runs.
type RetryPolicy struct {
	MaxRetries int
	Delay      time.Duration
}

var DefaultRetryPolicy = RetryPolicy{MaxRetries: 3, Delay: 5 * time.Minute}

// Run calls fn until it succeeds, the retries run out or ctx is done. It
// returns the number of runs made and the last error.
func (p RetryPolicy) Run(ctx context.Context, fn func(ctx context.Context, attempt int) error) (int, error) {
	max := 1 + p.MaxRetries
	if p.MaxRetries < 0 {
		max = 1
	}

	var err error
	for attempt := 1; attempt <= max; attempt++ {
		if err = fn(ctx, attempt); err == nil {
			return attempt, nil
		}
		if attempt == max {
			return attempt, err
		}

		timer := time.NewTimer(p.Delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return attempt, ctx.Err()
		case <-timer.C:
		}
	}

	return max, err
}
