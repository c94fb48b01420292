// Package resilience provides Retry, which runs an operation with capped
// exponential backoff and jitter. The database component uses it to ride
// out a store that is not reachable yet at startup.
//
//	err := resilience.Retry(ctx, resilience.RetryConfig{MaxAttempts: 5}, func(attempt int) error {
//	    return connect(ctx)
//	})
package resilience
