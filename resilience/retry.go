package resilience

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"time"
)

// RetryConfig configures Retry. Zero fields take the defaults noted below.
type RetryConfig struct {
	// MaxAttempts counts the first call (default: 3).
	MaxAttempts int
	// InitialBackoff is the wait after the first failure (default: 100ms).
	InitialBackoff time.Duration
	// MaxBackoff caps every wait (default: 10s).
	MaxBackoff time.Duration
	// Multiplier grows the backoff per attempt (default: 2).
	Multiplier float64
	// Jitter spreads each wait by up to ±Jitter of its value, 0.0 to 1.0.
	Jitter float64
	// RetryIf reports whether err is worth another attempt
	// (default: anything but context cancellation).
	RetryIf func(error) bool
	// OnRetry is called before each wait.
	OnRetry func(attempt int, err error, backoff time.Duration)
}

func (c *RetryConfig) applyDefaults() {
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = 3
	}
	if c.InitialBackoff <= 0 {
		c.InitialBackoff = 100 * time.Millisecond
	}
	if c.MaxBackoff <= 0 {
		c.MaxBackoff = 10 * time.Second
	}
	if c.Multiplier < 1 {
		c.Multiplier = 2
	}
	if c.RetryIf == nil {
		c.RetryIf = retryUnlessCanceled
	}
}

func retryUnlessCanceled(err error) bool {
	return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
}

// Retry calls fn until it succeeds, returns an error RetryIf rejects, or
// MaxAttempts is used up. fn receives the 1-based attempt number. The last
// error is returned; a canceled ctx ends the wait early with ctx.Err().
func Retry(ctx context.Context, cfg RetryConfig, fn func(attempt int) error) error {
	cfg.applyDefaults()

	var err error
	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err = fn(attempt); err == nil {
			return nil
		}
		if !cfg.RetryIf(err) || attempt == cfg.MaxAttempts {
			return err
		}

		wait := backoff(attempt, cfg)
		if cfg.OnRetry != nil {
			cfg.OnRetry(attempt, err, wait)
		}
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
	return err
}

// backoff returns the wait after the given failed attempt:
// InitialBackoff * Multiplier^(attempt-1), jittered, capped at MaxBackoff.
func backoff(attempt int, cfg RetryConfig) time.Duration {
	d := float64(cfg.InitialBackoff) * math.Pow(cfg.Multiplier, float64(attempt-1))
	if cfg.Jitter > 0 {
		d += (rand.Float64()*2 - 1) * d * cfg.Jitter
	}
	if d > float64(cfg.MaxBackoff) {
		d = float64(cfg.MaxBackoff)
	}
	if d <= 0 {
		d = float64(cfg.InitialBackoff)
	}
	return time.Duration(d)
}
