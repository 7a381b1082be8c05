package retryio

import (
	"context"
	"errors"
	"time"

	log "log/slog"

	"github.com/sethvargo/go-retry"
)

// RetryPolicy drives an attempt function until it reports success or the
// policy gives up. An attempt returns true on confirmed success and false to
// request another round; transient failures are represented by that false
// return, never by a panic (a panic is treated as a programming or
// environment error and propagates to the caller untouched).
//
// The built-in policy obtained from Budget.Policy implements the elapsed-time
// and attempt-count loop; callers may inject any other implementation (for
// example NewFibonacciPolicy) and it fully replaces the built-in loop for
// that call.
type RetryPolicy interface {
	// Execute runs attempt repeatedly, blocking the calling goroutine
	// between rounds. It returns true only if some attempt returned true.
	Execute(attempt func() bool) bool
	// ExecuteAsync is the cancellable form. Cancellation is sampled at the
	// top of every round and again after each suspension; once observed, no
	// further attempt is made and the result is false.
	ExecuteAsync(ctx context.Context, attempt func(ctx context.Context) bool) bool
}

// Policy returns the built-in RetryPolicy for the budget: attempt, verify,
// sleep RetryInterval, repeat until Timeout has elapsed or MaxRetries failed
// attempts have accumulated.
func (b Budget) Policy() RetryPolicy {
	return budgetPolicy{b: b}
}

type budgetPolicy struct {
	b Budget
}

func (p budgetPolicy) Execute(attempt func() bool) bool {
	return p.ExecuteAsync(context.Background(), func(context.Context) bool { return attempt() })
}

func (p budgetPolicy) ExecuteAsync(ctx context.Context, attempt func(ctx context.Context) bool) bool {
	start := Now()
	for attempts := 0; ; {
		if ctx.Err() != nil {
			return false
		}
		if attempt(ctx) {
			return true
		}
		attempts++
		if p.b.MaxRetries > 0 && attempts >= p.b.MaxRetries {
			return false
		}
		if Now().Sub(start) >= p.b.Timeout {
			return false
		}
		Sleep(ctx, p.b.RetryInterval)
		if ctx.Err() != nil {
			return false
		}
	}
}

var errNotConfirmed = errors.New("attempt not yet confirmed")

// backoffPolicy adapts a go-retry backoff to the RetryPolicy capability.
type backoffPolicy struct {
	name       string
	maxRetries uint64
	newBackoff func() retry.Backoff
}

// NewFibonacciPolicy returns a RetryPolicy that waits Fibonacci multiples of
// base between attempts, giving up after maxRetries failed attempts.
func NewFibonacciPolicy(base time.Duration, maxRetries uint64) RetryPolicy {
	return backoffPolicy{
		name:       "fibonacci",
		maxRetries: maxRetries,
		newBackoff: func() retry.Backoff { return retry.NewFibonacci(base) },
	}
}

// NewExponentialPolicy returns a RetryPolicy that doubles the wait starting
// from base, giving up after maxRetries failed attempts.
func NewExponentialPolicy(base time.Duration, maxRetries uint64) RetryPolicy {
	return backoffPolicy{
		name:       "exponential",
		maxRetries: maxRetries,
		newBackoff: func() retry.Backoff { return retry.NewExponential(base) },
	}
}

// NewConstantPolicy returns a RetryPolicy that waits a fixed interval between
// attempts, giving up after maxRetries failed attempts.
func NewConstantPolicy(interval time.Duration, maxRetries uint64) RetryPolicy {
	return backoffPolicy{
		name:       "constant",
		maxRetries: maxRetries,
		newBackoff: func() retry.Backoff { return retry.NewConstant(interval) },
	}
}

func (p backoffPolicy) Execute(attempt func() bool) bool {
	return p.ExecuteAsync(context.Background(), func(context.Context) bool { return attempt() })
}

func (p backoffPolicy) ExecuteAsync(ctx context.Context, attempt func(ctx context.Context) bool) bool {
	b := retry.WithMaxRetries(p.maxRetries, p.newBackoff())
	err := retry.Do(ctx, b, func(ctx context.Context) error {
		if attempt(ctx) {
			return nil
		}
		return retry.RetryableError(errNotConfirmed)
	})
	if err != nil {
		log.Debug("backoff policy gave up", "backoff", p.name, "maxRetries", p.maxRetries)
		return false
	}
	return true
}
