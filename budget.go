package retryio

import (
	"fmt"
	"time"
)

// Budget bounds a single operation's retry loop: keep attempting until
// Timeout has elapsed, sleeping RetryInterval between rounds, optionally
// capped at MaxRetries attempts. A Budget is a value; copies are independent.
type Budget struct {
	// Timeout is the total time the operation may keep retrying.
	Timeout time.Duration
	// RetryInterval is the wait between a failed attempt and the next one.
	RetryInterval time.Duration
	// MaxRetries, when > 0, stops the loop after that many failed attempts
	// even if time remains.
	MaxRetries int
}

// NewBudget returns a Budget with the given timeout and retry interval and no
// attempt cap.
func NewBudget(timeout, retryInterval time.Duration) Budget {
	return Budget{Timeout: timeout, RetryInterval: retryInterval}
}

// BudgetFromMilliseconds is the integer-millisecond form of NewBudget.
func BudgetFromMilliseconds(timeoutMS, retryIntervalMS int) Budget {
	return NewBudget(time.Duration(timeoutMS)*time.Millisecond, time.Duration(retryIntervalMS)*time.Millisecond)
}

// WithMaxRetries returns a copy of the budget capped at n failed attempts.
func (b Budget) WithMaxRetries(n int) Budget {
	b.MaxRetries = n
	return b
}

// Validate rejects a misconfigured budget before any I/O is attempted.
// The invariant is Timeout >= RetryInterval, both positive; MaxRetries may
// not be negative.
func (b Budget) Validate() error {
	if b.Timeout <= 0 {
		return Error{Code: ConfigurationError, Err: fmt.Errorf("timeout %v is not positive", b.Timeout)}
	}
	if b.RetryInterval <= 0 {
		return Error{Code: ConfigurationError, Err: fmt.Errorf("retry interval %v is not positive", b.RetryInterval)}
	}
	if b.Timeout < b.RetryInterval {
		return Error{Code: ConfigurationError, Err: fmt.Errorf("timeout %v is shorter than retry interval %v", b.Timeout, b.RetryInterval)}
	}
	if b.MaxRetries < 0 {
		return Error{Code: ConfigurationError, Err: fmt.Errorf("max retries %d is negative", b.MaxRetries)}
	}
	return nil
}
