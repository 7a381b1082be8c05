package retryio

import (
	"context"
	"errors"
	"os"
	"syscall"
	"testing"
	"time"
)

func TestBudgetPolicy_SucceedsOnFirstAttempt(t *testing.T) {
	p := NewBudget(time.Second, 10*time.Millisecond).Policy()
	attempts := 0
	ok := p.Execute(func() bool {
		attempts++
		return true
	})
	if !ok || attempts != 1 {
		t.Fatalf("expected one successful attempt, got ok=%v attempts=%d", ok, attempts)
	}
}

func TestBudgetPolicy_StopsAtMaxRetries(t *testing.T) {
	// Generous timeout so the attempt cap, not the clock, ends the loop.
	p := NewBudget(time.Minute, time.Millisecond).WithMaxRetries(3).Policy()
	attempts := 0
	ok := p.Execute(func() bool {
		attempts++
		return false
	})
	if ok {
		t.Fatalf("expected exhaustion")
	}
	if attempts != 3 {
		t.Fatalf("expected 3 attempts, got %d", attempts)
	}
}

func TestBudgetPolicy_StopsNearTimeout(t *testing.T) {
	timeout := 60 * time.Millisecond
	interval := 10 * time.Millisecond
	p := NewBudget(timeout, interval).Policy()
	start := time.Now()
	ok := p.Execute(func() bool { return false })
	elapsed := time.Since(start)
	if ok {
		t.Fatalf("expected exhaustion")
	}
	// Tolerance of one retry interval plus scheduling slack.
	if elapsed > timeout+interval+50*time.Millisecond {
		t.Fatalf("loop overran the budget: %v", elapsed)
	}
}

func TestBudgetPolicy_SucceedsWhenConditionClears(t *testing.T) {
	p := NewBudget(time.Second, time.Millisecond).Policy()
	attempts := 0
	ok := p.Execute(func() bool {
		attempts++
		return attempts >= 3
	})
	if !ok || attempts != 3 {
		t.Fatalf("expected success on attempt 3, got ok=%v attempts=%d", ok, attempts)
	}
}

func TestBudgetPolicy_AsyncObservesCancellationBeforeFirstAttempt(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	p := NewBudget(time.Second, time.Millisecond).Policy()
	attempts := 0
	ok := p.ExecuteAsync(ctx, func(context.Context) bool {
		attempts++
		return false
	})
	if ok || attempts != 0 {
		t.Fatalf("expected no attempts after cancellation, got ok=%v attempts=%d", ok, attempts)
	}
}

func TestBudgetPolicy_AsyncStopsAfterMidLoopCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	p := NewBudget(time.Minute, time.Millisecond).Policy()
	attempts := 0
	ok := p.ExecuteAsync(ctx, func(context.Context) bool {
		attempts++
		if attempts == 2 {
			cancel()
		}
		return false
	})
	if ok {
		t.Fatalf("expected cancellation, not success")
	}
	if attempts != 2 {
		t.Fatalf("expected loop to stop right after cancel, attempts=%d", attempts)
	}
}

func TestBudgetPolicy_AttemptPanicPropagates(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic to propagate through the policy")
		}
	}()
	p := NewBudget(time.Second, time.Millisecond).Policy()
	p.Execute(func() bool { panic("programming error") })
}

func TestConstantPolicy_AttemptCount(t *testing.T) {
	p := NewConstantPolicy(time.Millisecond, 3)
	attempts := 0
	ok := p.Execute(func() bool {
		attempts++
		return false
	})
	if ok {
		t.Fatalf("expected exhaustion")
	}
	// Initial attempt plus maxRetries retries.
	if attempts != 4 {
		t.Fatalf("expected 4 attempts, got %d", attempts)
	}
}

func TestFibonacciPolicy_SucceedsWhenConditionClears(t *testing.T) {
	p := NewFibonacciPolicy(time.Millisecond, 5)
	attempts := 0
	ok := p.Execute(func() bool {
		attempts++
		return attempts == 2
	})
	if !ok || attempts != 2 {
		t.Fatalf("expected success on attempt 2, got ok=%v attempts=%d", ok, attempts)
	}
}

func TestExponentialPolicy_AsyncHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	p := NewExponentialPolicy(time.Millisecond, 50)
	ok := p.ExecuteAsync(ctx, func(context.Context) bool { return false })
	if ok {
		t.Fatalf("expected failure under cancelled context")
	}
}

func TestShouldRetry_Classification(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"cancelled", context.Canceled, false},
		{"deadline", context.DeadlineExceeded, false},
		{"not exist", os.ErrNotExist, false},
		{"exists", os.ErrExist, false},
		{"readonly fs", syscall.EROFS, false},
		{"no space", syscall.ENOSPC, false},
		{"access denied", syscall.EACCES, false},
		{"generic transient", errors.New("resource temporarily unavailable"), true},
	}
	for _, c := range cases {
		if got := ShouldRetry(c.err); got != c.want {
			t.Fatalf("%s: ShouldRetry=%v, want %v", c.name, got, c.want)
		}
	}
}

func TestRetry_ReturnsNilOnSuccess(t *testing.T) {
	calls := 0
	err := Retry(context.Background(), func(context.Context) error {
		calls++
		return nil
	}, nil)
	if err != nil || calls != 1 {
		t.Fatalf("expected single successful call, err=%v calls=%d", err, calls)
	}
}
