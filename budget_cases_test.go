package retryio

import (
	"errors"
	"testing"
	"time"
)

func TestBudget_ValidateRejectsTimeoutShorterThanInterval(t *testing.T) {
	b := NewBudget(10*time.Millisecond, 50*time.Millisecond)
	err := b.Validate()
	if err == nil {
		t.Fatalf("expected configuration error, got nil")
	}
	var e Error
	if !errors.As(err, &e) || e.Code != ConfigurationError {
		t.Fatalf("expected ConfigurationError, got %v", err)
	}
}

func TestBudget_ValidateRejectsNonPositiveMembers(t *testing.T) {
	cases := []Budget{
		{Timeout: 0, RetryInterval: 10 * time.Millisecond},
		{Timeout: -time.Second, RetryInterval: 10 * time.Millisecond},
		{Timeout: time.Second, RetryInterval: 0},
		{Timeout: time.Second, RetryInterval: -time.Millisecond},
		{Timeout: time.Second, RetryInterval: 10 * time.Millisecond, MaxRetries: -1},
	}
	for i, b := range cases {
		if err := b.Validate(); err == nil {
			t.Fatalf("case %d: expected configuration error for %+v", i, b)
		}
	}
}

func TestBudget_ValidateAcceptsSane(t *testing.T) {
	b := NewBudget(5*time.Second, 50*time.Millisecond).WithMaxRetries(10)
	if err := b.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestBudget_MillisecondFormEqualsDurationForm(t *testing.T) {
	a := BudgetFromMilliseconds(5000, 50)
	b := NewBudget(5*time.Second, 50*time.Millisecond)
	if a != b {
		t.Fatalf("expected %+v == %+v", a, b)
	}
}
