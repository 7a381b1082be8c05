package retryio

import (
	"fmt"
	"time"
)

type ErrorCode int

const (
	Unknown = iota
	// ConfigurationError marks a bad budget or argument, rejected before any I/O.
	ConfigurationError
	FileIOError
)

// Custom error carrying a code and optional user data (typically the path(s) involved).
type Error struct {
	Code     ErrorCode
	Err      error
	UserData any
}

func (e Error) Error() string {
	return fmt.Errorf("error code: %d, user data: %v, details: %w", e.Code, e.UserData, e.Err).Error()
}

func (e Error) Unwrap() error {
	return e.Err
}

// ErrTimeout is returned when an operation exhausts its retry budget without
// confirmation. When the budget ended because the caller's context fired, Err
// holds the context error so errors.Is(err, context.Canceled) (or
// DeadlineExceeded) remains true through the wrap.
type ErrTimeout struct {
	// Name of the operation that timed out, e.g. "DeleteFile".
	Name string
	// Path (or "src -> dst" pair) the operation was working on.
	Path string
	// MaxTime is the configured timeout. Zero when an injected policy gave up.
	MaxTime time.Duration
	Err     error
}

func (e ErrTimeout) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s timed out(maxTime=%v) on %s: %v", e.Name, e.MaxTime, e.Path, e.Err)
	}
	return fmt.Sprintf("%s timed out(maxTime=%v) on %s", e.Name, e.MaxTime, e.Path)
}

func (e ErrTimeout) Unwrap() error {
	return e.Err
}
