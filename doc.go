// Package retryio defines the budgets, retry policies, error types, and
// concurrency helpers shared by the file operation packages. The core idea is
// a confirmation protocol: an operation is not done when the OS call returns,
// it is done when a follow-up probe proves the filesystem reflects it. On
// filesystems where deletes are delayed (anti-virus scanners, delete-pending
// handles, read-only media) the OS call succeeding means very little.
//
// The concrete file and directory operations live in the fs subpackage. This
// package is the foundation they build on and is usable on its own wherever
// "attempt until confirmed or budget exhausted" semantics are needed.
//
// # Timeout model
//
// Operations are bounded by two timers:
//  1. The caller-provided context deadline/cancellation, which propagates
//     across suspensions and is sampled at the top of every retry round.
//  2. An operation-specific Budget (timeout, retry interval, optional max
//     attempt count) governing the built-in retry loop.
//
// Timeouts are normalized with ErrTimeout, which wraps the underlying context
// error when applicable so errors.Is(err, context.Canceled) keeps working
// while providing consistent timeout detection.
package retryio
