// Package fs implements deterministic, race-tolerant file and directory
// deletion and copying for filesystems where delete and replace are not
// atomic or immediately observable (anti-virus scanners holding handles,
// delete-pending states, read-only media).
//
// Deletion does not trust the OS remove call: each round re-issues the
// removal and then probes the path with an exclusive open until the object
// is provably gone. Copying never exposes a half-written destination: bytes
// land in a deterministic temporary sibling (destination + ".tmp") which is
// renamed into place, atomically when the volumes match. Both protocols run
// under a retryio.Budget (timeout, retry interval, optional attempt cap) or
// a caller-injected retryio.RetryPolicy, with cancellable Async forms.
//
// The operations are independent: two calls targeting the same path race
// the filesystem, not each other, and the package holds no shared mutable
// state beyond the optional process-wide base folder.
package fs
