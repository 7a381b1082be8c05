package fs

import (
	"errors"
	"strings"
	"syscall"
)

// permanentError reports whether waiting and retrying can never cure err.
// The retry loops swallow sharing violations, held locks and access-denied
// (those clear when whatever holds the object lets go), but a read-only or
// full filesystem will look exactly the same on every future round.
func permanentError(err error) bool {
	if err == nil {
		return false
	}
	switch {
	case errors.Is(err, syscall.EROFS), // read-only filesystem
		errors.Is(err, syscall.ENOSPC), // no space left on device
		errors.Is(err, syscall.EDQUOT), // disk quota exceeded
		errors.Is(err, syscall.ENAMETOOLONG),
		errors.Is(err, syscall.ENOTDIR), // path component is not a directory
		errors.Is(err, syscall.EISDIR),  // file op aimed at a directory
		errors.Is(err, syscall.EINVAL):  // typically a caller bug
		return true
	}
	// Last-resort heuristic for EROFS text across platforms/drivers.
	return strings.Contains(err.Error(), "read-only file system")
}
