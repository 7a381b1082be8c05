package fs

import (
	"path/filepath"
	"sync"
)

// tempSuffix is appended to a copy destination to form its temporary sibling.
// The name is deterministic so a later call can clean up a stale temp file
// left behind by a crashed or timed-out predecessor.
const tempSuffix = ".tmp"

// tempPath returns the temporary sibling used while copying into dst.
func tempPath(dst string) string {
	return dst + tempSuffix
}

var (
	baseFolderMu sync.RWMutex
	baseFolder   string
)

// SetBaseFolder sets the process-wide base folder that ResolvePath joins
// relative paths against. Applications initialize it once at startup; the
// core operations only ever read it.
func SetBaseFolder(path string) {
	baseFolderMu.Lock()
	baseFolder = path
	baseFolderMu.Unlock()
}

// BaseFolder returns the process-wide base folder, or "" when unset.
func BaseFolder() string {
	baseFolderMu.RLock()
	defer baseFolderMu.RUnlock()
	return baseFolder
}

// ResolvePath returns path joined onto the base folder when path is relative
// and a base folder has been set; absolute paths pass through untouched.
func ResolvePath(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	base := BaseFolder()
	if base == "" {
		return path
	}
	return filepath.Join(base, path)
}
