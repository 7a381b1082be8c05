//go:build !windows

package fs

import (
	"os"
	"path/filepath"
	"syscall"
)

// sameVolume reports whether the parents of a and b live on the same device,
// meaning a rename between them is a single atomic operation. Unknowable
// answers (stat failure, foreign FileInfo) report false so the caller takes
// the conservative move path.
func sameVolume(a, b string) bool {
	da, ok := deviceOf(filepath.Dir(a))
	if !ok {
		return false
	}
	db, ok := deviceOf(filepath.Dir(b))
	if !ok {
		return false
	}
	return da == db
}

func deviceOf(path string) (uint64, bool) {
	fi, err := os.Stat(path)
	if err != nil {
		return 0, false
	}
	st, ok := fi.Sys().(*syscall.Stat_t)
	if !ok {
		return 0, false
	}
	return uint64(st.Dev), true
}
