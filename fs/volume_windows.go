//go:build windows

package fs

import (
	"path/filepath"
	"strings"
)

// sameVolume compares volume names; a rename within one Windows volume is
// atomic while a cross-volume rename is rejected by the OS.
func sameVolume(a, b string) bool {
	va := strings.ToUpper(filepath.VolumeName(absOrSelf(a)))
	vb := strings.ToUpper(filepath.VolumeName(absOrSelf(b)))
	return va == vb
}

func absOrSelf(p string) string {
	ap, err := filepath.Abs(p)
	if err != nil {
		return p
	}
	return ap
}
