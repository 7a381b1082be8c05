package fs

import (
	"context"
	"os"
)

// removalConfirmed reports whether a prior removal of path has taken full
// effect. A plain existence check is not enough: on some filesystems a path
// reports "not found" while the object is still only partially released
// (delete-pending), and on others the path is still visible while a scanner
// holds the last handle. Opening the file for exclusive read-write intent is
// the reliable probe:
//
//   - open fails with not-exist: the path is really gone, removal confirmed;
//   - open succeeds: the file still exists and is not delete-pending, so the
//     handle is released immediately (holding it would itself block the next
//     removal attempt) and the answer is no;
//   - open fails any other way (sharing violation, delete pending, transient
//     I/O): something still holds the object, the answer is no.
//
// Directories have no meaningful exclusive-open probe as a whole, so a
// not-exist Stat is the confirmation there.
func removalConfirmed(ctx context.Context, fio FileIO, path string, isDir bool) bool {
	if isDir {
		_, err := fio.Stat(ctx, path)
		return os.IsNotExist(err)
	}
	f, err := fio.OpenFile(ctx, path, os.O_RDWR, 0)
	if err == nil {
		f.Close()
		return false
	}
	return os.IsNotExist(err)
}
