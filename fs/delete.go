package fs

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/sharedcode/retryio"
)

// FileOps performs the delete and copy protocols on an injectable FileIO.
// The zero cost default (package-level functions below) runs on the os
// package; tests inject a FileIO that fails a number of rounds first.
type FileOps struct {
	fileIO FileIO
}

// NewFileOps returns a FileOps bound to the given FileIO, or to the default
// os-backed one when nil is passed.
func NewFileOps(fileIO FileIO) *FileOps {
	if fileIO == nil {
		fileIO = NewFileIO()
	}
	return &FileOps{fileIO: fileIO}
}

var defaultOps = NewFileOps(nil)

// DeleteFile removes the file at path and keeps retrying until the removal is
// confirmed by an exclusive-open probe or the budget is exhausted. Deleting a
// path that does not exist succeeds immediately.
func DeleteFile(path string, b retryio.Budget) error {
	return defaultOps.DeleteFile(path, b)
}

// DeleteFileAsync is the cancellable form of DeleteFile.
func DeleteFileAsync(ctx context.Context, path string, b retryio.Budget) error {
	return defaultOps.DeleteFileAsync(ctx, path, b)
}

// DeleteFileWithPolicy is DeleteFile with the built-in budget loop replaced
// by the injected policy.
func DeleteFileWithPolicy(path string, p retryio.RetryPolicy) error {
	return defaultOps.DeleteFileWithPolicy(path, p)
}

// DeleteFileAsyncWithPolicy is the cancellable form of DeleteFileWithPolicy.
func DeleteFileAsyncWithPolicy(ctx context.Context, path string, p retryio.RetryPolicy) error {
	return defaultOps.DeleteFileAsyncWithPolicy(ctx, path, p)
}

// DeleteDirectory recursively removes the directory at path under the same
// confirmation protocol as DeleteFile. Confirmation for a directory is its
// absence; no exclusive-open probe is meaningful for a directory as a whole.
func DeleteDirectory(path string, b retryio.Budget) error {
	return defaultOps.DeleteDirectory(path, b)
}

// DeleteDirectoryAsync is the cancellable form of DeleteDirectory.
func DeleteDirectoryAsync(ctx context.Context, path string, b retryio.Budget) error {
	return defaultOps.DeleteDirectoryAsync(ctx, path, b)
}

// DeleteDirectoryWithPolicy is DeleteDirectory driven by an injected policy.
func DeleteDirectoryWithPolicy(path string, p retryio.RetryPolicy) error {
	return defaultOps.DeleteDirectoryWithPolicy(path, p)
}

// DeleteDirectoryAsyncWithPolicy is the cancellable form of DeleteDirectoryWithPolicy.
func DeleteDirectoryAsyncWithPolicy(ctx context.Context, path string, p retryio.RetryPolicy) error {
	return defaultOps.DeleteDirectoryAsyncWithPolicy(ctx, path, p)
}

func (o *FileOps) DeleteFile(path string, b retryio.Budget) error {
	return o.DeleteFileAsync(context.Background(), path, b)
}

func (o *FileOps) DeleteFileAsync(ctx context.Context, path string, b retryio.Budget) error {
	if err := b.Validate(); err != nil {
		return err
	}
	return o.deleteWithConfirm(ctx, "DeleteFile", path, false, b.Policy(), b.Timeout)
}

func (o *FileOps) DeleteFileWithPolicy(path string, p retryio.RetryPolicy) error {
	return o.DeleteFileAsyncWithPolicy(context.Background(), path, p)
}

func (o *FileOps) DeleteFileAsyncWithPolicy(ctx context.Context, path string, p retryio.RetryPolicy) error {
	if err := validatePolicy(p); err != nil {
		return err
	}
	return o.deleteWithConfirm(ctx, "DeleteFile", path, false, p, 0)
}

func (o *FileOps) DeleteDirectory(path string, b retryio.Budget) error {
	return o.DeleteDirectoryAsync(context.Background(), path, b)
}

func (o *FileOps) DeleteDirectoryAsync(ctx context.Context, path string, b retryio.Budget) error {
	if err := b.Validate(); err != nil {
		return err
	}
	return o.deleteWithConfirm(ctx, "DeleteDirectory", path, true, b.Policy(), b.Timeout)
}

func (o *FileOps) DeleteDirectoryWithPolicy(path string, p retryio.RetryPolicy) error {
	return o.DeleteDirectoryAsyncWithPolicy(context.Background(), path, p)
}

func (o *FileOps) DeleteDirectoryAsyncWithPolicy(ctx context.Context, path string, p retryio.RetryPolicy) error {
	if err := validatePolicy(p); err != nil {
		return err
	}
	return o.deleteWithConfirm(ctx, "DeleteDirectory", path, true, p, 0)
}

// deleteWithConfirm runs the attempt-verify-wait state machine. Each round
// issues the OS remove call, swallowing any failure (a held lock or sharing
// violation only means "not yet"), then asks removalConfirmed whether the
// removal has taken full effect. The policy owns the waiting and the give-up
// decision; on give-up the surfaced error distinguishes cancellation from an
// exhausted budget.
func (o *FileOps) deleteWithConfirm(ctx context.Context, op, path string, isDir bool, p retryio.RetryPolicy, maxTime time.Duration) error {
	if err := validatePath(path); err != nil {
		return err
	}
	path = ResolvePath(path)
	var permanent error
	attempt := func(ctx context.Context) bool {
		permanent = nil
		var err error
		if isDir {
			err = o.fileIO.RemoveAll(ctx, path)
		} else {
			err = o.fileIO.Remove(ctx, path)
		}
		if err != nil && !os.IsNotExist(err) && permanentError(err) {
			// A read-only or full filesystem will not change by waiting;
			// returning true stops the policy, the captured error surfaces below.
			permanent = err
			return true
		}
		return removalConfirmed(ctx, o.fileIO, path, isDir)
	}
	confirmed := p.ExecuteAsync(ctx, attempt)
	if permanent != nil {
		return retryio.Error{Code: retryio.FileIOError, Err: permanent, UserData: path}
	}
	if confirmed {
		return nil
	}
	if cerr := ctx.Err(); cerr != nil {
		return cerr
	}
	return retryio.ErrTimeout{Name: op, Path: path, MaxTime: maxTime}
}

func validatePath(path string) error {
	if path == "" {
		return retryio.Error{Code: retryio.ConfigurationError, Err: errors.New("path is empty")}
	}
	return nil
}

func validatePolicy(p retryio.RetryPolicy) error {
	if p == nil {
		return retryio.Error{Code: retryio.ConfigurationError, Err: errors.New("retry policy is nil")}
	}
	return nil
}
