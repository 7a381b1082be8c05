package fs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"syscall"
	"time"

	retry "github.com/sethvargo/go-retry"
	"github.com/sharedcode/retryio"
)

// CopyOptions bundles the copy knobs beyond the plain overwrite flag.
type CopyOptions struct {
	// Overwrite allows replacing an existing destination. When false and the
	// destination exists, the copy fails immediately with an os.ErrExist
	// conflict, before any retry round.
	Overwrite bool
	// DirectIO copies the file content through O_DIRECT aligned-block I/O,
	// bypassing the page cache. Falls back to buffered I/O when the direct
	// open is not supported on the filesystem.
	DirectIO bool
	// MaxConcurrency bounds the parallel per-file copies of a directory
	// copy. Zero or one means sequential.
	MaxConcurrency int
	// Policy, when set, replaces the built-in budget loop.
	Policy retryio.RetryPolicy
}

// CopyFile copies src into dst through a temporary sibling (dst + ".tmp") so
// the destination is never observable half-written: the content lands in the
// temp file first, read-only bits are cleared, then the temp is renamed into
// place (an atomic replace when both sit on the same volume). Transient
// failures restart the whole round from the stale-temp cleanup under the
// budget's retry loop.
func CopyFile(src, dst string, overwrite bool, b retryio.Budget) error {
	return defaultOps.CopyFile(src, dst, overwrite, b)
}

// CopyFileAsync is the cancellable form of CopyFile.
func CopyFileAsync(ctx context.Context, src, dst string, overwrite bool, b retryio.Budget) error {
	return defaultOps.CopyFileAsync(ctx, src, dst, overwrite, b)
}

// CopyFileWithPolicy is CopyFile with the built-in budget loop replaced by
// the injected policy.
func CopyFileWithPolicy(src, dst string, overwrite bool, p retryio.RetryPolicy) error {
	return defaultOps.CopyFileWithPolicy(src, dst, overwrite, p)
}

// CopyFileAsyncWithPolicy is the cancellable form of CopyFileWithPolicy.
func CopyFileAsyncWithPolicy(ctx context.Context, src, dst string, overwrite bool, p retryio.RetryPolicy) error {
	return defaultOps.CopyFileAsyncWithPolicy(ctx, src, dst, overwrite, p)
}

// MoveFile copies src into dst under the atomic copy protocol, then deletes
// src under the confirmation protocol, both within the same budget.
func MoveFile(src, dst string, overwrite bool, b retryio.Budget) error {
	return defaultOps.MoveFile(context.Background(), src, dst, overwrite, b)
}

func (o *FileOps) CopyFile(src, dst string, overwrite bool, b retryio.Budget) error {
	return o.CopyFileAsync(context.Background(), src, dst, overwrite, b)
}

func (o *FileOps) CopyFileAsync(ctx context.Context, src, dst string, overwrite bool, b retryio.Budget) error {
	return o.CopyFileWithOptions(ctx, src, dst, CopyOptions{Overwrite: overwrite}, b)
}

func (o *FileOps) CopyFileWithPolicy(src, dst string, overwrite bool, p retryio.RetryPolicy) error {
	return o.CopyFileAsyncWithPolicy(context.Background(), src, dst, overwrite, p)
}

func (o *FileOps) CopyFileAsyncWithPolicy(ctx context.Context, src, dst string, overwrite bool, p retryio.RetryPolicy) error {
	if err := validatePolicy(p); err != nil {
		return err
	}
	return o.copyFile(ctx, src, dst, CopyOptions{Overwrite: overwrite, Policy: p}, 0)
}

// CopyFileWithOptions is the fully parameterized form of CopyFile. The budget
// is ignored when opts.Policy is set.
func (o *FileOps) CopyFileWithOptions(ctx context.Context, src, dst string, opts CopyOptions, b retryio.Budget) error {
	if opts.Policy == nil {
		if err := b.Validate(); err != nil {
			return err
		}
		opts.Policy = b.Policy()
	}
	return o.copyFile(ctx, src, dst, opts, b.Timeout)
}

func (o *FileOps) MoveFile(ctx context.Context, src, dst string, overwrite bool, b retryio.Budget) error {
	if err := o.CopyFileAsync(ctx, src, dst, overwrite, b); err != nil {
		return err
	}
	return o.DeleteFileAsync(ctx, src, b)
}

func (o *FileOps) copyFile(ctx context.Context, src, dst string, opts CopyOptions, maxTime time.Duration) error {
	if err := validatePath(src); err != nil {
		return err
	}
	if err := validatePath(dst); err != nil {
		return err
	}
	src, dst = ResolvePath(src), ResolvePath(dst)

	// Non-retried pre-checks: a missing source and an existence conflict are
	// caller mistakes, not transient conditions.
	if _, err := o.fileIO.Stat(ctx, src); err != nil {
		return retryio.Error{Code: retryio.FileIOError, Err: fmt.Errorf("copy source: %w", err), UserData: src}
	}
	if !opts.Overwrite && o.fileIO.Exists(ctx, dst) {
		return retryio.Error{Code: retryio.FileIOError, Err: fmt.Errorf("destination %s: %w", dst, os.ErrExist), UserData: dst}
	}
	if err := o.mkdirAll(ctx, filepath.Dir(dst), permission); err != nil {
		return retryio.Error{Code: retryio.FileIOError, Err: err, UserData: dst}
	}

	tmp := tempPath(dst)
	var permanent error
	attempt := func(ctx context.Context) bool {
		permanent = nil
		if err := o.copyRound(ctx, src, dst, tmp, opts); err != nil {
			if permanentError(err) {
				permanent = err
				return true
			}
			return false
		}
		return true
	}
	confirmed := opts.Policy.ExecuteAsync(ctx, attempt)
	if !confirmed || permanent != nil {
		// Never leave a temp sibling behind on failure.
		if err := o.fileIO.Remove(ctx, tmp); err != nil && !os.IsNotExist(err) {
			permanent = errors.Join(permanent, err)
		}
	}
	if permanent != nil {
		return retryio.Error{Code: retryio.FileIOError, Err: permanent, UserData: dst}
	}
	if confirmed {
		return nil
	}
	if cerr := ctx.Err(); cerr != nil {
		return cerr
	}
	return retryio.ErrTimeout{Name: "CopyFile", Path: src + " -> " + dst, MaxTime: maxTime}
}

// copyRound is the retried unit: preparing, copying, normalizing, finalizing.
// A failure anywhere restarts the next round from the stale-temp cleanup so a
// partially written temp file never ends up in destination position.
func (o *FileOps) copyRound(ctx context.Context, src, dst, tmp string, opts CopyOptions) error {
	// Preparing: drop any stale temp left by a previous failed round or a
	// crashed predecessor. The temp name is deterministic, so this is safe.
	if err := o.fileIO.Remove(ctx, tmp); err != nil && !os.IsNotExist(err) {
		return err
	}

	// Copying: full byte content of src into the temp sibling.
	var err error
	if opts.DirectIO {
		err = o.copyContentDirect(ctx, src, tmp)
	} else {
		err = o.copyContent(ctx, src, tmp)
	}
	if err != nil {
		return err
	}

	// Normalizing: a copy sourced from read-only media inherits the
	// read-only bit, and an existing read-only destination cannot be
	// replaced. Both must be writable before finalizing.
	if err := o.clearReadOnly(ctx, tmp); err != nil {
		return err
	}
	if o.fileIO.Exists(ctx, dst) {
		if err := o.clearReadOnly(ctx, dst); err != nil {
			return err
		}
		if sameVolume(tmp, dst) {
			// Finalizing, same volume: the rename substitutes the temp for
			// the destination in one atomic operation.
			return o.fileIO.Rename(ctx, tmp, dst)
		}
	}
	return o.moveInto(ctx, tmp, dst)
}

// moveInto places tmp at dst, falling back to a byte copy plus temp removal
// when the rename crosses a volume boundary.
func (o *FileOps) moveInto(ctx context.Context, tmp, dst string) error {
	err := o.fileIO.Rename(ctx, tmp, dst)
	if err == nil {
		return nil
	}
	if !errors.Is(err, syscall.EXDEV) {
		return err
	}
	if err := o.copyContent(ctx, tmp, dst); err != nil {
		return err
	}
	return o.fileIO.Remove(ctx, tmp)
}

// copyContent streams bytes from sourcePath to targetPath and syncs the
// target so the subsequent rename publishes durable content.
func (o *FileOps) copyContent(ctx context.Context, sourcePath, targetPath string) error {
	sourceFile, err := o.fileIO.OpenFile(ctx, sourcePath, os.O_RDONLY, 0)
	if err != nil {
		return fmt.Errorf("error opening source file: %w", err)
	}
	defer sourceFile.Close()

	targetFile, err := o.fileIO.Create(ctx, targetPath)
	if err != nil {
		return fmt.Errorf("error creating target file: %w", err)
	}
	if _, err = io.Copy(targetFile, sourceFile); err != nil {
		targetFile.Close()
		return fmt.Errorf("error copying file content: %w", err)
	}
	if err := targetFile.Sync(); err != nil {
		targetFile.Close()
		return fmt.Errorf("error syncing target file: %w", err)
	}
	return targetFile.Close()
}

// clearReadOnly adds the owner-write bit when path carries none.
func (o *FileOps) clearReadOnly(ctx context.Context, path string) error {
	st, err := o.fileIO.Stat(ctx, path)
	if err != nil {
		return err
	}
	mode := st.Mode().Perm()
	if mode&0o200 != 0 {
		return nil
	}
	return o.fileIO.Chmod(ctx, path, mode|0o200)
}

// mkdirAll creates the directory chain with Fibonacci-backoff retry on
// transient errors.
func (o *FileOps) mkdirAll(ctx context.Context, path string, perm os.FileMode) error {
	return retryio.Retry(ctx, func(ctx context.Context) error {
		err := o.fileIO.MkdirAll(ctx, path, perm)
		if err != nil && retryio.ShouldRetry(err) {
			return retry.RetryableError(retryio.Error{Code: retryio.FileIOError, Err: err, UserData: path})
		}
		return err
	}, nil)
}
