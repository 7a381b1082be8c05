package fs

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/sharedcode/retryio"
)

// CopyDirectory reproduces the sub-directory and file structure of srcDir
// under dstDir: first every sub-directory is created at the destination,
// then every file is copied under the atomic per-file protocol with the same
// budget. Cancellation is checked before each entry. There is no partial-tree
// rollback; files copied before a failure stay at the destination. A missing
// source directory fails immediately, before any destination mutation.
func CopyDirectory(srcDir, dstDir string, overwrite bool, b retryio.Budget) error {
	return defaultOps.CopyDirectory(srcDir, dstDir, overwrite, b)
}

// CopyDirectoryAsync is the cancellable form of CopyDirectory.
func CopyDirectoryAsync(ctx context.Context, srcDir, dstDir string, overwrite bool, b retryio.Budget) error {
	return defaultOps.CopyDirectoryAsync(ctx, srcDir, dstDir, overwrite, b)
}

// CopyDirectoryWithPolicy is CopyDirectory with every per-file copy driven by
// the injected policy instead of a budget.
func CopyDirectoryWithPolicy(srcDir, dstDir string, overwrite bool, p retryio.RetryPolicy) error {
	return defaultOps.CopyDirectoryWithPolicy(srcDir, dstDir, overwrite, p)
}

// CopyDirectoryAsyncWithPolicy is the cancellable form of CopyDirectoryWithPolicy.
func CopyDirectoryAsyncWithPolicy(ctx context.Context, srcDir, dstDir string, overwrite bool, p retryio.RetryPolicy) error {
	return defaultOps.CopyDirectoryAsyncWithPolicy(ctx, srcDir, dstDir, overwrite, p)
}

func (o *FileOps) CopyDirectory(srcDir, dstDir string, overwrite bool, b retryio.Budget) error {
	return o.CopyDirectoryAsync(context.Background(), srcDir, dstDir, overwrite, b)
}

func (o *FileOps) CopyDirectoryAsync(ctx context.Context, srcDir, dstDir string, overwrite bool, b retryio.Budget) error {
	return o.CopyDirectoryWithOptions(ctx, srcDir, dstDir, CopyOptions{Overwrite: overwrite}, b)
}

func (o *FileOps) CopyDirectoryWithPolicy(srcDir, dstDir string, overwrite bool, p retryio.RetryPolicy) error {
	return o.CopyDirectoryAsyncWithPolicy(context.Background(), srcDir, dstDir, overwrite, p)
}

func (o *FileOps) CopyDirectoryAsyncWithPolicy(ctx context.Context, srcDir, dstDir string, overwrite bool, p retryio.RetryPolicy) error {
	if err := validatePolicy(p); err != nil {
		return err
	}
	return o.copyTree(ctx, srcDir, dstDir, CopyOptions{Overwrite: overwrite, Policy: p}, retryio.Budget{})
}

// CopyDirectoryWithOptions is the fully parameterized form of CopyDirectory.
// The budget is ignored when opts.Policy is set.
func (o *FileOps) CopyDirectoryWithOptions(ctx context.Context, srcDir, dstDir string, opts CopyOptions, b retryio.Budget) error {
	if opts.Policy == nil {
		if err := b.Validate(); err != nil {
			return err
		}
	}
	return o.copyTree(ctx, srcDir, dstDir, opts, b)
}

func (o *FileOps) copyTree(ctx context.Context, srcDir, dstDir string, opts CopyOptions, b retryio.Budget) error {
	if err := validatePath(srcDir); err != nil {
		return err
	}
	if err := validatePath(dstDir); err != nil {
		return err
	}
	srcDir, dstDir = ResolvePath(srcDir), ResolvePath(dstDir)

	st, err := o.fileIO.Stat(ctx, srcDir)
	if err != nil {
		return retryio.Error{Code: retryio.FileIOError, Err: fmt.Errorf("copy source directory: %w", err), UserData: srcDir}
	}
	if !st.IsDir() {
		return retryio.Error{Code: retryio.FileIOError, Err: fmt.Errorf("copy source %s is not a directory", srcDir), UserData: srcDir}
	}

	dirs, files, err := o.collectEntries(ctx, srcDir)
	if err != nil {
		return err
	}

	// Sub-directories first so every file copy finds its parent in place.
	if err := o.mkdirAll(ctx, dstDir, permission); err != nil {
		return retryio.Error{Code: retryio.FileIOError, Err: err, UserData: dstDir}
	}
	for _, rel := range dirs {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := o.mkdirAll(ctx, filepath.Join(dstDir, rel), permission); err != nil {
			return retryio.Error{Code: retryio.FileIOError, Err: err, UserData: filepath.Join(dstDir, rel)}
		}
	}

	if opts.MaxConcurrency > 1 {
		tr := retryio.NewTaskRunner(ctx, opts.MaxConcurrency)
		for _, rel := range files {
			src := filepath.Join(srcDir, rel)
			dst := filepath.Join(dstDir, rel)
			tr.Go(func() error {
				return o.CopyFileWithOptions(tr.GetContext(), src, dst, opts, b)
			})
		}
		return tr.Wait()
	}

	for _, rel := range files {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := o.CopyFileWithOptions(ctx, filepath.Join(srcDir, rel), filepath.Join(dstDir, rel), opts, b); err != nil {
			return err
		}
	}
	return nil
}

// collectEntries walks root and returns source-relative sub-directory and
// file paths, parents before children.
func (o *FileOps) collectEntries(ctx context.Context, root string) (dirs, files []string, err error) {
	var walk func(rel string) error
	walk = func(rel string) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		entries, err := o.fileIO.ReadDir(ctx, filepath.Join(root, rel))
		if err != nil {
			return retryio.Error{Code: retryio.FileIOError, Err: err, UserData: filepath.Join(root, rel)}
		}
		for _, e := range entries {
			r := filepath.Join(rel, e.Name())
			if e.IsDir() {
				dirs = append(dirs, r)
				if err := walk(r); err != nil {
					return err
				}
				continue
			}
			files = append(files, r)
		}
		return nil
	}
	err = walk("")
	return dirs, files, err
}
