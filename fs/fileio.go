package fs

import (
	"context"
	"os"
)

const (
	// permission used for directories this package creates.
	permission os.FileMode = 0o755
	// filePermission used for files this package creates.
	filePermission os.FileMode = 0o644
)

// FileIO defines the filesystem operations the delete and copy protocols run
// on. The default implementation delegates to the standard library's os
// package; tests inject an implementation that fails a number of attempts
// before succeeding to exercise the retry loops.
type FileIO interface {
	Remove(ctx context.Context, name string) error
	RemoveAll(ctx context.Context, path string) error
	MkdirAll(ctx context.Context, path string, perm os.FileMode) error
	Rename(ctx context.Context, oldName, newName string) error
	Stat(ctx context.Context, name string) (os.FileInfo, error)
	OpenFile(ctx context.Context, name string, flag int, perm os.FileMode) (*os.File, error)
	Create(ctx context.Context, name string) (*os.File, error)
	Chmod(ctx context.Context, name string, mode os.FileMode) error
	Exists(ctx context.Context, path string) bool

	// Directory API.
	ReadDir(ctx context.Context, sourceDir string) ([]os.DirEntry, error)
}

type defaultFileIO struct {
}

// NewFileIO returns a FileIO that performs I/O via the os package.
func NewFileIO() FileIO {
	return &defaultFileIO{}
}

func (dio defaultFileIO) Remove(ctx context.Context, name string) error {
	return os.Remove(name)
}

func (dio defaultFileIO) RemoveAll(ctx context.Context, path string) error {
	return os.RemoveAll(path)
}

func (dio defaultFileIO) MkdirAll(ctx context.Context, path string, perm os.FileMode) error {
	return os.MkdirAll(path, perm)
}

func (dio defaultFileIO) Rename(ctx context.Context, oldName, newName string) error {
	return os.Rename(oldName, newName)
}

func (dio defaultFileIO) Stat(ctx context.Context, name string) (os.FileInfo, error) {
	return os.Stat(name)
}

func (dio defaultFileIO) OpenFile(ctx context.Context, name string, flag int, perm os.FileMode) (*os.File, error) {
	return os.OpenFile(name, flag, perm)
}

func (dio defaultFileIO) Create(ctx context.Context, name string) (*os.File, error) {
	return os.Create(name)
}

func (dio defaultFileIO) Chmod(ctx context.Context, name string, mode os.FileMode) error {
	return os.Chmod(name, mode)
}

func (dio defaultFileIO) Exists(ctx context.Context, path string) bool {
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		return true
	}
	return false
}

func (dio defaultFileIO) ReadDir(ctx context.Context, sourceDir string) ([]os.DirEntry, error) {
	return os.ReadDir(sourceDir)
}
