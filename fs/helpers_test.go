package fs

import (
	"context"
	"os"
	"sync/atomic"
)

// scriptedFileIO wraps the default FileIO and fails a scripted number of
// calls with a transient error before letting them through. It lets the
// tests exercise the retry loops without real sharing violations.
type scriptedFileIO struct {
	FileIO

	removeFails    int32
	removeAllFails int32
	createFails    int32
	// openErr, when set, is returned by every OpenFile call. Simulates a
	// file whose handle is held by another process (probe keeps failing).
	openErr error

	removeCalls    int32
	removeAllCalls int32
	createCalls    int32
	openCalls      int32
}

func newScriptedFileIO() *scriptedFileIO {
	return &scriptedFileIO{FileIO: NewFileIO()}
}

// transientErr reads as retryable to the loops: not a not-exist, not a
// permanent errno.
type transientErr struct{}

func (transientErr) Error() string { return "sharing violation" }

func (s *scriptedFileIO) Remove(ctx context.Context, name string) error {
	atomic.AddInt32(&s.removeCalls, 1)
	if atomic.AddInt32(&s.removeFails, -1) >= 0 {
		return transientErr{}
	}
	return s.FileIO.Remove(ctx, name)
}

func (s *scriptedFileIO) RemoveAll(ctx context.Context, path string) error {
	atomic.AddInt32(&s.removeAllCalls, 1)
	if atomic.AddInt32(&s.removeAllFails, -1) >= 0 {
		return transientErr{}
	}
	return s.FileIO.RemoveAll(ctx, path)
}

func (s *scriptedFileIO) Create(ctx context.Context, name string) (*os.File, error) {
	atomic.AddInt32(&s.createCalls, 1)
	if atomic.AddInt32(&s.createFails, -1) >= 0 {
		return nil, transientErr{}
	}
	return s.FileIO.Create(ctx, name)
}

func (s *scriptedFileIO) OpenFile(ctx context.Context, name string, flag int, perm os.FileMode) (*os.File, error) {
	atomic.AddInt32(&s.openCalls, 1)
	if s.openErr != nil {
		return nil, s.openErr
	}
	return s.FileIO.OpenFile(ctx, name, flag, perm)
}

func (s *scriptedFileIO) calls() int32 {
	return atomic.LoadInt32(&s.removeCalls) +
		atomic.LoadInt32(&s.removeAllCalls) +
		atomic.LoadInt32(&s.createCalls) +
		atomic.LoadInt32(&s.openCalls)
}
