// Package core provides shared abstractions used across the codebase,
// most notably the FileSystem interface that makes file access
// injectable for tests.
package core

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
	"sync"
	"time"
)

// PermOwnerRW defines file permissions restricted to owner read/write.
const PermOwnerRW = os.FileMode(0600)

// FileSystem abstracts the file operations needed by manifest readers
// and writers.
type FileSystem interface {
	ReadFile(ctx context.Context, path string) ([]byte, error)
	WriteFile(ctx context.Context, path string, data []byte, perm os.FileMode) error
	Stat(ctx context.Context, path string) (os.FileInfo, error)

	// Glob returns the paths of all known files matching pattern,
	// using filepath.Match syntax per path segment.
	Glob(ctx context.Context, pattern string) ([]string, error)
}

// osFileSystem is the production FileSystem backed by the os package.
type osFileSystem struct{}

// NewOSFileSystem returns a FileSystem backed by the real filesystem.
func NewOSFileSystem() FileSystem {
	return &osFileSystem{}
}

func (fs *osFileSystem) ReadFile(ctx context.Context, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return os.ReadFile(path)
}

func (fs *osFileSystem) WriteFile(ctx context.Context, path string, data []byte, perm os.FileMode) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return os.WriteFile(path, data, perm)
}

func (fs *osFileSystem) Stat(ctx context.Context, path string) (os.FileInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return os.Stat(path)
}

func (fs *osFileSystem) Glob(ctx context.Context, pattern string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return filepath.Glob(pattern)
}

// MockFileSystem is an in-memory FileSystem for tests.
type MockFileSystem struct {
	mu    sync.RWMutex
	files map[string][]byte

	// WriteErr, when set, is returned by every WriteFile call.
	WriteErr error
}

// NewMockFileSystem returns an empty in-memory filesystem.
func NewMockFileSystem() *MockFileSystem {
	return &MockFileSystem{files: make(map[string][]byte)}
}

// SetFile stores content under path, creating or replacing it.
func (fs *MockFileSystem) SetFile(path string, data []byte) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.files[filepath.ToSlash(path)] = data
}

// GetFile returns the stored content for path.
func (fs *MockFileSystem) GetFile(path string) ([]byte, bool) {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	data, ok := fs.files[filepath.ToSlash(path)]
	return data, ok
}

func (fs *MockFileSystem) ReadFile(_ context.Context, p string) ([]byte, error) {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	data, ok := fs.files[filepath.ToSlash(p)]
	if !ok {
		return nil, &os.PathError{Op: "open", Path: p, Err: os.ErrNotExist}
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

func (fs *MockFileSystem) WriteFile(_ context.Context, p string, data []byte, _ os.FileMode) error {
	if fs.WriteErr != nil {
		return fs.WriteErr
	}
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.files[filepath.ToSlash(p)] = append([]byte(nil), data...)
	return nil
}

func (fs *MockFileSystem) Stat(_ context.Context, p string) (os.FileInfo, error) {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	data, ok := fs.files[filepath.ToSlash(p)]
	if !ok {
		return nil, &os.PathError{Op: "stat", Path: p, Err: os.ErrNotExist}
	}
	return mockFileInfo{name: path.Base(filepath.ToSlash(p)), size: int64(len(data))}, nil
}

func (fs *MockFileSystem) Glob(_ context.Context, pattern string) ([]string, error) {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	pattern = filepath.ToSlash(pattern)
	var out []string
	for p := range fs.files {
		ok, err := path.Match(pattern, p)
		if err != nil {
			return nil, fmt.Errorf("invalid glob pattern %q: %w", pattern, err)
		}
		if ok {
			out = append(out, p)
		}
	}
	sort.Strings(out)
	return out, nil
}

// mockFileInfo implements os.FileInfo for MockFileSystem entries.
type mockFileInfo struct {
	name string
	size int64
}

func (fi mockFileInfo) Name() string           { return fi.name }
func (fi mockFileInfo) Size() int64            { return fi.size }
func (fi mockFileInfo) Mode() os.FileMode      { return PermOwnerRW }
func (fi mockFileInfo) ModTime() (t time.Time) { return }
func (fi mockFileInfo) IsDir() bool            { return false }
func (fi mockFileInfo) Sys() any               { return nil }
