package filesystemtest

import (
	"os"
	"sync/atomic"

	"github.com/go-git/go-billy/v5"
)

// CountingFS wraps a billy filesystem and tracks how many files are open.
type CountingFS struct {
	billy.Filesystem
	open   atomic.Int64
	opened atomic.Int64
}

// NewCountingFS wraps fsys.
func NewCountingFS(fsys billy.Filesystem) *CountingFS {
	return &CountingFS{Filesystem: fsys}
}

// OpenCount reports the number of files currently open.
func (c *CountingFS) OpenCount() int64 {
	return c.open.Load()
}

// OpenedCount reports the number of files opened so far.
func (c *CountingFS) OpenedCount() int64 {
	return c.opened.Load()
}

//nolint:ireturn // billy.Filesystem signature.
func (c *CountingFS) Open(filename string) (billy.File, error) {
	return c.track(c.Filesystem.Open(filename))
}

//nolint:ireturn // billy.Filesystem signature.
func (c *CountingFS) Create(filename string) (billy.File, error) {
	return c.track(c.Filesystem.Create(filename))
}

//nolint:ireturn // billy.Filesystem signature.
func (c *CountingFS) OpenFile(filename string, flag int, perm os.FileMode) (billy.File, error) {
	return c.track(c.Filesystem.OpenFile(filename, flag, perm))
}

//nolint:ireturn // billy.Filesystem signature.
func (c *CountingFS) track(f billy.File, err error) (billy.File, error) {
	if err != nil {
		return nil, err
	}
	c.open.Add(1)
	c.opened.Add(1)
	return &countingFile{File: f, fs: c}, nil
}

type countingFile struct {
	billy.File
	fs     *CountingFS
	closed bool
}

func (f *countingFile) Close() error {
	if !f.closed {
		f.closed = true
		f.fs.open.Add(-1)
	}
	return f.File.Close()
}
