package filesystem

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/osfs"
)

// Storage opens files through a go-billy filesystem. Each method acquires
// and releases its file handle within the call.
type Storage struct {
	fs billy.Filesystem
}

// NewStorage wraps an existing billy filesystem.
func NewStorage(fsys billy.Filesystem) *Storage {
	return &Storage{fs: fsys}
}

// NewOSStorage returns storage over the native filesystem. Paths are used as
// given; relative paths resolve against the working directory.
func NewOSStorage() *Storage {
	return &Storage{fs: &nativeFS{}}
}

// NewMemStorage returns storage over an empty in-memory filesystem.
func NewMemStorage() *Storage {
	return &Storage{fs: memfs.New()}
}

// Raw returns the underlying billy filesystem.
//
//nolint:ireturn // callers need the upstream interface.
func (s *Storage) Raw() billy.Filesystem {
	return s.fs
}

// ReadFile returns the whole content of path.
func (s *Storage) ReadFile(path string) (data []byte, err error) {
	f, err := s.fs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %q: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close %q: %w", path, cerr)
		}
	}()

	data, err = io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("read %q: %w", path, err)
	}
	return data, nil
}

// WriteFile opens path with flag and writes data to it.
func (s *Storage) WriteFile(path string, data []byte, flag int, perm os.FileMode) (err error) {
	f, err := s.fs.OpenFile(path, flag, perm)
	if err != nil {
		return fmt.Errorf("open %q: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close %q: %w", path, cerr)
		}
	}()

	n, err := f.Write(data)
	if err != nil {
		return fmt.Errorf("write %q: %w", path, err)
	}
	if n < len(data) {
		return fmt.Errorf("write %q: %w", path, io.ErrShortWrite)
	}
	return nil
}

// EnsureDir creates the parent directory of path if it is missing.
func (s *Storage) EnsureDir(path string, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == string(filepath.Separator) {
		return nil
	}
	if err := s.fs.MkdirAll(dir, perm); err != nil {
		return fmt.Errorf("create directory %q: %w", dir, err)
	}
	return nil
}

// Exists reports whether path exists.
func (s *Storage) Exists(path string) (bool, error) {
	_, err := s.fs.Stat(path)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, os.ErrNotExist):
		return false, nil
	default:
		return false, fmt.Errorf("stat %q: %w", path, err)
	}
}

// nativeFS behaves like the native filesystem rather than a chroot.
type nativeFS struct {
	osfs.ChrootOS
}

//nolint:ireturn // signature is dictated by billy.Chroot.
func (n *nativeFS) Chroot(path string) (billy.Filesystem, error) {
	return osfs.New(path), nil
}

func (n *nativeFS) Root() string {
	return string(filepath.Separator)
}
