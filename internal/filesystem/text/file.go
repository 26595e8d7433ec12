// Package text implements the plain-text handle.
package text

import (
	"errors"
	"unicode/utf8"

	"github.com/compose-network/fileaccess/internal/filesystem"
)

var errInvalidUTF8 = errors.New("content is not valid UTF-8")

// File is a plain-text handle bound to one path.
type File struct {
	path string
	opts filesystem.Options
}

var _ filesystem.File[string] = (*File)(nil)

// New creates a plain-text handle.
func New(path string, opts ...filesystem.Option) *File {
	return &File{
		path: path,
		opts: filesystem.NewOptions(opts...),
	}
}

// Path returns the bound path.
func (f *File) Path() string {
	return f.path
}

// Read returns the whole file as one string.
func (f *File) Read() (string, error) {
	content, err := f.opts.Load(filesystem.OpRead, f.path)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(content) {
		return "", filesystem.NewError(filesystem.OpRead, f.path, filesystem.KindDecode, errInvalidUTF8)
	}
	return string(content), nil
}

// Write replaces the file content with data.
func (f *File) Write(data string) error {
	return f.opts.Replace(filesystem.OpWrite, f.path, []byte(data))
}

// Append writes data after the existing content. Prior content is neither
// read nor rewritten.
func (f *File) Append(data string) error {
	return f.opts.Extend(filesystem.OpAppend, f.path, []byte(data))
}
