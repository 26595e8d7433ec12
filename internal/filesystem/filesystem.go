// Package filesystem defines the handle contract shared by every file format
// and the storage the handles open files through.
//
// A handle is bound to one path. Every operation opens the file, acts on it
// and releases it before returning; no file descriptor outlives a call.
// Handles do no locking, so concurrent writers to the same path may lose
// updates.
package filesystem

import (
	"errors"
	"os"
)

// File is the capability set every format variant implements.
type File[T any] interface {
	// Read decodes the whole file.
	Read() (T, error)
	// Write replaces the file content with data.
	Write(data T) error
	// Append adds data to the existing content without discarding it.
	Append(data T) error
}

const (
	defaultPerm    os.FileMode = 0644
	defaultDirPerm os.FileMode = 0755
)

// Options configure where and how a handle persists its file.
type Options struct {
	Storage *Storage
	Perm    os.FileMode
}

type Option func(*Options)

// WithStorage sets the storage files are opened through.
func WithStorage(s *Storage) Option {
	return func(o *Options) {
		o.Storage = s
	}
}

// WithPerm sets the mode used when a file is created.
func WithPerm(perm os.FileMode) Option {
	return func(o *Options) {
		o.Perm = perm
	}
}

// NewOptions applies opts over the defaults: native filesystem and 0644.
func NewOptions(opts ...Option) Options {
	o := Options{
		Perm: defaultPerm,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.Storage == nil {
		o.Storage = NewOSStorage()
	}
	return o
}

// Load reads the whole file at path, classifying failures for op.
func (o Options) Load(op Op, path string) ([]byte, error) {
	data, err := o.Storage.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, NewError(op, path, KindNotFound, err)
		}
		return nil, NewError(op, path, KindIO, err)
	}
	return data, nil
}

// Replace truncates the file at path and writes data.
func (o Options) Replace(op Op, path string, data []byte) error {
	return o.store(op, path, data, os.O_WRONLY|os.O_CREATE|os.O_TRUNC)
}

// Extend writes data after the existing content of the file at path,
// creating it if needed.
func (o Options) Extend(op Op, path string, data []byte) error {
	return o.store(op, path, data, os.O_WRONLY|os.O_CREATE|os.O_APPEND)
}

func (o Options) store(op Op, path string, data []byte, flag int) error {
	if err := o.Storage.EnsureDir(path, defaultDirPerm); err != nil {
		return NewError(op, path, KindIO, err)
	}
	if err := o.Storage.WriteFile(path, data, flag, o.Perm); err != nil {
		return NewError(op, path, KindIO, err)
	}
	return nil
}
