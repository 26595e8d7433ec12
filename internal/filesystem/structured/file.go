// Package structured implements the structured-record handle: a file holding
// one JSON or YAML value tree.
package structured

import (
	"errors"
	"fmt"

	"github.com/compose-network/fileaccess/internal/filesystem"
)

// File is a structured-record handle bound to one path.
type File struct {
	path  string
	codec Codec
	opts  filesystem.Options
}

var _ filesystem.File[any] = (*File)(nil)

// New creates a handle whose codec is picked from the path extension.
func New(path string, opts ...filesystem.Option) *File {
	return NewWithCodec(path, CodecForPath(path), opts...)
}

// NewJSON creates a JSON handle.
func NewJSON(path string, opts ...filesystem.Option) *File {
	return NewWithCodec(path, JSONCodec{}, opts...)
}

// NewYAML creates a YAML handle.
func NewYAML(path string, opts ...filesystem.Option) *File {
	return NewWithCodec(path, YAMLCodec{}, opts...)
}

// NewWithCodec creates a handle using codec.
func NewWithCodec(path string, codec Codec, opts ...filesystem.Option) *File {
	return &File{
		path:  path,
		codec: codec,
		opts:  filesystem.NewOptions(opts...),
	}
}

// Path returns the bound path.
func (f *File) Path() string {
	return f.path
}

// Codec returns the codec used for this handle.
//
//nolint:ireturn // codecs are pluggable.
func (f *File) Codec() Codec {
	return f.codec
}

// Read decodes the whole file into a value tree.
func (f *File) Read() (any, error) {
	return f.read(filesystem.OpRead)
}

// Write replaces the file with the encoding of data.
func (f *File) Write(data any) error {
	return f.write(filesystem.OpWrite, data)
}

// Append pushes data onto the top-level sequence stored in the file.
//
// A missing or undecodable file is treated as an empty sequence, so a
// corrupt file is silently replaced by a one-element sequence. A file whose
// top-level value is not a sequence fails with ErrStructuralMismatch.
//
// The read and the write are separate opens; a concurrent writer in between
// is lost.
func (f *File) Append(data any) error {
	base, err := f.read(filesystem.OpAppend)
	if err != nil {
		if !errors.Is(err, filesystem.ErrNotFound) && !errors.Is(err, filesystem.ErrDecode) {
			return err
		}
		base = []any{}
	}

	seq, ok := base.([]any)
	if !ok {
		return filesystem.NewError(filesystem.OpAppend, f.path, filesystem.KindStructuralMismatch,
			fmt.Errorf("top-level value is %s, not a sequence", describe(base)))
	}

	return f.write(filesystem.OpAppend, append(seq, data))
}

func (f *File) read(op filesystem.Op) (any, error) {
	content, err := f.opts.Load(op, f.path)
	if err != nil {
		return nil, err
	}

	v, err := f.codec.Unmarshal(content)
	if err != nil {
		return nil, filesystem.NewError(op, f.path, filesystem.KindDecode, err)
	}
	return v, nil
}

func (f *File) write(op filesystem.Op, data any) error {
	content, err := f.codec.Marshal(data)
	if err != nil {
		return filesystem.NewError(op, f.path, filesystem.KindEncode, err)
	}
	return f.opts.Replace(op, f.path, content)
}

func describe(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case map[string]any:
		return "an object"
	case string:
		return "a string"
	case bool:
		return "a boolean"
	default:
		return fmt.Sprintf("a scalar (%T)", v)
	}
}
