// Package filesystemtest provides a conformance suite run against every
// handle variant.
//
// Example usage:
//
//	func TestConformance(t *testing.T) {
//	    filesystemtest.Run(t, filesystemtest.Case[string]{
//	        Name:     "notes.txt",
//	        New:      func(path string, opts ...filesystem.Option) filesystem.File[string] { return text.New(path, opts...) },
//	        Value:    "A",
//	        Addition: "B",
//	        Appended: "AB",
//	    })
//	}
package filesystemtest

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/containerd/errdefs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/compose-network/fileaccess/internal/filesystem"
)

// Case describes the payloads a variant is exercised with.
type Case[T any] struct {
	// Name is the file name used inside the test storage.
	Name string
	New  func(path string, opts ...filesystem.Option) filesystem.File[T]
	// Value is written first and read back unchanged.
	Value T
	// Addition is appended after Value; Read must then return Appended.
	Addition T
	Appended T
	// Replacement overwrites Value.
	Replacement T
}

// Run executes the suite against both in-memory and native storage.
func Run[T any](t *testing.T, c Case[T]) {
	t.Helper()

	t.Run("mem", func(t *testing.T) {
		run(t, c, func(t *testing.T) (*filesystem.Storage, string) {
			return filesystem.NewMemStorage(), "/data"
		})
	})
	t.Run("os", func(t *testing.T) {
		run(t, c, func(t *testing.T) (*filesystem.Storage, string) {
			return filesystem.NewOSStorage(), t.TempDir()
		})
	})
}

func run[T any](t *testing.T, c Case[T], setup func(t *testing.T) (*filesystem.Storage, string)) {
	t.Run("RoundTrip", func(t *testing.T) {
		storage, root := setup(t)
		f := c.New(filepath.Join(root, c.Name), filesystem.WithStorage(storage))

		require.NoError(t, f.Write(c.Value))
		got, err := f.Read()
		require.NoError(t, err)
		assert.Equal(t, c.Value, got)
	})

	t.Run("WriteTruncates", func(t *testing.T) {
		storage, root := setup(t)
		f := c.New(filepath.Join(root, c.Name), filesystem.WithStorage(storage))

		require.NoError(t, f.Write(c.Value))
		require.NoError(t, f.Write(c.Replacement))
		got, err := f.Read()
		require.NoError(t, err)
		assert.Equal(t, c.Replacement, got)
	})

	t.Run("AppendKeepsContent", func(t *testing.T) {
		storage, root := setup(t)
		f := c.New(filepath.Join(root, c.Name), filesystem.WithStorage(storage))

		require.NoError(t, f.Write(c.Value))
		require.NoError(t, f.Append(c.Addition))
		got, err := f.Read()
		require.NoError(t, err)
		assert.Equal(t, c.Appended, got)
	})

	t.Run("ReadMissing", func(t *testing.T) {
		storage, root := setup(t)
		f := c.New(filepath.Join(root, "missing", c.Name), filesystem.WithStorage(storage))

		_, err := f.Read()
		require.Error(t, err)
		assert.ErrorIs(t, err, filesystem.ErrNotFound)
		assert.ErrorIs(t, err, os.ErrNotExist)
		assert.True(t, errdefs.IsNotFound(err))

		kind, ok := filesystem.KindOf(err)
		require.True(t, ok)
		assert.Equal(t, filesystem.KindNotFound, kind)
	})

	t.Run("WriteCreatesParents", func(t *testing.T) {
		storage, root := setup(t)
		path := filepath.Join(root, "a", "b", c.Name)
		f := c.New(path, filesystem.WithStorage(storage))

		require.NoError(t, f.Write(c.Value))
		exists, err := storage.Exists(path)
		require.NoError(t, err)
		assert.True(t, exists)
	})

	t.Run("HandlesReleased", func(t *testing.T) {
		storage, root := setup(t)
		counting := NewCountingFS(storage.Raw())
		f := c.New(filepath.Join(root, c.Name), filesystem.WithStorage(filesystem.NewStorage(counting)))

		_, _ = f.Read()
		require.NoError(t, f.Write(c.Value))
		require.NoError(t, f.Append(c.Addition))
		_, err := f.Read()
		require.NoError(t, err)

		assert.Positive(t, counting.OpenedCount())
		assert.Zero(t, counting.OpenCount(), "file handles left open")
	})
}

// RequireKind asserts that err is a handle error of kind.
func RequireKind(t *testing.T, err error, kind filesystem.Kind) {
	t.Helper()

	require.Error(t, err)
	var fe *filesystem.Error
	require.True(t, errors.As(err, &fe), "expected *filesystem.Error, got %T: %v", err, err)
	assert.Equal(t, kind, fe.Kind, "unexpected kind for %v", err)
}
