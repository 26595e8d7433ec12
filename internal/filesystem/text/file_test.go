package text

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/compose-network/fileaccess/internal/filesystem"
	"github.com/compose-network/fileaccess/internal/filesystem/filesystemtest"
)

func TestConformance(t *testing.T) {
	filesystemtest.Run(t, filesystemtest.Case[string]{
		Name: "notes.txt",
		New: func(path string, opts ...filesystem.Option) filesystem.File[string] {
			return New(path, opts...)
		},
		Value:       "A",
		Addition:    "B",
		Appended:    "AB",
		Replacement: "replaced\nwith two lines\n",
	})
}

func TestAppendCreatesMissingFile(t *testing.T) {
	f := New("/logs/app.log", filesystem.WithStorage(filesystem.NewMemStorage()))

	require.NoError(t, f.Append("first\n"))
	require.NoError(t, f.Append("second\n"))

	got, err := f.Read()
	require.NoError(t, err)
	assert.Equal(t, "first\nsecond\n", got)
}

func TestAppendDoesNotReadExistingContent(t *testing.T) {
	storage := filesystem.NewMemStorage()
	counting := filesystemtest.NewCountingFS(storage.Raw())
	f := New("/data/raw.txt", filesystem.WithStorage(filesystem.NewStorage(counting)))

	// Invalid UTF-8 would fail a read, so a successful append proves none happened.
	opts := filesystem.NewOptions(filesystem.WithStorage(storage))
	require.NoError(t, opts.Replace(filesystem.OpWrite, f.Path(), []byte{0xff, 0xfe}))

	require.NoError(t, f.Append("tail"))
	assert.Equal(t, int64(1), counting.OpenedCount())

	content, err := storage.ReadFile(f.Path())
	require.NoError(t, err)
	assert.Equal(t, []byte{0xff, 0xfe, 't', 'a', 'i', 'l'}, content)
}

func TestReadInvalidUTF8(t *testing.T) {
	storage := filesystem.NewMemStorage()
	f := New("/data/bin.txt", filesystem.WithStorage(storage))
	opts := filesystem.NewOptions(filesystem.WithStorage(storage))
	require.NoError(t, opts.Replace(filesystem.OpWrite, f.Path(), []byte{0xff}))

	_, err := f.Read()
	filesystemtest.RequireKind(t, err, filesystem.KindDecode)
}

func TestWriteEmptyString(t *testing.T) {
	f := New("/data/empty.txt", filesystem.WithStorage(filesystem.NewMemStorage()))
	require.NoError(t, f.Write("something"))
	require.NoError(t, f.Write(""))

	got, err := f.Read()
	require.NoError(t, err)
	assert.Empty(t, got)
}
