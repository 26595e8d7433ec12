package files

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/compose-network/fileaccess/configs"
	"github.com/compose-network/fileaccess/internal/filesystem"
	"github.com/compose-network/fileaccess/internal/filesystem/tabular"
)

func TestResolveFormat(t *testing.T) {
	tests := map[string]configs.Format{
		"a.json":     configs.FormatJSON,
		"a.YAML":     configs.FormatYAML,
		"a.yml":      configs.FormatYAML,
		"a.csv":      configs.FormatCSV,
		"a.tsv":      configs.FormatTSV,
		"notes":      configs.FormatText,
		"README.txt": configs.FormatText,
	}
	for path, want := range tests {
		assert.Equal(t, want, ResolveFormat(path, configs.FormatAuto), path)
	}
	assert.Equal(t, configs.FormatText, ResolveFormat("a.json", configs.FormatText))
}

func TestOpenRoundTrips(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		format   configs.Format
		write    string
		append   string
		expected string
	}{
		{
			name:     "json",
			path:     "/data/events.json",
			write:    `["a"]`,
			append:   `{"b": 1}`,
			expected: "[\n  \"a\",\n  {\n    \"b\": 1\n  }\n]\n",
		},
		{
			name:     "yaml",
			path:     "/data/events.yaml",
			write:    "- a\n",
			append:   "b",
			expected: "- a\n- b\n",
		},
		{
			name:     "text",
			path:     "/data/notes.txt",
			write:    "A",
			append:   "B",
			expected: "AB",
		},
		{
			name:     "csv",
			path:     "/data/table.csv",
			write:    "a,b\n",
			append:   "\"x,y\",2\n",
			expected: "a,b\n\"x,y\",2\n",
		},
		{
			name:     "tsv forced",
			path:     "/data/table.dat",
			format:   configs.FormatTSV,
			write:    "a\tb\n",
			append:   "c\td\n",
			expected: "a\tb\nc\td\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, _, err := Open(tt.path, Settings{Format: tt.format, Storage: filesystem.NewMemStorage()})
			require.NoError(t, err)

			require.NoError(t, h.Write(tt.write))
			require.NoError(t, h.Append(tt.append))

			got, err := h.Read()
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestOpenInvalidStructuredInput(t *testing.T) {
	h, format, err := Open("/data/x.json", Settings{Storage: filesystem.NewMemStorage()})
	require.NoError(t, err)
	assert.Equal(t, configs.FormatJSON, format)

	err = h.Write("{broken")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid json input")
}

func TestOpenCustomDialect(t *testing.T) {
	storage := filesystem.NewMemStorage()
	h, _, err := Open("/data/x.csv", Settings{
		Storage: storage,
		Dialect: tabular.Dialect{Comma: ';'},
	})
	require.NoError(t, err)
	require.NoError(t, h.Write("a;b\n"))

	content, err := storage.ReadFile("/data/x.csv")
	require.NoError(t, err)
	assert.Equal(t, "a;b\n", string(content))
}

func TestOpenUnknownFormat(t *testing.T) {
	_, _, err := Open("x", Settings{Format: "xml"})
	assert.Error(t, err)
}

func TestCommandsAgainstDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "list.json")

	run := func(stdin string, args ...string) (string, error) {
		var out bytes.Buffer
		CMD.SetArgs(args)
		CMD.SetOut(&out)
		CMD.SetIn(strings.NewReader(stdin))
		err := CMD.Execute()
		return out.String(), err
	}

	_, err := run("", "append", path, `"first"`)
	require.NoError(t, err)
	_, err = run(`"second"`, "append", path)
	require.NoError(t, err)

	out, err := run("", "read", path)
	require.NoError(t, err)
	assert.Equal(t, "[\n  \"first\",\n  \"second\"\n]\n", out)

	_, err = run("", "read", filepath.Join(t.TempDir(), "missing.txt"))
	require.Error(t, err)
	assert.ErrorIs(t, err, filesystem.ErrNotFound)
}
