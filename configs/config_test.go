package configs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := MustDefaultConfig()

	require.NoError(t, cfg.Validate())
	assert.Equal(t, FormatAuto, cfg.Files.Format)
	assert.Equal(t, "info", cfg.LogLevel)

	perm, err := cfg.Files.FileMode()
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o644), perm)

	comma, err := cfg.Files.Tabular.CommaRune()
	require.NoError(t, err)
	assert.Equal(t, ',', comma)
}

func TestLoadMergesConfigFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(`
files:
  format: tsv
  tabular:
    comma: '\t'
`), 0644))

	v := viper.New()
	used, err := Load(v, dir)
	require.NoError(t, err)
	assert.Equal(t, "config.yaml", filepath.Base(used))

	var cfg Config
	require.NoError(t, v.Unmarshal(&cfg))
	require.NoError(t, cfg.Validate())

	assert.Equal(t, FormatTSV, cfg.Files.Format)
	assert.Equal(t, "0644", cfg.Files.Perm, "unset keys keep embedded defaults")
	comma, err := cfg.Files.Tabular.CommaRune()
	require.NoError(t, err)
	assert.Equal(t, '\t', comma)
}

func TestLoadWithoutConfigFile(t *testing.T) {
	v := viper.New()
	used, err := Load(v, t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, used)
	assert.Equal(t, "auto", v.GetString("files.format"))
}

func TestValidateCollectsErrors(t *testing.T) {
	cfg := Config{
		Files: Files{
			Format:  "xml",
			Perm:    "999",
			Tabular: Tabular{Comma: ";;"},
		},
	}

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "files.format")
	assert.Contains(t, err.Error(), "files.perm")
	assert.Contains(t, err.Error(), "files.tabular.comma")
	assert.Contains(t, err.Error(), "log-level is required")
}

func TestFileModeRejectsTooWide(t *testing.T) {
	_, err := Files{Perm: "1777"}.FileMode()
	assert.Error(t, err)
}
