package configs

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"unicode/utf8"
)

var Values Config

type (
	Format string

	Config struct {
		LogLevel string `mapstructure:"log-level"`
		Files    Files  `mapstructure:"files"`
	}

	Files struct {
		Format  Format  `mapstructure:"format"`
		Perm    string  `mapstructure:"perm"`
		Tabular Tabular `mapstructure:"tabular"`
	}

	Tabular struct {
		Comma string `mapstructure:"comma"`
		CRLF  bool   `mapstructure:"crlf"`
	}
)

const (
	FormatAuto Format = "auto"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatText Format = "text"
	FormatCSV  Format = "csv"
	FormatTSV  Format = "tsv"
)

var formats = []Format{FormatAuto, FormatJSON, FormatYAML, FormatText, FormatCSV, FormatTSV}

// FileMode parses Perm as an octal permission.
func (c Files) FileMode() (os.FileMode, error) {
	perm, err := strconv.ParseUint(c.Perm, 8, 32)
	if err != nil {
		return 0, fmt.Errorf("files.perm %q is not an octal mode: %w", c.Perm, err)
	}
	if perm > 0o777 {
		return 0, fmt.Errorf("files.perm %q exceeds 0777", c.Perm)
	}
	return os.FileMode(perm), nil
}

// CommaRune returns the delimiter, honouring the "\t" escape.
func (c Tabular) CommaRune() (rune, error) {
	comma := c.Comma
	if comma == `\t` {
		comma = "\t"
	}
	if utf8.RuneCountInString(comma) != 1 {
		return 0, fmt.Errorf("files.tabular.comma %q must be a single character", c.Comma)
	}
	r, _ := utf8.DecodeRuneInString(comma)
	return r, nil
}

func (c *Config) Validate() error {
	var errs []error

	if c.LogLevel == "" {
		errs = append(errs, errors.New("log-level is required"))
	}
	if err := c.Files.Validate(); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %w", errors.Join(errs...))
	}

	return nil
}

func (c Files) Validate() error {
	var errs []error

	known := false
	for _, f := range formats {
		if c.Format == f {
			known = true
			break
		}
	}
	if !known {
		errs = append(errs, fmt.Errorf("files.format must be one of %v, got %q", formats, c.Format))
	}
	if _, err := c.FileMode(); err != nil {
		errs = append(errs, err)
	}
	if _, err := c.Tabular.CommaRune(); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}
