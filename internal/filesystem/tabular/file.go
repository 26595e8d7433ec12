// Package tabular implements the tabular handle: delimited rows of string
// fields with standard CSV quoting.
package tabular

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/compose-network/fileaccess/internal/filesystem"
)

// Dialect describes the delimited-text flavour of a file.
type Dialect struct {
	Comma   rune
	UseCRLF bool
}

var (
	// CSV is the default dialect.
	CSV = Dialect{Comma: ','}
	// TSV separates fields with tabs.
	TSV = Dialect{Comma: '\t'}
)

// File is a tabular handle bound to one path.
type File struct {
	path    string
	dialect Dialect
	opts    filesystem.Options
}

var _ filesystem.File[[][]string] = (*File)(nil)

// New creates a comma-separated handle.
func New(path string, opts ...filesystem.Option) *File {
	return NewWithDialect(path, CSV, opts...)
}

// NewTSV creates a tab-separated handle.
func NewTSV(path string, opts ...filesystem.Option) *File {
	return NewWithDialect(path, TSV, opts...)
}

// NewWithDialect creates a handle using dialect.
func NewWithDialect(path string, dialect Dialect, opts ...filesystem.Option) *File {
	return &File{
		path:    path,
		dialect: dialect,
		opts:    filesystem.NewOptions(opts...),
	}
}

// Path returns the bound path.
func (f *File) Path() string {
	return f.path
}

// Dialect returns the dialect used for this handle.
func (f *File) Dialect() Dialect {
	return f.dialect
}

// Read parses every row. Rows may have differing field counts and no row is
// treated as a header. Blank lines are skipped; a row holding one empty
// field is stored as "" and reads back intact.
func (f *File) Read() ([][]string, error) {
	content, err := f.opts.Load(filesystem.OpRead, f.path)
	if err != nil {
		return nil, err
	}

	rows, err := Decode(content, f.dialect)
	if err != nil {
		return nil, filesystem.NewError(filesystem.OpRead, f.path, filesystem.KindDecode, err)
	}
	return rows, nil
}

// Write replaces the file with rows, one row per line.
func (f *File) Write(rows [][]string) error {
	content, err := Encode(rows, f.dialect)
	if err != nil {
		return filesystem.NewError(filesystem.OpWrite, f.path, filesystem.KindEncode, err)
	}
	return f.opts.Replace(filesystem.OpWrite, f.path, content)
}

// Append writes rows after the existing content. Prior rows are neither read
// nor rewritten, so the file must already end with a line break for the
// first appended row to start on its own line.
func (f *File) Append(rows [][]string) error {
	content, err := Encode(rows, f.dialect)
	if err != nil {
		return filesystem.NewError(filesystem.OpAppend, f.path, filesystem.KindEncode, err)
	}
	return f.opts.Extend(filesystem.OpAppend, f.path, content)
}

// Decode parses delimited text into rows.
func Decode(content []byte, dialect Dialect) ([][]string, error) {
	r := csv.NewReader(bytes.NewReader(content))
	r.Comma = dialect.Comma
	r.FieldsPerRecord = -1

	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse rows: %w", err)
	}
	if rows == nil {
		rows = [][]string{}
	}
	return rows, nil
}

var (
	errInvalidDelimiter = errors.New("invalid field delimiter")
	errEmptyRow         = errors.New("row has no fields")
	errCRLFField        = errors.New("field contains a CRLF line break, which reads back as LF")
)

// Encode serializes rows. Fields containing the delimiter, a quote or a line
// break are quoted and embedded quotes doubled. A row holding one empty field
// is written as "" so it is not read back as a blank line. Rows without
// fields and fields containing CRLF cannot be read back unchanged and are
// rejected.
func Encode(rows [][]string, dialect Dialect) ([]byte, error) {
	if !validDelimiter(dialect.Comma) {
		return nil, fmt.Errorf("failed to serialize rows: %w %q", errInvalidDelimiter, dialect.Comma)
	}

	terminator := "\n"
	if dialect.UseCRLF {
		terminator = "\r\n"
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.Comma = dialect.Comma
	w.UseCRLF = dialect.UseCRLF

	for i, row := range rows {
		if len(row) == 0 {
			return nil, fmt.Errorf("failed to serialize row %d: %w", i, errEmptyRow)
		}
		for _, field := range row {
			if strings.Contains(field, "\r\n") {
				return nil, fmt.Errorf("failed to serialize row %d: %w", i, errCRLFField)
			}
		}

		if len(row) == 1 && row[0] == "" {
			w.Flush()
			buf.WriteString(`""` + terminator)
			continue
		}
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("failed to serialize row %d: %w", i, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to serialize rows: %w", err)
	}
	return buf.Bytes(), nil
}

func validDelimiter(r rune) bool {
	return r != 0 && r != '"' && r != '\r' && r != '\n' && utf8.ValidRune(r) && r != utf8.RuneError
}

// Rows converts rows of arbitrary scalars to string fields using their
// default formatting.
func Rows(records ...[]any) [][]string {
	rows := make([][]string, 0, len(records))
	for _, record := range records {
		row := make([]string, len(record))
		for i, v := range record {
			row[i] = fmt.Sprint(v)
		}
		rows = append(rows, row)
	}
	return rows
}
