package files

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/compose-network/fileaccess/configs"
	"github.com/compose-network/fileaccess/internal/filesystem"
	"github.com/compose-network/fileaccess/internal/filesystem/structured"
	"github.com/compose-network/fileaccess/internal/filesystem/tabular"
	"github.com/compose-network/fileaccess/internal/filesystem/text"
)

// Settings select and configure the handle opened for a path.
type Settings struct {
	Format  configs.Format
	Perm    os.FileMode
	Dialect tabular.Dialect
	Storage *filesystem.Storage
}

// Handle exchanges payloads as text, whatever the underlying format.
type Handle interface {
	Read() (string, error)
	Write(data string) error
	Append(data string) error
}

type textHandle[T any] struct {
	file   filesystem.File[T]
	parse  func(string) (T, error)
	render func(T) (string, error)
}

func (h *textHandle[T]) Read() (string, error) {
	v, err := h.file.Read()
	if err != nil {
		return "", err
	}
	return h.render(v)
}

func (h *textHandle[T]) Write(data string) error {
	v, err := h.parse(data)
	if err != nil {
		return err
	}
	return h.file.Write(v)
}

func (h *textHandle[T]) Append(data string) error {
	v, err := h.parse(data)
	if err != nil {
		return err
	}
	return h.file.Append(v)
}

// ResolveFormat maps FormatAuto to a concrete format by file extension.
func ResolveFormat(path string, format configs.Format) configs.Format {
	if format != configs.FormatAuto && format != "" {
		return format
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return configs.FormatJSON
	case ".yaml", ".yml":
		return configs.FormatYAML
	case ".csv":
		return configs.FormatCSV
	case ".tsv":
		return configs.FormatTSV
	default:
		return configs.FormatText
	}
}

// Open returns a handle for path and the concrete format it uses.
//
//nolint:ireturn // the variant is picked at runtime.
func Open(path string, s Settings) (Handle, configs.Format, error) {
	var opts []filesystem.Option
	if s.Storage != nil {
		opts = append(opts, filesystem.WithStorage(s.Storage))
	}
	if s.Perm != 0 {
		opts = append(opts, filesystem.WithPerm(s.Perm))
	}

	format := ResolveFormat(path, s.Format)
	switch format {
	case configs.FormatJSON:
		return structuredHandle(structured.NewJSON(path, opts...)), format, nil
	case configs.FormatYAML:
		return structuredHandle(structured.NewYAML(path, opts...)), format, nil
	case configs.FormatText:
		return &textHandle[string]{
			file:   text.New(path, opts...),
			parse:  func(s string) (string, error) { return s, nil },
			render: func(s string) (string, error) { return s, nil },
		}, format, nil
	case configs.FormatCSV, configs.FormatTSV:
		dialect := s.Dialect
		if dialect.Comma == 0 {
			dialect.Comma = tabular.CSV.Comma
		}
		if format == configs.FormatTSV {
			dialect.Comma = tabular.TSV.Comma
		}
		return tabularHandle(tabular.NewWithDialect(path, dialect, opts...)), format, nil
	default:
		return nil, format, fmt.Errorf("unsupported format %q", format)
	}
}

func structuredHandle(f *structured.File) Handle {
	codec := f.Codec()
	return &textHandle[any]{
		file: f,
		parse: func(s string) (any, error) {
			v, err := codec.Unmarshal([]byte(s))
			if err != nil {
				return nil, fmt.Errorf("invalid %s input: %w", codec.Name(), err)
			}
			return v, nil
		},
		render: func(v any) (string, error) {
			out, err := codec.Marshal(v)
			if err != nil {
				return "", err
			}
			return string(out), nil
		},
	}
}

func tabularHandle(f *tabular.File) Handle {
	dialect := f.Dialect()
	return &textHandle[[][]string]{
		file: f,
		parse: func(s string) ([][]string, error) {
			rows, err := tabular.Decode([]byte(s), dialect)
			if err != nil {
				return nil, fmt.Errorf("invalid tabular input: %w", err)
			}
			return rows, nil
		},
		render: func(rows [][]string) (string, error) {
			out, err := tabular.Encode(rows, dialect)
			if err != nil {
				return "", err
			}
			return string(out), nil
		},
	}
}
