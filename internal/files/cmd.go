package files

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/compose-network/fileaccess/configs"
	"github.com/compose-network/fileaccess/internal/filesystem"
	"github.com/compose-network/fileaccess/internal/filesystem/tabular"
	"github.com/compose-network/fileaccess/internal/logger"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	CMD = &cobra.Command{
		Use:   "file",
		Short: "Read, write and append files through format-aware handles",
	}

	readCmd = &cobra.Command{
		Use:   "read <path>",
		Short: "Print the decoded content of a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := open(args[0])
			if err != nil {
				return err
			}

			out, err := h.Read()
			if err != nil {
				return failure("read", args[0], err)
			}
			_, err = io.WriteString(cmd.OutOrStdout(), out)
			return err
		},
	}

	writeCmd = &cobra.Command{
		Use:   "write <path> [data]",
		Short: "Replace a file with data (read from stdin when omitted)",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return store(cmd, args, "write", Handle.Write)
		},
	}

	appendCmd = &cobra.Command{
		Use:   "append <path> [data]",
		Short: "Append data to a file (read from stdin when omitted)",
		Long: "Append data to a file. Text and tabular files are extended in place. " +
			"Structured files must hold a top-level sequence; the data becomes one new element. " +
			"A missing or unparsable structured file is replaced by a one-element sequence.",
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return store(cmd, args, "append", Handle.Append)
		},
	}
)

func init() {
	CMD.AddCommand(readCmd)
	CMD.AddCommand(writeCmd)
	CMD.AddCommand(appendCmd)
}

func store(cmd *cobra.Command, args []string, action string, fn func(Handle, string) error) error {
	path := args[0]
	h, err := open(path)
	if err != nil {
		return err
	}

	var data string
	if len(args) == 2 {
		data = args[1]
	} else {
		raw, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("failed to read data from stdin: %w", err)
		}
		data = string(raw)
	}

	if err := fn(h, data); err != nil {
		return failure(action, path, err)
	}

	logger.Named("file").With("path", path, "bytes", len(data)).Info(action + " complete")
	return nil
}

func open(path string) (Handle, error) {
	settings, err := loadSettings()
	if err != nil {
		return nil, err
	}

	h, format, err := Open(path, settings)
	if err != nil {
		return nil, err
	}
	logger.Named("file").With("path", path, "format", format).Debug("handle opened")
	return h, nil
}

func failure(action, path string, err error) error {
	log := logger.Named("file").With("path", path, "err", err.Error())
	if kind, ok := filesystem.KindOf(err); ok {
		log = log.With("code", kind.String())
	}
	log.Error(action + " failed")
	return fmt.Errorf("error occurred during %s of %s: %w", action, path, err)
}

func loadSettings() (Settings, error) {
	// Re-unmarshal to include flag overrides.
	if err := viper.Unmarshal(&configs.Values); err != nil {
		return Settings{}, fmt.Errorf("failed to unmarshal config with flag overrides: %w", err)
	}
	if err := configs.Values.Files.Validate(); err != nil {
		return Settings{}, err
	}

	cfg := configs.Values.Files
	perm, err := cfg.FileMode()
	if err != nil {
		return Settings{}, err
	}
	comma, err := cfg.Tabular.CommaRune()
	if err != nil {
		return Settings{}, err
	}

	slog.Debug("file settings resolved", "format", cfg.Format, "perm", perm)

	return Settings{
		Format:  cfg.Format,
		Perm:    perm,
		Dialect: tabular.Dialect{Comma: comma, UseCRLF: cfg.Tabular.CRLF},
	}, nil
}
