package main

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/compose-network/fileaccess/configs"
	"github.com/compose-network/fileaccess/internal/files"
	"github.com/compose-network/fileaccess/internal/logger"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const appName = "fileaccess"

var rootCmd = &cobra.Command{
	Use:          appName,
	Short:        "CLI for reading, writing and appending JSON, YAML, text and CSV files",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logger.Initialize(slog.LevelInfo)

		var searchPaths []string
		if execPath, err := os.Executable(); err == nil {
			searchPaths = append(searchPaths, filepath.Dir(execPath))
		}
		searchPaths = append(searchPaths, ".", "./configs")

		// A missing config file is fine: embedded defaults and flags cover everything.
		used, err := configs.Load(viper.GetViper(), searchPaths...)
		if err != nil {
			const errMsg = "error reading config file"
			slog.With("err", err.Error()).Error(errMsg)
			return errors.Join(err, errors.New(errMsg))
		}

		if err := viper.Unmarshal(&configs.Values); err != nil {
			const errMsg = "unable to decode application config"
			slog.With("err", err.Error()).Error(errMsg)
			return errors.Join(err, errors.New(errMsg))
		}

		if err := configs.Values.Validate(); err != nil {
			slog.With("err", err.Error()).Error("invalid application config")
			return err
		}

		level, err := logger.ParseLevel(configs.Values.LogLevel)
		if err != nil {
			return err
		}
		logger.Initialize(level)

		if used != "" {
			slog.With("config_file", used).Debug("config file loaded")
		} else {
			slog.Debug("no config file found, will rely on flags and defaults")
		}
		slog.With("config", configs.Values).Debug("configuration loaded")

		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().String("log-level", configs.MustDefaultConfig().LogLevel, "Log level: debug, info, warn or error")
	if err := viper.BindPFlag("log-level", rootCmd.PersistentFlags().Lookup("log-level")); err != nil {
		panic(err)
	}
}

func main() {
	rootCmd.AddCommand(files.CMD)

	if err := rootCmd.Execute(); err != nil {
		slog.With("err", err.Error()).Error("failed to execute root command")
		os.Exit(1)
	}
}
