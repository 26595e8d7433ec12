package configs

import (
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/spf13/viper"
)

const configName = "config"

var (
	//go:embed config.example.yaml
	defaultConfigYAML string

	defaultConfigOnce sync.Once
	defaultConfig     Config
	defaultConfigErr  error
)

// DefaultConfig returns the parsed configuration from the embedded config.example.yaml.
func DefaultConfig() (Config, error) {
	defaultConfigOnce.Do(func() {
		v := viper.New()
		if err := readDefaults(v); err != nil {
			defaultConfigErr = err
			return
		}

		if err := v.Unmarshal(&defaultConfig); err != nil {
			defaultConfigErr = fmt.Errorf("failed to decode embedded config.example.yaml: %w", err)
			return
		}
	})

	if defaultConfigErr != nil {
		return Config{}, defaultConfigErr
	}

	return defaultConfig, nil
}

// MustDefaultConfig returns embedded defaults or panics if they cannot be loaded.
func MustDefaultConfig() Config {
	cfg, err := DefaultConfig()
	if err != nil {
		panic(err)
	}
	return cfg
}

// Load seeds v with the embedded defaults and merges the first config.yaml
// found in searchPaths over them. It returns the file used, or "" when no
// config file exists.
func Load(v *viper.Viper, searchPaths ...string) (string, error) {
	if err := readDefaults(v); err != nil {
		return "", err
	}

	v.SetConfigName(configName)
	for _, p := range searchPaths {
		v.AddConfigPath(p)
	}

	if err := v.MergeInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return "", nil
		}
		return "", fmt.Errorf("error reading config file: %w", err)
	}

	return v.ConfigFileUsed(), nil
}

func readDefaults(v *viper.Viper) error {
	v.SetConfigType("yaml")
	if err := v.ReadConfig(strings.NewReader(defaultConfigYAML)); err != nil {
		return fmt.Errorf("failed to read embedded config.example.yaml: %w", err)
	}
	return nil
}
