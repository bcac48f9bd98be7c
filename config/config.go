// Package config loads huffpack's optional YAML configuration file.
//
// The file is located by the --config flag or the HUFFPACK_CONFIG
// environment variable. There is no automatic discovery: without either,
// Default is used as is.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// EnvVar names the environment variable holding the config file path.
const EnvVar = "HUFFPACK_CONFIG"

type Config struct {
	// OutputExtension is appended to each file name by the compress command.
	OutputExtension string `yaml:"output_extension"`

	// Progress shows a progress bar while encoding.
	Progress bool `yaml:"progress"`

	// Verify decodes every container right after encoding it and compares
	// digests with the source.
	Verify bool `yaml:"verify"`

	// LogLevel is one of debug, info, warn or error.
	LogLevel string `yaml:"log_level"`

	// Color enables colored report output.
	Color bool `yaml:"color"`
}

func Default() Config {
	return Config{
		OutputExtension: ".huff",
		LogLevel:        "info",
		Color:           true,
	}
}

// Path returns the explicitly requested config path, flag first.
func Path(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	return os.Getenv(EnvVar)
}

// Load reads the file at path over the defaults. An empty path returns the
// defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.OutputExtension == "" {
		return errors.New("output_extension must not be empty")
	}
	if strings.ContainsRune(c.OutputExtension, os.PathSeparator) {
		return fmt.Errorf("output_extension %q must not contain a path separator", c.OutputExtension)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

func (c Config) Level() (slog.Level, error) {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log_level %q", c.LogLevel)
}
