package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds the settings read from an everest YAML config file.
// Fields missing from the file keep their defaults.
type Config struct {
	Prompt             string `yaml:"prompt"`
	ContinuationPrompt string `yaml:"continuation_prompt"`
	HistoryFile        string `yaml:"history_file"`
	LogLevel           string `yaml:"log_level"`
}

const defaultHistoryFile = ".everest_history"

// DefaultConfig returns the settings used when no config file is given.
func DefaultConfig() Config {
	return Config{
		Prompt:             "> ",
		ContinuationPrompt: ". ",
		LogLevel:           "warn",
	}
}

// LoadConfig reads the config file at path over the defaults. Unknown keys
// are an error.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	file, err := os.Open(path)
	if err != nil {
		return cfg, fmt.Errorf("config: %w", err)
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if _, err := cfg.Level(); err != nil {
		return cfg, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// Level parses LogLevel with slog's level names. An empty LogLevel means
// warn.
func (c Config) Level() (slog.Level, error) {
	if c.LogLevel == "" {
		return slog.LevelWarn, nil
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelWarn, fmt.Errorf("unknown log level: %s", c.LogLevel)
	}
	return level, nil
}

// HistoryPath is where the prompt keeps its history: HistoryFile if set,
// otherwise a file in the home directory. It is empty when neither is
// available.
func (c Config) HistoryPath() string {
	if c.HistoryFile != "" {
		return c.HistoryFile
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, defaultHistoryFile)
}
