// Copyright 2025 The Bmppack Authors.
//
// Licensed under the Apache License, Version 2.0 <LICENSE-APACHE or
// https://www.apache.org/licenses/LICENSE-2.0>. This file may not be copied,
// modified, or distributed except according to those terms.
//
// SPDX-License-Identifier: Apache-2.0

// ----------------

// Package config loads the bmppack command's optional YAML configuration
// file.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v2"
)

var (
	ErrBadLogLevel = errors.New("config: bad log_level")
	ErrBadOutput   = errors.New("config: bad output")
)

// Config holds the settings that can also be given as command line flags.
// Flags that are explicitly set take precedence.
type Config struct {
	// Output is the decode output format: "png", "nie-bn8" or "nie-bn4".
	// Empty means "png".
	Output string `yaml:"output"`

	// Compress wraps the output in a Zstandard frame.
	Compress bool `yaml:"compress"`

	// LogLevel is a logrus level name, such as "info" or "debug".
	LogLevel string `yaml:"log_level"`

	// MaxDecompressedSize bounds Zstandard compressed inputs, in bytes. Zero
	// means the imagefmt package default.
	MaxDecompressedSize uint64 `yaml:"max_decompressed_size"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Output:   "png",
		LogLevel: "info",
	}
}

// Load reads and validates the YAML file at path. Keys that are absent keep
// their Default values.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: reading %s: %w", path, err)
	}
	c, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Parse decodes and validates YAML configuration data. Unknown keys are an
// error.
func Parse(data []byte) (Config, error) {
	c := Default()
	if err := yaml.UnmarshalStrict(data, &c); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate checks the enumerated fields.
func (c Config) Validate() error {
	switch c.Output {
	case "", "png", "nie-bn8", "nie-bn4":
		// No-op.
	default:
		return ErrBadOutput
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Level returns LogLevel as a logrus level. Empty means info.
func (c Config) Level() (logrus.Level, error) {
	if c.LogLevel == "" {
		return logrus.InfoLevel, nil
	}
	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return 0, ErrBadLogLevel
	}
	return level, nil
}
