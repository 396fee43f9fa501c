// Copyright 2026 The PotteryTracker Authors
// SPDX-License-Identifier: Apache-2.0

// Package config provides YAML configuration loading for the tracker
// CLI.
//
// Configuration is loaded from a single file specified by either the
// POTTERY_CONFIG environment variable (via [Load]) or a --config flag
// (via [LoadFile]). There are no fallbacks, no ~/.config discovery,
// and no automatic file search — deterministic, auditable
// configuration with no hidden overrides. Environment variables do
// not override config values; the only expansion performed is
// ${VAR} and ${VAR:-default} patterns in path fields, for
// portability of checked-in config files.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"gopkg.in/yaml.v3"
)

// Config holds everything the archive CLI needs to locate workshop
// data.
type Config struct {
	// DatabasePath is the SQLite database file holding the workshop
	// rows.
	DatabasePath string `yaml:"database_path"`

	// ImageDir is the photo directory (thumbnails live in its
	// "thumbs" subdirectory).
	ImageDir string `yaml:"image_dir"`

	// ArchiveDir is where exported archive containers are written.
	ArchiveDir string `yaml:"archive_dir"`

	// CatalogPath is the CBOR catalog of produced archives. Defaults
	// to "catalog.cbor" inside ArchiveDir when empty.
	CatalogPath string `yaml:"catalog_path"`

	// LogLevel is one of "debug", "info", "warn", "error". Defaults
	// to "info".
	LogLevel string `yaml:"log_level"`
}

// Default returns a configuration rooted under the user cache
// directory. These defaults give every field a sensible value before
// the config file is merged on top; the file remains the source of
// truth.
func Default() *Config {
	homeDir, _ := os.UserHomeDir()
	root := filepath.Join(homeDir, ".local", "share", "potterytracker")

	return &Config{
		DatabasePath: filepath.Join(root, "workshop.db"),
		ImageDir:     filepath.Join(root, "images"),
		ArchiveDir:   filepath.Join(root, "archives"),
		LogLevel:     "info",
	}
}

// Load loads configuration from the file named by the POTTERY_CONFIG
// environment variable. Fails if the variable is not set.
func Load() (*Config, error) {
	path := os.Getenv("POTTERY_CONFIG")
	if path == "" {
		return nil, fmt.Errorf("POTTERY_CONFIG environment variable not set; " +
			"set it to the path of your config file, or use the --config flag")
	}
	return LoadFile(path)
}

// LoadFile loads configuration from a specific file path, merging it
// over the defaults and expanding path variables.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}

	cfg.expandVariables()

	if cfg.CatalogPath == "" {
		cfg.CatalogPath = filepath.Join(cfg.ArchiveDir, "catalog.cbor")
	}
	return cfg, nil
}

// expandVariables expands ${VAR} and ${VAR:-default} patterns in the
// path fields.
func (c *Config) expandVariables() {
	c.DatabasePath = expandVars(c.DatabasePath)
	c.ImageDir = expandVars(c.ImageDir)
	c.ArchiveDir = expandVars(c.ArchiveDir)
	c.CatalogPath = expandVars(c.CatalogPath)
}

var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

func expandVars(s string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}
		if value := os.Getenv(parts[1]); value != "" {
			return value
		}
		if len(parts) >= 3 {
			return parts[2]
		}
		return ""
	})
}
