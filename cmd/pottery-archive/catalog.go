// Copyright 2026 The PotteryTracker Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"text/tabwriter"

	"github.com/spf13/pflag"

	"github.com/CruzerUzer/potterytracker/lib/archive"
	"github.com/CruzerUzer/potterytracker/lib/codec"
	"github.com/CruzerUzer/potterytracker/lib/config"
)

// catalog is the CBOR file recording every archive this installation
// has produced. The archive files themselves are the source of truth;
// the catalog only saves opening each container to answer "what have
// I exported and when".
type catalog struct {
	Entries []catalogEntry `cbor:"entries"`
}

// catalogEntry pairs archive metadata with the potter it was exported
// from.
type catalogEntry struct {
	PotterName string           `cbor:"potter_name"`
	Metadata   archive.Metadata `cbor:"metadata"`
}

// loadCatalog reads the catalog file. A missing file is an empty
// catalog, not an error — the first export creates it.
func loadCatalog(path string) (*catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &catalog{}, nil
		}
		return nil, fmt.Errorf("reading catalog %s: %w", path, err)
	}
	var c catalog
	if err := codec.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("decoding catalog %s: %w", path, err)
	}
	return &c, nil
}

// save writes the catalog atomically: temp file in the same
// directory, then rename.
func (c *catalog) save(path string) error {
	data, err := codec.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding catalog: %w", err)
	}
	temporaryPath := path + ".tmp"
	if err := os.WriteFile(temporaryPath, data, 0o644); err != nil {
		return fmt.Errorf("writing catalog: %w", err)
	}
	if err := os.Rename(temporaryPath, path); err != nil {
		_ = os.Remove(temporaryPath)
		return fmt.Errorf("replacing catalog: %w", err)
	}
	return nil
}

// recordExport appends one export to the catalog on disk. Failures
// are reported but must not fail the export itself — the archive is
// already safely written.
func recordExport(catalogPath, potterName string, meta archive.Metadata) error {
	c, err := loadCatalog(catalogPath)
	if err != nil {
		return err
	}
	c.Entries = append(c.Entries, catalogEntry{PotterName: potterName, Metadata: meta})
	return c.save(catalogPath)
}

func runList(args []string) error {
	flags := pflag.NewFlagSet("list", pflag.ContinueOnError)
	configPath := flags.String("config", "", "config file path (default: $POTTERY_CONFIG)")
	if err := flags.Parse(args); err != nil {
		return err
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		return err
	}

	c, err := loadCatalog(cfg.CatalogPath)
	if err != nil {
		return err
	}
	if len(c.Entries) == 0 {
		fmt.Println("no archives recorded")
		return nil
	}

	tw := tabwriter.NewWriter(os.Stdout, 2, 0, 3, ' ', 0)
	fmt.Fprintln(tw, "CREATED\tPOTTER\tFILE\tSIZE\tENCRYPTED")
	for _, entry := range c.Entries {
		encrypted := "no"
		if entry.Metadata.Encrypted {
			encrypted = "yes"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\n",
			entry.Metadata.CreatedAt,
			entry.PotterName,
			entry.Metadata.Filename,
			entry.Metadata.SizeBytes,
			encrypted,
		)
	}
	return tw.Flush()
}

// loadConfig resolves the configuration from the --config flag or the
// POTTERY_CONFIG environment variable.
func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFile(path)
	}
	return config.Load()
}

// ensureDir creates a directory if it does not exist.
func ensureDir(path string) error {
	if err := os.MkdirAll(path, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	return nil
}
