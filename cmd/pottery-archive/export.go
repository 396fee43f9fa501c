// Copyright 2026 The PotteryTracker Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"
)

func runExport(args []string) error {
	flags := pflag.NewFlagSet("export", pflag.ContinueOnError)
	configPath := flags.String("config", "", "config file path (default: $POTTERY_CONFIG)")
	potterName := flags.String("potter", "", "display name of the potter to export (required)")
	encrypt := flags.Bool("encrypt", false, "password-protect the archive")
	passwordFile := flags.String("password-file", "", "read the password from the first line of this file instead of prompting")
	flags.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: pottery-archive export --potter <name> [flags]\n\n")
		flags.PrintDefaults()
	}
	if err := flags.Parse(args); err != nil {
		return err
	}
	if *potterName == "" {
		flags.Usage()
		return fmt.Errorf("--potter is required")
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		return err
	}
	logger := newLogger(cfg.LogLevel)

	var password string
	if *passwordFile != "" {
		password, err = readPasswordFile(*passwordFile)
		if err != nil {
			return err
		}
	} else if *encrypt {
		password, err = promptPassword(true)
		if err != nil {
			return err
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	w, err := openWorkshop(cfg, logger)
	if err != nil {
		return err
	}
	defer w.Close()

	potter, err := w.db.PotterByName(ctx, *potterName)
	if err != nil {
		return fmt.Errorf("resolving potter %q: %w", *potterName, err)
	}

	meta, err := w.service.Create(ctx, potter.ID, password)
	if err != nil {
		return fmt.Errorf("exporting workshop: %w", err)
	}

	if err := recordExport(cfg.CatalogPath, potter.Name, meta); err != nil {
		// The archive is already on disk; a catalog failure is not
		// worth failing the export over.
		logger.Warn("recording export in catalog", "error", err)
	}

	fmt.Printf("wrote %s (%d bytes)\n", meta.Filename, meta.SizeBytes)
	return nil
}
