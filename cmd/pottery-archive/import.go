// Copyright 2026 The PotteryTracker Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/CruzerUzer/potterytracker/lib/container"
	"github.com/CruzerUzer/potterytracker/lib/store"
)

func runImport(args []string) error {
	flags := pflag.NewFlagSet("import", pflag.ContinueOnError)
	configPath := flags.String("config", "", "config file path (default: $POTTERY_CONFIG)")
	potterName := flags.String("potter", "", "display name of the target potter (required)")
	createPotter := flags.Bool("create", false, "create the target potter if it does not exist")
	passwordFile := flags.String("password-file", "", "read the password from the first line of this file instead of prompting")
	flags.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: pottery-archive import --potter <name> [flags] <archive>\n\n")
		flags.PrintDefaults()
	}
	if err := flags.Parse(args); err != nil {
		return err
	}
	if *potterName == "" {
		flags.Usage()
		return fmt.Errorf("--potter is required")
	}
	if flags.NArg() != 1 {
		flags.Usage()
		return fmt.Errorf("exactly one archive path expected, got %d", flags.NArg())
	}
	archivePath := flags.Arg(0)

	cfg, err := loadConfig(*configPath)
	if err != nil {
		return err
	}
	logger := newLogger(cfg.LogLevel)

	// The filename convention is the only encrypted-ness signal, so
	// the password question is answerable before opening anything.
	var password string
	if container.IsEncryptedName(archivePath) {
		if *passwordFile != "" {
			password, err = readPasswordFile(*passwordFile)
		} else {
			password, err = promptPassword(false)
		}
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
	if errors.Is(err, store.ErrNotFound) && *createPotter {
		potter, err = w.db.CreatePotter(ctx, *potterName)
		if err != nil {
			return fmt.Errorf("creating potter %q: %w", *potterName, err)
		}
	} else if err != nil {
		return fmt.Errorf("resolving potter %q (use --create to create it): %w", *potterName, err)
	}

	stats, err := w.service.Import(ctx, archivePath, password, potter.ID)
	if err != nil {
		return err
	}

	fmt.Printf("imported into %s: %d stages, %d materials, %d items, %d links, %d images\n",
		potter.Name, stats.Stages, stats.Materials, stats.Items, stats.Links, stats.Images)
	return nil
}
