// Copyright 2026 The PotteryTracker Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"log/slog"

	"github.com/CruzerUzer/potterytracker/lib/archive"
	"github.com/CruzerUzer/potterytracker/lib/config"
	"github.com/CruzerUzer/potterytracker/lib/imagestore"
	"github.com/CruzerUzer/potterytracker/lib/store"
)

// workshop bundles the open handles a subcommand needs: the database,
// the image directory, and the archive service over them.
type workshop struct {
	db      *store.Store
	service *archive.Service
}

func (w *workshop) Close() error {
	return w.db.Close()
}

// openWorkshop opens the workshop described by the configuration. The
// archive directory is created if missing; the database and image
// directory must already exist as part of the tracker installation.
func openWorkshop(cfg *config.Config, logger *slog.Logger) (*workshop, error) {
	db, err := store.Open(store.Config{
		Path:   cfg.DatabasePath,
		Logger: logger,
	})
	if err != nil {
		return nil, fmt.Errorf("opening workshop database: %w", err)
	}

	images, err := imagestore.Open(imagestore.Config{
		Dir:    cfg.ImageDir,
		Logger: logger,
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("opening image directory: %w", err)
	}

	if err := ensureDir(cfg.ArchiveDir); err != nil {
		db.Close()
		return nil, err
	}

	service, err := archive.NewService(archive.ServiceConfig{
		Store:      db,
		Images:     images,
		ArchiveDir: cfg.ArchiveDir,
		Logger:     logger,
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &workshop{db: db, service: service}, nil
}
