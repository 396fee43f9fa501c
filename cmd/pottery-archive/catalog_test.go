// Copyright 2026 The PotteryTracker Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/CruzerUzer/potterytracker/lib/archive"
)

func TestCatalogMissingFileIsEmpty(t *testing.T) {
	c, err := loadCatalog(filepath.Join(t.TempDir(), "absent.cbor"))
	if err != nil {
		t.Fatalf("loadCatalog: %v", err)
	}
	if len(c.Entries) != 0 {
		t.Errorf("missing catalog yielded %d entries", len(c.Entries))
	}
}

func TestCatalogRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.cbor")

	meta := archive.Metadata{
		Filename:  "aiko-20260314-092653.ptbox.enc",
		SizeBytes: 4096,
		Encrypted: true,
		CreatedAt: "2026-03-14T09:26:53Z",
	}
	if err := recordExport(path, "Aiko Salazar", meta); err != nil {
		t.Fatalf("recordExport: %v", err)
	}
	if err := recordExport(path, "Aiko Salazar", meta); err != nil {
		t.Fatalf("recordExport (second): %v", err)
	}

	c, err := loadCatalog(path)
	if err != nil {
		t.Fatalf("loadCatalog: %v", err)
	}
	if len(c.Entries) != 2 {
		t.Fatalf("catalog has %d entries, want 2", len(c.Entries))
	}
	if c.Entries[0].PotterName != "Aiko Salazar" {
		t.Errorf("potter name = %q", c.Entries[0].PotterName)
	}
	if c.Entries[0].Metadata != meta {
		t.Errorf("metadata = %+v, want %+v", c.Entries[0].Metadata, meta)
	}
}

func TestCatalogCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.cbor")
	if err := os.WriteFile(path, []byte("not cbor at all"), 0o644); err != nil {
		t.Fatalf("writing file: %v", err)
	}
	if _, err := loadCatalog(path); err == nil {
		t.Error("loadCatalog accepted garbage bytes")
	}
}
