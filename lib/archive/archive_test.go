// Copyright 2026 The PotteryTracker Authors
// SPDX-License-Identifier: Apache-2.0

package archive

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/CruzerUzer/potterytracker/lib/clock"
	"github.com/CruzerUzer/potterytracker/lib/imagestore"
	"github.com/CruzerUzer/potterytracker/lib/schema"
	"github.com/CruzerUzer/potterytracker/lib/store"
)

// testTime is the fake clock's fixed instant; archive filenames in
// tests are derived from it.
var testTime = time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)

// world bundles one complete workshop: a database, an image
// directory, and an archive service over them. Tests that move data
// between potters use two independent worlds so nothing leaks through
// shared storage.
type world struct {
	db      *store.Store
	images  *imagestore.Store
	service *Service
	dir     string
}

func newWorld(t *testing.T) *world {
	t.Helper()
	base := t.TempDir()

	db, err := store.Open(store.Config{
		Path:     filepath.Join(base, "workshop.db"),
		PoolSize: 1,
	})
	if err != nil {
		t.Fatalf("opening store: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	images, err := imagestore.Open(imagestore.Config{
		Dir: filepath.Join(base, "images"),
	})
	if err != nil {
		t.Fatalf("opening image store: %v", err)
	}

	archiveDir := filepath.Join(base, "archives")
	if err := os.MkdirAll(archiveDir, 0o755); err != nil {
		t.Fatalf("creating archive dir: %v", err)
	}

	service, err := NewService(ServiceConfig{
		Store:      db,
		Images:     images,
		ArchiveDir: archiveDir,
		Clock:      clock.Fake(testTime),
	})
	if err != nil {
		t.Fatalf("creating service: %v", err)
	}

	return &world{db: db, images: images, service: service, dir: archiveDir}
}

// seedPotter creates an empty potter and returns its id.
func (w *world) seedPotter(t *testing.T, name string) int64 {
	t.Helper()
	potter, err := w.db.CreatePotter(context.Background(), name)
	if err != nil {
		t.Fatalf("creating potter %q: %v", name, err)
	}
	return potter.ID
}

// seedWorkshop fills a potter with a small representative dataset:
// two stages, two materials, three items (one unstaged), three links,
// and one photo with a full-size file and a thumbnail on disk.
func (w *world) seedWorkshop(t *testing.T, potterID int64) {
	t.Helper()
	ctx := context.Background()

	throwing := schema.Stage{PotterID: potterID, Name: "Throwing", Position: 1}
	glazing := schema.Stage{PotterID: potterID, Name: "Glazing", Position: 2}
	for _, stage := range []*schema.Stage{&throwing, &glazing} {
		if err := w.db.InsertStage(ctx, stage); err != nil {
			t.Fatalf("inserting stage %q: %v", stage.Name, err)
		}
	}

	stoneware := schema.Material{PotterID: potterID, Name: "Stoneware", Kind: "clay"}
	celadon := schema.Material{PotterID: potterID, Name: "Celadon", Kind: "glaze", Notes: "cone 10"}
	for _, material := range []*schema.Material{&stoneware, &celadon} {
		if err := w.db.InsertMaterial(ctx, material); err != nil {
			t.Fatalf("inserting material %q: %v", material.Name, err)
		}
	}

	bowl := schema.Item{PotterID: potterID, StageID: &throwing.ID, Name: "Bowl", CreatedAt: "2026-01-05T10:00:00Z"}
	vase := schema.Item{PotterID: potterID, StageID: &glazing.ID, Name: "Vase", Notes: "tall neck", CreatedAt: "2026-01-06T10:00:00Z"}
	plate := schema.Item{PotterID: potterID, Name: "Plate", CreatedAt: "2026-01-07T10:00:00Z"}
	for _, item := range []*schema.Item{&bowl, &vase, &plate} {
		if err := w.db.InsertItem(ctx, item); err != nil {
			t.Fatalf("inserting item %q: %v", item.Name, err)
		}
	}

	links := []schema.ItemMaterial{
		{ItemID: bowl.ID, MaterialID: stoneware.ID},
		{ItemID: vase.ID, MaterialID: stoneware.ID},
		{ItemID: vase.ID, MaterialID: celadon.ID},
	}
	for _, link := range links {
		if err := w.db.InsertLink(ctx, link); err != nil {
			t.Fatalf("inserting link: %v", err)
		}
	}

	if err := w.images.WriteImage("bowl.jpg", []byte("full-size bowl bytes")); err != nil {
		t.Fatalf("writing image: %v", err)
	}
	if err := w.images.WriteThumbnail("bowl.jpg", []byte("thumbnail bowl bytes")); err != nil {
		t.Fatalf("writing thumbnail: %v", err)
	}
	photo := schema.Photo{
		PotterID:   potterID,
		ItemID:     &bowl.ID,
		Filename:   "bowl.jpg",
		Caption:    "fresh off the wheel",
		UploadedAt: "2026-01-05T11:00:00Z",
	}
	if err := w.db.InsertPhoto(ctx, &photo); err != nil {
		t.Fatalf("inserting photo: %v", err)
	}
}
