// Copyright 2026 The PotteryTracker Authors
// SPDX-License-Identifier: Apache-2.0

package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/CruzerUzer/potterytracker/lib/schema"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(Config{
		Path:     filepath.Join(t.TempDir(), "workshop.db"),
		PoolSize: 2,
	})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Errorf("Close: %v", err)
		}
	})
	return s
}

func TestCreateAndGetPotter(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	potter, err := s.CreatePotter(ctx, "alice")
	if err != nil {
		t.Fatalf("CreatePotter: %v", err)
	}
	if potter.ID == 0 {
		t.Error("CreatePotter did not assign an id")
	}

	got, err := s.GetPotter(ctx, potter.ID)
	if err != nil {
		t.Fatalf("GetPotter: %v", err)
	}
	if got.Name != "alice" {
		t.Errorf("Name = %q, want %q", got.Name, "alice")
	}

	byName, err := s.PotterByName(ctx, "alice")
	if err != nil {
		t.Fatalf("PotterByName: %v", err)
	}
	if byName.ID != potter.ID {
		t.Errorf("PotterByName id = %d, want %d", byName.ID, potter.ID)
	}
}

func TestGetPotterNotFound(t *testing.T) {
	s := openTestStore(t)

	_, err := s.GetPotter(context.Background(), 9999)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}

func TestDuplicatePotterNameIsConstraint(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if _, err := s.CreatePotter(ctx, "alice"); err != nil {
		t.Fatal(err)
	}
	_, err := s.CreatePotter(ctx, "alice")
	if err == nil {
		t.Fatal("duplicate potter name accepted")
	}
	if !IsConstraint(err) {
		t.Errorf("IsConstraint(%v) = false, want true", err)
	}
}

func TestStageNaturalKey(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	potter, err := s.CreatePotter(ctx, "alice")
	if err != nil {
		t.Fatal(err)
	}

	stage := schema.Stage{PotterID: potter.ID, Name: "bisque fired", Position: 3}
	if err := s.InsertStage(ctx, &stage); err != nil {
		t.Fatalf("InsertStage: %v", err)
	}
	if stage.ID == 0 {
		t.Error("InsertStage did not assign an id")
	}

	got, err := s.StageByName(ctx, potter.ID, "bisque fired")
	if err != nil {
		t.Fatalf("StageByName: %v", err)
	}
	if got.ID != stage.ID || got.Position != 3 {
		t.Errorf("StageByName = %+v, want id %d position 3", got, stage.ID)
	}

	if _, err := s.StageByName(ctx, potter.ID, "no such stage"); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing stage: got %v, want ErrNotFound", err)
	}

	// Same name under the same potter violates the natural key.
	duplicate := schema.Stage{PotterID: potter.ID, Name: "bisque fired"}
	err = s.InsertStage(ctx, &duplicate)
	if !IsConstraint(err) {
		t.Errorf("duplicate stage insert: IsConstraint(%v) = false, want true", err)
	}

	// Same name under a different potter is fine.
	other, err := s.CreatePotter(ctx, "bob")
	if err != nil {
		t.Fatal(err)
	}
	theirs := schema.Stage{PotterID: other.ID, Name: "bisque fired"}
	if err := s.InsertStage(ctx, &theirs); err != nil {
		t.Errorf("same stage name under another potter: %v", err)
	}
}

func TestMaterialNaturalKeyIncludesKind(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	potter, err := s.CreatePotter(ctx, "alice")
	if err != nil {
		t.Fatal(err)
	}

	glaze := schema.Material{PotterID: potter.ID, Name: "Celadon", Kind: "glaze"}
	if err := s.InsertMaterial(ctx, &glaze); err != nil {
		t.Fatal(err)
	}

	// Same name, different kind: a different material.
	underglaze := schema.Material{PotterID: potter.ID, Name: "Celadon", Kind: "underglaze"}
	if err := s.InsertMaterial(ctx, &underglaze); err != nil {
		t.Errorf("same name different kind rejected: %v", err)
	}

	got, err := s.MaterialByNameKind(ctx, potter.ID, "Celadon", "glaze")
	if err != nil {
		t.Fatalf("MaterialByNameKind: %v", err)
	}
	if got.ID != glaze.ID {
		t.Errorf("MaterialByNameKind id = %d, want %d", got.ID, glaze.ID)
	}
}

func TestItemNullableStage(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	potter, err := s.CreatePotter(ctx, "alice")
	if err != nil {
		t.Fatal(err)
	}
	stage := schema.Stage{PotterID: potter.ID, Name: "thrown"}
	if err := s.InsertStage(ctx, &stage); err != nil {
		t.Fatal(err)
	}

	staged := schema.Item{PotterID: potter.ID, StageID: &stage.ID, Name: "tea bowl", CreatedAt: "2026-09-01T10:00:00Z"}
	unstaged := schema.Item{PotterID: potter.ID, Name: "planter", CreatedAt: "2026-09-01T10:05:00Z"}
	if err := s.InsertItem(ctx, &staged); err != nil {
		t.Fatal(err)
	}
	if err := s.InsertItem(ctx, &unstaged); err != nil {
		t.Fatal(err)
	}

	items, err := s.ListItems(ctx, potter.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 2 {
		t.Fatalf("ListItems returned %d items, want 2", len(items))
	}
	if items[0].StageID == nil || *items[0].StageID != stage.ID {
		t.Errorf("staged item StageID = %v, want %d", items[0].StageID, stage.ID)
	}
	if items[1].StageID != nil {
		t.Errorf("unstaged item StageID = %v, want nil", *items[1].StageID)
	}

	// A stage reference to a row that does not exist must be rejected
	// by the foreign key constraint.
	missing := int64(9999)
	bad := schema.Item{PotterID: potter.ID, StageID: &missing, Name: "ghost", CreatedAt: "2026-09-01T10:10:00Z"}
	err = s.InsertItem(ctx, &bad)
	if !IsConstraint(err) {
		t.Errorf("dangling stage reference: IsConstraint(%v) = false, want true", err)
	}
}

func TestLinksScopedByPotter(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	alice, _ := s.CreatePotter(ctx, "alice")
	bob, _ := s.CreatePotter(ctx, "bob")

	clay := schema.Material{PotterID: alice.ID, Name: "B-Mix", Kind: "clay"}
	if err := s.InsertMaterial(ctx, &clay); err != nil {
		t.Fatal(err)
	}
	bowl := schema.Item{PotterID: alice.ID, Name: "bowl", CreatedAt: "2026-09-01T10:00:00Z"}
	if err := s.InsertItem(ctx, &bowl); err != nil {
		t.Fatal(err)
	}

	link := schema.ItemMaterial{ItemID: bowl.ID, MaterialID: clay.ID}
	if err := s.InsertLink(ctx, link); err != nil {
		t.Fatalf("InsertLink: %v", err)
	}

	// Duplicate pair violates the primary key.
	if err := s.InsertLink(ctx, link); !IsConstraint(err) {
		t.Errorf("duplicate link: IsConstraint = false, err %v", err)
	}

	aliceLinks, err := s.ListLinks(ctx, alice.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(aliceLinks) != 1 {
		t.Errorf("alice has %d links, want 1", len(aliceLinks))
	}

	bobLinks, err := s.ListLinks(ctx, bob.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(bobLinks) != 0 {
		t.Errorf("bob has %d links, want 0", len(bobLinks))
	}
}

func TestPhotoRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	potter, _ := s.CreatePotter(ctx, "alice")
	bowl := schema.Item{PotterID: potter.ID, Name: "bowl", CreatedAt: "2026-09-01T10:00:00Z"}
	if err := s.InsertItem(ctx, &bowl); err != nil {
		t.Fatal(err)
	}

	photo := schema.Photo{
		PotterID:   potter.ID,
		ItemID:     &bowl.ID,
		Filename:   "bowl-glazed.jpg",
		Caption:    "after glaze firing",
		UploadedAt: "2026-09-01T12:00:00Z",
	}
	if err := s.InsertPhoto(ctx, &photo); err != nil {
		t.Fatalf("InsertPhoto: %v", err)
	}

	photos, err := s.ListPhotos(ctx, potter.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(photos) != 1 {
		t.Fatalf("ListPhotos returned %d rows, want 1", len(photos))
	}
	got := photos[0]
	if got.Filename != "bowl-glazed.jpg" || got.ItemID == nil || *got.ItemID != bowl.ID {
		t.Errorf("photo round-trip mismatch: %+v", got)
	}
}
