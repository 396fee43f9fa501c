// Copyright 2026 The PotteryTracker Authors
// SPDX-License-Identifier: Apache-2.0

// Package schema defines the workshop row types shared by the
// relational store and the archive subsystem. The JSON tags double as
// the archive record-set field names, so adding a field here extends
// the archive format without breaking older importers (unknown fields
// are ignored on decode).
//
// This package depends on no other PotteryTracker packages.
package schema

// Potter is the owner of a workshop dataset. Every other row type is
// scoped to a potter by PotterID.
type Potter struct {
	// ID is the SQLite rowid.
	ID int64 `json:"id"`

	// Name is the potter's display name, unique across the database.
	Name string `json:"name"`

	// CreatedAt is an RFC 3339 UTC timestamp.
	CreatedAt string `json:"created_at"`
}

// Stage is one step of a potter's workflow (e.g. "thrown", "trimmed",
// "bisque fired", "glazed"). Stage names are unique per potter; the
// importer relies on that natural key to match existing stages instead
// of inserting duplicates.
type Stage struct {
	ID       int64  `json:"id"`
	PotterID int64  `json:"potter_id"`
	Name     string `json:"name"`

	// Position orders stages in workflow displays. Not part of the
	// natural key.
	Position int64 `json:"position"`
}

// Material is a consumable or tool recorded against items: a clay
// body, a glaze, an underglaze. The natural key is (potter, name,
// kind) — "Celadon" the glaze and "Celadon" the underglaze are
// different materials.
type Material struct {
	ID       int64  `json:"id"`
	PotterID int64  `json:"potter_id"`
	Name     string `json:"name"`

	// Kind classifies the material: "clay", "glaze", "underglaze",
	// "slip", "tool". Free-form — the store does not validate it.
	Kind string `json:"kind"`

	Notes string `json:"notes,omitempty"`
}

// Item is a single piece of pottery. StageID is nil for items not yet
// assigned to a workflow stage, and references a Stage row owned by
// the same potter otherwise.
type Item struct {
	ID       int64  `json:"id"`
	PotterID int64  `json:"potter_id"`
	StageID  *int64 `json:"stage_id,omitempty"`
	Name     string `json:"name"`
	Notes    string `json:"notes,omitempty"`

	// CreatedAt is an RFC 3339 UTC timestamp.
	CreatedAt string `json:"created_at"`
}

// ItemMaterial links an item to a material it was made with. The pair
// is the primary key — a material appears at most once per item.
type ItemMaterial struct {
	ItemID     int64 `json:"item_id"`
	MaterialID int64 `json:"material_id"`
}

// Photo is the database row for an uploaded image. Filename names the
// full-size file in the image store; the thumbnail, when present,
// lives under the store's thumbnail directory with the same filename.
// ItemID is nil for photos not attached to a specific item.
type Photo struct {
	ID       int64  `json:"id"`
	PotterID int64  `json:"potter_id"`
	ItemID   *int64 `json:"item_id,omitempty"`
	Filename string `json:"filename"`
	Caption  string `json:"caption,omitempty"`

	// UploadedAt is an RFC 3339 UTC timestamp.
	UploadedAt string `json:"uploaded_at"`
}
