// Copyright 2026 The PotteryTracker Authors
// SPDX-License-Identifier: Apache-2.0

// Package archive exports a potter's entire dataset into a single
// portable container and imports such a container into a (possibly
// different) potter's dataset.
//
// The container is the outer envelope defined by lib/container: raw
// inner ZIP bytes, or a lib/passcrypt encryption of them when the
// potter supplies a password. The inner ZIP holds one JSON record set
// per section (stages, materials, items, links, photos), the photo
// files under images/ with thumbnails under thumbnails/, an optional
// rendered summary document, and an optional manifest with content
// digests.
//
// Import replays the record sets in dependency order against a target
// potter, remapping primary keys as it goes: stages and materials are
// matched by natural key against the target's existing rows before
// inserting, items are always inserted fresh, links are re-created
// only when both endpoints remapped, and photo files are copied
// byte-for-byte. There is no cross-section atomicity — a failure
// mid-import leaves earlier sections committed (see the package's
// design notes in DESIGN.md). Callers must serialize concurrent
// operations against the same potter.
package archive

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/CruzerUzer/potterytracker/lib/clock"
	"github.com/CruzerUzer/potterytracker/lib/schema"
)

// ErrOwnerNotFound is returned by Create when the potter id does not
// exist.
var ErrOwnerNotFound = errors.New("archive: potter not found")

// ErrArchiveNotFound is returned by Import when the container path
// does not exist.
var ErrArchiveNotFound = errors.New("archive: archive file not found")

// Relational is the subset of the workshop store the archive
// subsystem consumes. *store.Store satisfies it. Lookups signal a
// miss with an error satisfying errors.Is(err, store.ErrNotFound);
// inserts fill in the new row id on the passed pointer.
type Relational interface {
	GetPotter(ctx context.Context, id int64) (schema.Potter, error)

	ListStages(ctx context.Context, potterID int64) ([]schema.Stage, error)
	ListMaterials(ctx context.Context, potterID int64) ([]schema.Material, error)
	ListItems(ctx context.Context, potterID int64) ([]schema.Item, error)
	ListLinks(ctx context.Context, potterID int64) ([]schema.ItemMaterial, error)
	ListPhotos(ctx context.Context, potterID int64) ([]schema.Photo, error)

	StageByName(ctx context.Context, potterID int64, name string) (schema.Stage, error)
	MaterialByNameKind(ctx context.Context, potterID int64, name, kind string) (schema.Material, error)

	InsertStage(ctx context.Context, stage *schema.Stage) error
	InsertMaterial(ctx context.Context, material *schema.Material) error
	InsertItem(ctx context.Context, item *schema.Item) error
	InsertLink(ctx context.Context, link schema.ItemMaterial) error
	InsertPhoto(ctx context.Context, photo *schema.Photo) error
}

// FileStorage is the subset of the image store the archive subsystem
// consumes. *imagestore.Store satisfies it.
type FileStorage interface {
	ReadImage(filename string) ([]byte, error)
	WriteImage(filename string, data []byte) error
	ImageExists(filename string) (bool, error)

	ReadThumbnail(filename string) ([]byte, error)
	WriteThumbnail(filename string, data []byte) error
	ThumbnailExists(filename string) (bool, error)
}

// Metadata describes a successfully created archive. The caller owns
// any cataloging of these records; the archive subsystem never reads
// them back.
type Metadata struct {
	// Filename is the base name of the container inside the archive
	// directory. The ".ptbox.enc" suffix marks encrypted archives —
	// the importer relies on the name, never the bytes, to decide
	// whether a password is required.
	Filename string `json:"filename"`

	// SizeBytes is the final container size on disk.
	SizeBytes int64 `json:"size_bytes"`

	// Encrypted is true iff a password was supplied.
	Encrypted bool `json:"encrypted"`

	// CreatedAt is an RFC 3339 UTC timestamp.
	CreatedAt string `json:"created_at"`
}

// Stats reports how much of each section an import replayed. Stages
// and materials count rows that were mapped into the target (inserted
// or matched by natural key); items and photos count fresh inserts;
// links count only pairs whose both endpoints remapped; images count
// full-size files copied into the target storage.
type Stats struct {
	Stages    int `json:"stages"`
	Materials int `json:"materials"`
	Items     int `json:"items"`
	Links     int `json:"links"`
	Images    int `json:"images"`
}

// ServiceConfig holds the collaborators and parameters for a Service.
type ServiceConfig struct {
	// Store is the relational accessor. Required.
	Store Relational

	// Images is the file-storage accessor. Required.
	Images FileStorage

	// ArchiveDir is the directory containers are written to and the
	// working directory for temporary files during export. Required;
	// must exist.
	ArchiveDir string

	// Logger receives operational messages. If nil, a no-op logger is
	// used.
	Logger *slog.Logger

	// Clock provides timestamps for archive filenames and metadata.
	// Defaults to the real clock.
	Clock clock.Clock
}

// Service is the archive subsystem's entry point. It holds no state
// beyond its collaborators; all state during an operation is local to
// the call. The caller must serialize concurrent Create/Import calls
// against the same potter — the service provides no internal locking.
type Service struct {
	db     Relational
	files  FileStorage
	dir    string
	logger *slog.Logger
	clock  clock.Clock
}

// NewService validates the configuration and returns a Service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if cfg.Store == nil {
		return nil, errors.New("archive: ServiceConfig.Store is required")
	}
	if cfg.Images == nil {
		return nil, errors.New("archive: ServiceConfig.Images is required")
	}
	if cfg.ArchiveDir == "" {
		return nil, errors.New("archive: ServiceConfig.ArchiveDir is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	clk := cfg.Clock
	if clk == nil {
		clk = clock.Real()
	}
	return &Service{
		db:     cfg.Store,
		files:  cfg.Images,
		dir:    cfg.ArchiveDir,
		logger: logger,
		clock:  clk,
	}, nil
}
