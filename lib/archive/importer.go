// Copyright 2026 The PotteryTracker Authors
// SPDX-License-Identifier: Apache-2.0

package archive

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/CruzerUzer/potterytracker/lib/container"
	"github.com/CruzerUzer/potterytracker/lib/imagestore"
	"github.com/CruzerUzer/potterytracker/lib/passcrypt"
	"github.com/CruzerUzer/potterytracker/lib/schema"
	"github.com/CruzerUzer/potterytracker/lib/store"
)

// remap is an import-scoped mapping from source-archive row ids to
// target-dataset row ids for one entity type. Built empty at the
// start of every import, discarded when the call returns.
type remap map[int64]int64

// lookup resolves an optional source reference through the mapping.
// A nil source reference, or one the mapping never saw, resolves to
// nil.
func (m remap) lookup(sourceID *int64) *int64 {
	if sourceID == nil {
		return nil
	}
	targetID, ok := m[*sourceID]
	if !ok {
		return nil
	}
	return &targetID
}

// Import replays an archive container into the target potter's
// dataset and returns per-section statistics.
//
// Encrypted-ness is decided by the filename convention alone (see
// container.IsEncryptedName); the password is only consulted when the
// name demands it. A wrong password surfaces as an error satisfying
// errors.Is with passcrypt.ErrAuthenticationFailed ("incorrect
// password or corrupted archive"); structurally invalid bytes surface
// as container.ErrCorruptArchive ("not a valid archive") — the two
// are never conflated.
//
// Sections replay in dependency order: stages, then materials, then
// items (stage references rewritten through the stage remap), then
// links (dropped unless both endpoints remapped), then photo files
// and records. There is no rollback: a failure partway leaves earlier
// sections committed.
func (s *Service) Import(ctx context.Context, archivePath, password string, targetOwnerID int64) (Stats, error) {
	wrapped, err := os.ReadFile(archivePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Stats{}, fmt.Errorf("%w: %s", ErrArchiveNotFound, archivePath)
		}
		return Stats{}, fmt.Errorf("archive: reading %s: %w", archivePath, err)
	}

	encrypted := container.IsEncryptedName(archivePath)
	inner, err := container.Unwrap(wrapped, encrypted, password)
	if err != nil {
		switch {
		case errors.Is(err, passcrypt.ErrAuthenticationFailed):
			return Stats{}, fmt.Errorf("incorrect password or corrupted archive: %w", err)
		case errors.Is(err, container.ErrCorruptArchive):
			return Stats{}, fmt.Errorf("not a valid archive: %w", err)
		default:
			return Stats{}, err
		}
	}

	zr, err := zip.NewReader(bytes.NewReader(inner), int64(len(inner)))
	if err != nil {
		return Stats{}, fmt.Errorf("not a valid archive: %w", errors.Join(container.ErrCorruptArchive, err))
	}

	// Confirm the target exists before writing anything.
	if _, err := s.db.GetPotter(ctx, targetOwnerID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return Stats{}, fmt.Errorf("%w: id %d", ErrOwnerNotFound, targetOwnerID)
		}
		return Stats{}, fmt.Errorf("archive: resolving potter %d: %w", targetOwnerID, err)
	}

	// Sections are small relative to the binary assets; eager loading
	// keeps the replay logic straightforward.
	stages, err := readRecordSet[schema.Stage](zr, entryStages)
	if err != nil {
		return Stats{}, err
	}
	materials, err := readRecordSet[schema.Material](zr, entryMaterials)
	if err != nil {
		return Stats{}, err
	}
	items, err := readRecordSet[schema.Item](zr, entryItems)
	if err != nil {
		return Stats{}, err
	}
	links, err := readRecordSet[schema.ItemMaterial](zr, entryLinks)
	if err != nil {
		return Stats{}, err
	}
	photos, err := readRecordSet[schema.Photo](zr, entryPhotos)
	if err != nil {
		return Stats{}, err
	}

	manifests, err := readRecordSet[manifest](zr, entryManifest)
	if err != nil {
		s.logger.Warn("manifest unreadable, importing without digest checks", "error", err)
		manifests = nil
	}
	var assetDigests map[string]string
	if len(manifests) > 0 {
		assetDigests = manifests[0].AssetDigests
	}

	var stats Stats

	stageMap := make(remap, len(stages))
	for _, source := range stages {
		targetID, err := s.importStage(ctx, targetOwnerID, source)
		if err != nil {
			return stats, err
		}
		stageMap[source.ID] = targetID
		stats.Stages++
	}

	materialMap := make(remap, len(materials))
	for _, source := range materials {
		targetID, err := s.importMaterial(ctx, targetOwnerID, source)
		if err != nil {
			return stats, err
		}
		materialMap[source.ID] = targetID
		stats.Materials++
	}

	// Items are always inserted fresh: there is no natural key that
	// could distinguish "the same pot" from "another pot with the
	// same name", so re-importing duplicates items by design.
	itemMap := make(remap, len(items))
	for _, source := range items {
		target := schema.Item{
			PotterID:  targetOwnerID,
			StageID:   stageMap.lookup(source.StageID),
			Name:      source.Name,
			Notes:     source.Notes,
			CreatedAt: source.CreatedAt,
		}
		if err := s.db.InsertItem(ctx, &target); err != nil {
			return stats, fmt.Errorf("archive: importing item %q: %w", source.Name, err)
		}
		itemMap[source.ID] = target.ID
		stats.Items++
	}

	// A link missing either endpoint is dropped, never fatal: the
	// archive may reference rows its own sections never carried.
	for _, source := range links {
		itemID, itemOK := itemMap[source.ItemID]
		materialID, materialOK := materialMap[source.MaterialID]
		if !itemOK || !materialOK {
			s.logger.Warn("dropping link with unmapped endpoint",
				"item_id", source.ItemID,
				"material_id", source.MaterialID,
			)
			continue
		}
		err := s.db.InsertLink(ctx, schema.ItemMaterial{ItemID: itemID, MaterialID: materialID})
		if err != nil {
			if store.IsConstraint(err) {
				continue
			}
			return stats, fmt.Errorf("archive: importing link: %w", err)
		}
		stats.Links++
	}

	copied, err := s.copyAssets(zr, assetDigests)
	if err != nil {
		return stats, err
	}
	stats.Images = copied

	// Photo records replay remapped through the item table. A record
	// whose item never mapped, or whose file is absent from the
	// archive, still lands as a row — a dangling reference degrades
	// to a text-only record rather than failing the import.
	for _, source := range photos {
		target := schema.Photo{
			PotterID:   targetOwnerID,
			ItemID:     itemMap.lookup(source.ItemID),
			Filename:   source.Filename,
			Caption:    source.Caption,
			UploadedAt: source.UploadedAt,
		}
		if err := s.db.InsertPhoto(ctx, &target); err != nil {
			return stats, fmt.Errorf("archive: importing photo record %q: %w", source.Filename, err)
		}
	}

	s.logger.Info("archive imported",
		"path", filepath.Base(archivePath),
		"stages", stats.Stages,
		"materials", stats.Materials,
		"items", stats.Items,
		"links", stats.Links,
		"images", stats.Images,
	)
	return stats, nil
}

// importStage maps one source stage into the target dataset: an
// existing stage with the same name is reused, otherwise a new row is
// inserted. Matching first avoids duplicate-name constraint
// violations and makes stage import idempotent.
func (s *Service) importStage(ctx context.Context, targetOwnerID int64, source schema.Stage) (int64, error) {
	existing, err := s.db.StageByName(ctx, targetOwnerID, source.Name)
	if err == nil {
		return existing.ID, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return 0, fmt.Errorf("archive: matching stage %q: %w", source.Name, err)
	}

	target := schema.Stage{
		PotterID: targetOwnerID,
		Name:     source.Name,
		Position: source.Position,
	}
	if err := s.db.InsertStage(ctx, &target); err != nil {
		return 0, fmt.Errorf("archive: importing stage %q: %w", source.Name, err)
	}
	return target.ID, nil
}

// importMaterial is the material counterpart of importStage, keyed on
// (name, kind) rather than name alone.
func (s *Service) importMaterial(ctx context.Context, targetOwnerID int64, source schema.Material) (int64, error) {
	existing, err := s.db.MaterialByNameKind(ctx, targetOwnerID, source.Name, source.Kind)
	if err == nil {
		return existing.ID, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return 0, fmt.Errorf("archive: matching material %q/%q: %w", source.Name, source.Kind, err)
	}

	target := schema.Material{
		PotterID: targetOwnerID,
		Name:     source.Name,
		Kind:     source.Kind,
		Notes:    source.Notes,
	}
	if err := s.db.InsertMaterial(ctx, &target); err != nil {
		return 0, fmt.Errorf("archive: importing material %q: %w", source.Name, err)
	}
	return target.ID, nil
}

// copyAssets copies every asset under images/ (and its thumbnail
// under thumbnails/, when present) byte-for-byte into the target file
// storage under the original filename. Returns the number of
// full-size files copied. Assets failing their manifest digest are
// skipped with a warning — corrupted bytes must not silently replace
// a potter's photos.
func (s *Service) copyAssets(zr *zip.Reader, assetDigests map[string]string) (int, error) {
	copied := 0
	for _, file := range zr.File {
		isImage := strings.HasPrefix(file.Name, imagePrefix)
		isThumbnail := strings.HasPrefix(file.Name, thumbnailPrefix)
		if !isImage && !isThumbnail {
			continue
		}

		data, err := readAsset(file)
		if err != nil {
			return copied, err
		}

		if expected, ok := assetDigests[file.Name]; ok {
			if actual := imagestore.Digest(data); actual != expected {
				s.logger.Warn("asset digest mismatch, skipping",
					"entry", file.Name,
					"expected", expected,
					"actual", actual,
				)
				continue
			}
		}

		if isImage {
			filename := strings.TrimPrefix(file.Name, imagePrefix)
			if err := s.files.WriteImage(filename, data); err != nil {
				return copied, fmt.Errorf("archive: copying image %s: %w", filename, err)
			}
			copied++
		} else {
			filename := strings.TrimPrefix(file.Name, thumbnailPrefix)
			if err := s.files.WriteThumbnail(filename, data); err != nil {
				return copied, fmt.Errorf("archive: copying thumbnail %s: %w", filename, err)
			}
		}
	}
	return copied, nil
}

// readAsset reads one ZIP entry fully.
func readAsset(file *zip.File) ([]byte, error) {
	reader, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("archive: opening entry %s: %w", file.Name, err)
	}
	defer reader.Close()
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("archive: reading entry %s: %w", file.Name, err)
	}
	return data, nil
}
