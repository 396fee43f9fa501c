// Copyright 2026 The PotteryTracker Authors
// SPDX-License-Identifier: Apache-2.0

package archive

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/CruzerUzer/potterytracker/lib/container"
	"github.com/CruzerUzer/potterytracker/lib/imagestore"
	"github.com/CruzerUzer/potterytracker/lib/schema"
	"github.com/CruzerUzer/potterytracker/lib/store"
)

// Create exports the potter's entire dataset into a container file in
// the archive directory and returns its metadata. A non-empty
// password encrypts the container (and switches the filename to the
// encrypted suffix); an empty password produces a plain archive.
//
// The container is written atomically: bytes go to a temporary path
// first and are renamed into place, so a crash mid-write never leaves
// a partial file under the final name. Any database or I/O error
// aborts the whole export and removes the temporary file.
func (s *Service) Create(ctx context.Context, ownerID int64, password string) (Metadata, error) {
	potter, err := s.db.GetPotter(ctx, ownerID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return Metadata{}, fmt.Errorf("%w: id %d", ErrOwnerNotFound, ownerID)
		}
		return Metadata{}, fmt.Errorf("archive: resolving potter %d: %w", ownerID, err)
	}

	// Read every section in dependency order. The store is not
	// locked across these reads; a concurrent writer can produce a
	// time-inconsistent (but individually valid) snapshot, which is
	// accepted for a backup.
	stages, err := s.db.ListStages(ctx, ownerID)
	if err != nil {
		return Metadata{}, fmt.Errorf("archive: reading stages: %w", err)
	}
	materials, err := s.db.ListMaterials(ctx, ownerID)
	if err != nil {
		return Metadata{}, fmt.Errorf("archive: reading materials: %w", err)
	}
	items, err := s.db.ListItems(ctx, ownerID)
	if err != nil {
		return Metadata{}, fmt.Errorf("archive: reading items: %w", err)
	}
	links, err := s.db.ListLinks(ctx, ownerID)
	if err != nil {
		return Metadata{}, fmt.Errorf("archive: reading links: %w", err)
	}
	photos, err := s.db.ListPhotos(ctx, ownerID)
	if err != nil {
		return Metadata{}, fmt.Errorf("archive: reading photos: %w", err)
	}

	createdAt := s.clock.Now().UTC()

	inner, err := s.buildInnerArchive(potter, stages, materials, items, links, photos, createdAt)
	if err != nil {
		return Metadata{}, err
	}

	wrapped, err := container.Wrap(inner, password)
	if err != nil {
		return Metadata{}, err
	}

	encrypted := password != ""
	filename := archiveFilename(potter.Name, createdAt, encrypted)
	finalPath := filepath.Join(s.dir, filename)
	temporaryPath := finalPath + ".tmp"

	if err := os.WriteFile(temporaryPath, wrapped, 0o644); err != nil {
		_ = os.Remove(temporaryPath)
		return Metadata{}, fmt.Errorf("archive: writing %s: %w", temporaryPath, err)
	}
	if err := os.Rename(temporaryPath, finalPath); err != nil {
		_ = os.Remove(temporaryPath)
		return Metadata{}, fmt.Errorf("archive: publishing %s: %w", filename, err)
	}

	s.logger.Info("archive created",
		"potter", potter.Name,
		"filename", filename,
		"size_bytes", len(wrapped),
		"encrypted", encrypted,
	)

	return Metadata{
		Filename:  filename,
		SizeBytes: int64(len(wrapped)),
		Encrypted: encrypted,
		CreatedAt: createdAt.Format(time.RFC3339),
	}, nil
}

// buildInnerArchive assembles the inner ZIP: record sets, assets,
// manifest, and the best-effort summary.
func (s *Service) buildInnerArchive(potter schema.Potter, stages []schema.Stage, materials []schema.Material, items []schema.Item, links []schema.ItemMaterial, photos []schema.Photo, createdAt time.Time) ([]byte, error) {
	var buffer bytes.Buffer
	zw := newZipWriter(&buffer)

	if err := writeRecordSet(zw, entryStages, stages); err != nil {
		return nil, err
	}
	if err := writeRecordSet(zw, entryMaterials, materials); err != nil {
		return nil, err
	}
	if err := writeRecordSet(zw, entryItems, items); err != nil {
		return nil, err
	}
	if err := writeRecordSet(zw, entryLinks, links); err != nil {
		return nil, err
	}
	if err := writeRecordSet(zw, entryPhotos, photos); err != nil {
		return nil, err
	}

	assetDigests := make(map[string]string)
	for _, photo := range photos {
		if err := s.packAsset(zw, photo, assetDigests); err != nil {
			return nil, err
		}
	}

	if err := writeRecordSet(zw, entryManifest, []manifest{{
		FormatVersion: manifestFormatVersion,
		PotterName:    potter.Name,
		CreatedAt:     createdAt.Format(time.RFC3339),
		Counts: map[string]int{
			entryStages:    len(stages),
			entryMaterials: len(materials),
			entryItems:     len(items),
			entryLinks:     len(links),
			entryPhotos:    len(photos),
		},
		AssetDigests: assetDigests,
	}}); err != nil {
		return nil, err
	}

	// The summary is a convenience for humans opening the archive by
	// hand. Degrade, don't fail: an archive without it is still
	// complete.
	if summary, err := renderSummary(potter, stages, materials, items, photos); err != nil {
		s.logger.Warn("summary rendering failed, exporting without it", "error", err)
	} else if err := writeAsset(zw, entrySummary, summary); err != nil {
		s.logger.Warn("summary entry write failed, exporting without it", "error", err)
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("archive: finalizing inner archive: %w", err)
	}
	return buffer.Bytes(), nil
}

// packAsset adds one photo's full-size file and, when present, its
// thumbnail. A photo row whose file is missing from storage degrades
// to a text-only record: the row still travels in photos.json, only
// the bytes are absent.
func (s *Service) packAsset(zw *zip.Writer, photo schema.Photo, assetDigests map[string]string) error {
	assetName := imagePrefix + photo.Filename
	if _, alreadyPacked := assetDigests[assetName]; alreadyPacked {
		return nil
	}

	data, err := s.files.ReadImage(photo.Filename)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.logger.Warn("photo file missing from storage, exporting record only",
				"filename", photo.Filename)
			return nil
		}
		return fmt.Errorf("archive: reading photo %s: %w", photo.Filename, err)
	}
	if err := writeAsset(zw, assetName, data); err != nil {
		return err
	}
	assetDigests[assetName] = imagestore.Digest(data)

	hasThumbnail, err := s.files.ThumbnailExists(photo.Filename)
	if err != nil {
		return fmt.Errorf("archive: checking thumbnail for %s: %w", photo.Filename, err)
	}
	if !hasThumbnail {
		return nil
	}
	thumbnail, err := s.files.ReadThumbnail(photo.Filename)
	if err != nil {
		return fmt.Errorf("archive: reading thumbnail for %s: %w", photo.Filename, err)
	}
	thumbnailName := thumbnailPrefix + photo.Filename
	if err := writeAsset(zw, thumbnailName, thumbnail); err != nil {
		return err
	}
	assetDigests[thumbnailName] = imagestore.Digest(thumbnail)
	return nil
}

// archiveFilename builds the container filename: sanitized potter
// name, UTC timestamp, and the suffix that carries the encrypted-ness
// signal.
func archiveFilename(potterName string, createdAt time.Time, encrypted bool) string {
	name := sanitizeName(potterName)
	suffix := container.Suffix
	if encrypted {
		suffix = container.EncryptedSuffix
	}
	return fmt.Sprintf("%s-%s%s", name, createdAt.Format("20060102-150405"), suffix)
}

// sanitizeName reduces a potter display name to filesystem-safe
// characters.
func sanitizeName(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		case r == ' ':
			b.WriteRune('-')
		}
	}
	if b.Len() == 0 {
		return "potter"
	}
	return b.String()
}
