// Copyright 2026 The PotteryTracker Authors
// SPDX-License-Identifier: Apache-2.0

package archive

import (
	"archive/zip"
	"encoding/json"
	"fmt"
	"io"

	"github.com/klauspost/compress/flate"
	"github.com/tidwall/jsonc"
)

// Inner archive entry names. These are format constants shared with
// every archive ever written — renaming one orphans the section in
// old archives.
const (
	entryStages    = "stages.json"
	entryMaterials = "materials.json"
	entryItems     = "items.json"
	entryLinks     = "links.json"
	entryPhotos    = "photos.json"
	entryManifest  = "manifest.json"
	entrySummary   = "summary.html"

	imagePrefix     = "images/"
	thumbnailPrefix = "thumbnails/"
)

// manifestFormatVersion identifies the record-set layout. Bumped only
// for incompatible changes; additive fields ride on JSON's unknown-
// field tolerance instead.
const manifestFormatVersion = 1

// manifest is the optional self-description entry. Older archives
// lack it entirely; the importer treats every field as advisory.
type manifest struct {
	FormatVersion int    `json:"format_version"`
	PotterName    string `json:"potter_name"`
	CreatedAt     string `json:"created_at"`

	// Counts maps section entry name to record count, for display
	// without opening the sections.
	Counts map[string]int `json:"counts,omitempty"`

	// AssetDigests maps asset entry names (images/... and
	// thumbnails/...) to lowercase hex BLAKE3-256 digests of their
	// content. The importer skips assets whose bytes do not match —
	// an unencrypted archive has no cipher protecting it from
	// bit rot.
	AssetDigests map[string]string `json:"asset_digests,omitempty"`
}

// newZipWriter returns a ZIP writer with klauspost's deflate behind
// the standard Deflate method id. Output stays readable by any ZIP
// tooling; only the compressor implementation changes.
func newZipWriter(w io.Writer) *zip.Writer {
	zw := zip.NewWriter(w)
	zw.RegisterCompressor(zip.Deflate, func(out io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(out, flate.BestSpeed)
	})
	return zw
}

// writeRecordSet serializes records as an indented JSON array entry.
// Field-name/value pairs rather than positional columns: a future
// importer tolerates added fields, and the entries stay readable in
// any ZIP tool.
func writeRecordSet[T any](zw *zip.Writer, name string, records []T) error {
	entry, err := zw.Create(name)
	if err != nil {
		return fmt.Errorf("archive: creating entry %s: %w", name, err)
	}
	encoder := json.NewEncoder(entry)
	encoder.SetIndent("", "  ")
	if records == nil {
		records = []T{}
	}
	if err := encoder.Encode(records); err != nil {
		return fmt.Errorf("archive: encoding %s: %w", name, err)
	}
	return nil
}

// writeAsset stores a binary asset uncompressed. Photo files are
// already JPEG/PNG compressed; deflating them again costs CPU for
// nothing.
func writeAsset(zw *zip.Writer, name string, data []byte) error {
	entry, err := zw.CreateHeader(&zip.FileHeader{
		Name:   name,
		Method: zip.Store,
	})
	if err != nil {
		return fmt.Errorf("archive: creating entry %s: %w", name, err)
	}
	if _, err := entry.Write(data); err != nil {
		return fmt.Errorf("archive: writing entry %s: %w", name, err)
	}
	return nil
}

// readEntry returns the full content of a named entry, or (nil,
// false, nil) if the archive has no such entry.
func readEntry(zr *zip.Reader, name string) ([]byte, bool, error) {
	for _, file := range zr.File {
		if file.Name != name {
			continue
		}
		reader, err := file.Open()
		if err != nil {
			return nil, false, fmt.Errorf("archive: opening entry %s: %w", name, err)
		}
		defer reader.Close()
		data, err := io.ReadAll(reader)
		if err != nil {
			return nil, false, fmt.Errorf("archive: reading entry %s: %w", name, err)
		}
		return data, true, nil
	}
	return nil, false, nil
}

// readRecordSet decodes a section entry into typed records. A missing
// entry yields an empty slice — archives written before a section
// existed import cleanly. Entries are run through a JSONC pass first
// so a hand-annotated archive (comments, trailing commas) still
// imports; unknown fields are ignored by encoding/json.
func readRecordSet[T any](zr *zip.Reader, name string) ([]T, error) {
	data, found, err := readEntry(zr, name)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}

	var records []T
	if err := json.Unmarshal(jsonc.ToJSON(data), &records); err != nil {
		return nil, fmt.Errorf("archive: decoding %s: %w", name, err)
	}
	return records, nil
}
