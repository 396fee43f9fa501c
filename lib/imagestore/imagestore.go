// Copyright 2026 The PotteryTracker Authors
// SPDX-License-Identifier: Apache-2.0

// Package imagestore is the file-storage accessor for uploaded photos.
// Full-size images live directly in the configured directory;
// thumbnails live under a "thumbs" subdirectory with the same
// filename. The archive subsystem reads and writes both through this
// package and never touches the directories directly.
//
// Filenames are flat: anything containing a path separator or parent
// reference is rejected, so a crafted archive entry cannot escape the
// image directory.
package imagestore

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/zeebo/blake3"
)

// ThumbnailDir is the subdirectory holding thumbnails.
const ThumbnailDir = "thumbs"

// ErrBadFilename is returned for names that are empty or attempt path
// traversal.
var ErrBadFilename = errors.New("imagestore: invalid filename")

// Config holds the parameters for opening an image store.
type Config struct {
	// Dir is the image directory. Created (with its thumbnail
	// subdirectory) if it does not exist.
	Dir string

	// Logger receives operational messages. If nil, a no-op logger is
	// used.
	Logger *slog.Logger
}

// Store reads and writes image files for one image directory. Safe
// for concurrent use; concurrent writes to the same filename race at
// the filesystem level, which the single-writer-per-owner rule of the
// archive subsystem already excludes.
type Store struct {
	dir    string
	logger *slog.Logger
}

// Open validates the configuration and creates the directory layout.
func Open(cfg Config) (*Store, error) {
	if cfg.Dir == "" {
		return nil, fmt.Errorf("imagestore: Dir is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if err := os.MkdirAll(filepath.Join(cfg.Dir, ThumbnailDir), 0o755); err != nil {
		return nil, fmt.Errorf("imagestore: creating %s: %w", cfg.Dir, err)
	}
	return &Store{dir: cfg.Dir, logger: logger}, nil
}

// Dir returns the root image directory.
func (s *Store) Dir() string {
	return s.dir
}

// ReadImage returns the bytes of a full-size image. Returns an error
// wrapping fs.ErrNotExist if the file is absent.
func (s *Store) ReadImage(filename string) ([]byte, error) {
	return s.read(s.dir, filename)
}

// WriteImage stores a full-size image byte-for-byte.
func (s *Store) WriteImage(filename string, data []byte) error {
	return s.write(s.dir, filename, data)
}

// ImageExists reports whether a full-size image is present.
func (s *Store) ImageExists(filename string) (bool, error) {
	return s.exists(s.dir, filename)
}

// ReadThumbnail returns the bytes of a thumbnail.
func (s *Store) ReadThumbnail(filename string) ([]byte, error) {
	return s.read(filepath.Join(s.dir, ThumbnailDir), filename)
}

// WriteThumbnail stores a thumbnail byte-for-byte.
func (s *Store) WriteThumbnail(filename string, data []byte) error {
	return s.write(filepath.Join(s.dir, ThumbnailDir), filename, data)
}

// ThumbnailExists reports whether a thumbnail is present.
func (s *Store) ThumbnailExists(filename string) (bool, error) {
	return s.exists(filepath.Join(s.dir, ThumbnailDir), filename)
}

func (s *Store) read(dir, filename string) ([]byte, error) {
	if err := checkFilename(filename); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(filepath.Join(dir, filename))
	if err != nil {
		return nil, fmt.Errorf("imagestore: reading %s: %w", filename, err)
	}
	return data, nil
}

func (s *Store) write(dir, filename string, data []byte) error {
	if err := checkFilename(filename); err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(dir, filename), data, 0o644); err != nil {
		return fmt.Errorf("imagestore: writing %s: %w", filename, err)
	}
	return nil
}

func (s *Store) exists(dir, filename string) (bool, error) {
	if err := checkFilename(filename); err != nil {
		return false, err
	}
	_, err := os.Stat(filepath.Join(dir, filename))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, fmt.Errorf("imagestore: stat %s: %w", filename, err)
}

// checkFilename rejects empty names and path traversal.
func checkFilename(filename string) error {
	if filename == "" ||
		strings.ContainsAny(filename, `/\`) ||
		filename == "." || filename == ".." {
		return fmt.Errorf("%w: %q", ErrBadFilename, filename)
	}
	return nil
}

// Digest returns the lowercase hex BLAKE3-256 digest of data. The
// archive packer records asset digests in its manifest; the importer
// verifies them before copying bytes into a target store.
func Digest(data []byte) string {
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:])
}
