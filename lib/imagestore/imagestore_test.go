// Copyright 2026 The PotteryTracker Authors
// SPDX-License-Identifier: Apache-2.0

package imagestore

import (
	"bytes"
	"errors"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(Config{Dir: t.TempDir()})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	return s
}

func TestWriteReadImage(t *testing.T) {
	s := openTestStore(t)
	content := []byte{0xff, 0xd8, 0xff, 0xe0, 'j', 'p', 'e', 'g'}

	if err := s.WriteImage("bowl.jpg", content); err != nil {
		t.Fatalf("WriteImage: %v", err)
	}

	got, err := s.ReadImage("bowl.jpg")
	if err != nil {
		t.Fatalf("ReadImage: %v", err)
	}
	if !bytes.Equal(got, content) {
		t.Error("read bytes differ from written bytes")
	}

	exists, err := s.ImageExists("bowl.jpg")
	if err != nil || !exists {
		t.Errorf("ImageExists = %v, %v; want true, nil", exists, err)
	}
	exists, err = s.ImageExists("missing.jpg")
	if err != nil || exists {
		t.Errorf("ImageExists for missing file = %v, %v; want false, nil", exists, err)
	}
}

func TestThumbnailsSeparateFromImages(t *testing.T) {
	s := openTestStore(t)

	if err := s.WriteImage("bowl.jpg", []byte("full")); err != nil {
		t.Fatal(err)
	}
	if err := s.WriteThumbnail("bowl.jpg", []byte("thumb")); err != nil {
		t.Fatal(err)
	}

	full, err := s.ReadImage("bowl.jpg")
	if err != nil {
		t.Fatal(err)
	}
	thumb, err := s.ReadThumbnail("bowl.jpg")
	if err != nil {
		t.Fatal(err)
	}
	if string(full) != "full" || string(thumb) != "thumb" {
		t.Errorf("full = %q, thumb = %q; same filename must address separate files", full, thumb)
	}
}

func TestReadMissingImage(t *testing.T) {
	s := openTestStore(t)
	if _, err := s.ReadImage("nope.jpg"); err == nil {
		t.Error("ReadImage of missing file succeeded")
	}
}

func TestFilenameValidation(t *testing.T) {
	s := openTestStore(t)

	for _, name := range []string{"", ".", "..", "../escape.jpg", "a/b.jpg", `a\b.jpg`} {
		if err := s.WriteImage(name, []byte("x")); !errors.Is(err, ErrBadFilename) {
			t.Errorf("WriteImage(%q): got %v, want ErrBadFilename", name, err)
		}
		if _, err := s.ReadImage(name); !errors.Is(err, ErrBadFilename) {
			t.Errorf("ReadImage(%q): got %v, want ErrBadFilename", name, err)
		}
	}
}

func TestDigestStable(t *testing.T) {
	first := Digest([]byte("glaze test tile"))
	second := Digest([]byte("glaze test tile"))
	other := Digest([]byte("different tile"))

	if first != second {
		t.Error("Digest is not deterministic")
	}
	if first == other {
		t.Error("Digest collides on different content")
	}
	if len(first) != 64 {
		t.Errorf("Digest length = %d hex chars, want 64", len(first))
	}
}
