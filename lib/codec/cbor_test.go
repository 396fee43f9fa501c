// Copyright 2026 The PotteryTracker Authors
// SPDX-License-Identifier: Apache-2.0

package codec

import (
	"bytes"
	"testing"
)

type catalogEntry struct {
	Filename  string `json:"filename"`
	SizeBytes int64  `json:"size_bytes"`
	Encrypted bool   `json:"encrypted"`
}

func TestMarshalDeterministic(t *testing.T) {
	entry := catalogEntry{Filename: "alice.ptbox", SizeBytes: 4096, Encrypted: true}

	first, err := Marshal(entry)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	second, err := Marshal(entry)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if !bytes.Equal(first, second) {
		t.Error("same value produced different encodings")
	}
}

func TestRoundTrip(t *testing.T) {
	entry := catalogEntry{Filename: "alice.ptbox.enc", SizeBytes: 123456, Encrypted: true}

	data, err := Marshal(entry)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var decoded catalogEntry
	if err := Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if decoded != entry {
		t.Errorf("round trip: got %+v, want %+v", decoded, entry)
	}
}

func TestUnknownFieldsIgnored(t *testing.T) {
	// A newer writer added a field this binary does not know about.
	newer := map[string]any{
		"filename":   "bob.ptbox",
		"size_bytes": int64(10),
		"encrypted":  false,
		"checksum":   "abcd",
	}
	data, err := Marshal(newer)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var decoded catalogEntry
	if err := Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal with unknown field: %v", err)
	}
	if decoded.Filename != "bob.ptbox" {
		t.Errorf("Filename = %q, want %q", decoded.Filename, "bob.ptbox")
	}
}

func TestDecodeIntoAny(t *testing.T) {
	data, err := Marshal(map[string]any{"k": "v"})
	if err != nil {
		t.Fatal(err)
	}

	var decoded any
	if err := Unmarshal(data, &decoded); err != nil {
		t.Fatal(err)
	}
	m, ok := decoded.(map[string]any)
	if !ok {
		t.Fatalf("decoded type = %T, want map[string]any", decoded)
	}
	if m["k"] != "v" {
		t.Errorf(`m["k"] = %v, want "v"`, m["k"])
	}
}
