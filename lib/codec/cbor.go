// Copyright 2026 The PotteryTracker Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec provides the tracker's standard CBOR encoding
// configuration.
//
// The tracker uses two serialization formats with a clear boundary:
// JSON for the archive record sets (self-describing text a future
// importer can read with any tooling) and CBOR for compact on-disk
// state owned by this application, such as the archive catalog the
// CLI maintains.
//
// The encoder uses Core Deterministic Encoding (RFC 8949 §4.2):
// sorted map keys, smallest integer encoding, no indefinite-length
// items. Same logical data always produces identical bytes, which
// keeps catalog rewrites diffable. The decoder ignores unknown
// fields, so older binaries read catalogs written by newer ones.
package codec

import (
	"reflect"

	"github.com/fxamacker/cbor/v2"
)

var encMode cbor.EncMode
var decMode cbor.DecMode

func init() {
	var err error

	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("codec: CBOR encoder initialization failed: " + err.Error())
	}

	decMode, err = cbor.DecOptions{
		// When the decode target is any, produce map[string]any
		// rather than CBOR's default map[any]any — the catalog only
		// ever uses string keys and map[string]any is what the rest
		// of the code (and encoding/json) expects.
		DefaultMapType: reflect.TypeOf(map[string]any(nil)),
	}.DecMode()
	if err != nil {
		panic("codec: CBOR decoder initialization failed: " + err.Error())
	}
}

// Marshal encodes v to CBOR using Core Deterministic Encoding.
func Marshal(v any) ([]byte, error) {
	return encMode.Marshal(v)
}

// Unmarshal decodes CBOR data into v. Unknown fields are ignored.
func Unmarshal(data []byte, v any) error {
	return decMode.Unmarshal(data, v)
}
