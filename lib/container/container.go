// Copyright 2026 The PotteryTracker Authors
// SPDX-License-Identifier: Apache-2.0

// Package container wraps and unwraps the outer archive envelope. An
// archive on disk is either the raw inner ZIP bytes (unencrypted) or a
// passcrypt container around them (encrypted). Encrypted bytes are
// indistinguishable from random data by design, so encrypted-ness is
// never sniffed from content — it is carried by the filename suffix
// convention: ".ptbox" is plain, ".ptbox.enc" is encrypted. That
// suffix is the only signal consulted before any byte is read.
package container

import (
	"errors"
	"fmt"
	"strings"

	"github.com/CruzerUzer/potterytracker/lib/passcrypt"
)

const (
	// Suffix is the archive filename extension.
	Suffix = ".ptbox"

	// EncryptedSuffix marks an encrypted archive. A password is
	// required before unwrapping any file whose name carries it.
	EncryptedSuffix = ".ptbox.enc"
)

// zipMagic is the two-byte signature every inner archive starts with:
// the "PK" prefix of a ZIP local file header. Checked after unwrap as
// a structural cross-check independent of the cipher.
var zipMagic = []byte{0x50, 0x4b}

// ErrMissingPassword is returned by Unwrap when the filename says
// encrypted but no password was supplied.
var ErrMissingPassword = errors.New("container: archive is encrypted and requires a password")

// ErrCorruptArchive is returned when bytes that should be an inner
// archive do not start with the ZIP signature. Distinct from
// passcrypt.ErrAuthenticationFailed: this one means "not a valid
// archive", not "wrong password".
var ErrCorruptArchive = errors.New("container: not a valid archive (bad inner signature)")

// IsEncryptedName reports whether the filename convention marks the
// archive as encrypted.
func IsEncryptedName(filename string) bool {
	return strings.HasSuffix(filename, EncryptedSuffix)
}

// Wrap produces the on-disk container for inner archive bytes. With an
// empty password the inner bytes pass through unchanged; otherwise
// they are sealed by passcrypt.
func Wrap(inner []byte, password string) ([]byte, error) {
	if password == "" {
		return inner, nil
	}
	wrapped, err := passcrypt.Encrypt(inner, password)
	if err != nil {
		return nil, fmt.Errorf("container: encrypting archive: %w", err)
	}
	return wrapped, nil
}

// Unwrap recovers the inner archive bytes from a container read off
// disk. The encrypted hint comes from the filename convention (see
// IsEncryptedName), never from the bytes. The result is verified to
// start with the ZIP signature in both branches.
//
// Error classification matters to callers: ErrMissingPassword when the
// hint demands a password that was not given,
// passcrypt.ErrAuthenticationFailed (wrapped) for a wrong password or
// tampered ciphertext, ErrCorruptArchive when decryption succeeds (or
// was not needed) but the bytes are not an inner archive.
func Unwrap(data []byte, encrypted bool, password string) ([]byte, error) {
	if encrypted {
		if password == "" {
			return nil, ErrMissingPassword
		}
		inner, err := passcrypt.Decrypt(data, password)
		if err != nil {
			return nil, fmt.Errorf("container: unwrapping encrypted archive: %w", err)
		}
		return checkMagic(inner)
	}
	return checkMagic(data)
}

// checkMagic verifies the inner-format signature.
func checkMagic(inner []byte) ([]byte, error) {
	if len(inner) < len(zipMagic) || inner[0] != zipMagic[0] || inner[1] != zipMagic[1] {
		return nil, ErrCorruptArchive
	}
	return inner, nil
}
