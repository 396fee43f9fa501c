// Copyright 2026 The PotteryTracker Authors
// SPDX-License-Identifier: Apache-2.0

// Package passcrypt turns a user-supplied password into authenticated
// encryption of opaque byte buffers. It is the cipher unit under the
// archive container format: PBKDF2-SHA256 stretches the password into
// an AES-256 key, and AES-GCM provides confidentiality and tamper
// detection in one primitive.
//
// The encrypted buffer layout is a fixed-width contract shared with
// every archive ever written:
//
//	[salt: 16 bytes] [iv: 16 bytes] [tag: 16 bytes] [ciphertext: N bytes]
//
// Salt and IV are generated fresh per Encrypt call and travel in the
// clear — they are not secret, only the derived key is. Changing any
// of the width constants breaks decryption of existing archives.
package passcrypt

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/pbkdf2"
)

const (
	// SaltSize is the PBKDF2 salt width.
	SaltSize = 16

	// IVSize is the GCM nonce width. 16 rather than GCM's default 12
	// so the container layout stays three equal 16-byte fields before
	// the ciphertext.
	IVSize = 16

	// TagSize is the GCM authentication tag width.
	TagSize = 16

	// KeySize selects AES-256.
	KeySize = 32

	// Overhead is the total container overhead over the plaintext.
	Overhead = SaltSize + IVSize + TagSize

	// iterations is the PBKDF2-SHA256 iteration count. Deliberately
	// slow: an attacker brute-forcing passwords pays this cost per
	// guess. Raising it invalidates nothing (the salt and layout are
	// unchanged), but archives written at a higher count decrypt
	// slower on old binaries.
	iterations = 210_000
)

// ErrEmptyPassword is returned by Encrypt and Decrypt when the
// password is empty. Callers wanting an unencrypted archive must not
// reach this package at all (see lib/container).
var ErrEmptyPassword = errors.New("passcrypt: password must not be empty")

// ErrAuthenticationFailed is returned by Decrypt when the GCM tag does
// not verify: wrong password or tampered/corrupted data. It is a
// distinct sentinel so callers can tell "try the right password" apart
// from structural parse failures.
var ErrAuthenticationFailed = errors.New("passcrypt: authentication failed (wrong password or corrupted data)")

// DeriveKey derives the AES-256 key from a password and salt via
// PBKDF2-SHA256. Deterministic: the same password and salt always
// produce the same key.
func DeriveKey(password string, salt []byte) []byte {
	return pbkdf2.Key([]byte(password), salt, iterations, KeySize, sha256.New)
}

// Encrypt seals plaintext under the given password and returns the
// full container buffer (salt, IV, tag, ciphertext). A fresh random
// salt and IV are generated on every call — encrypting the same
// plaintext twice yields unrelated buffers.
func Encrypt(plaintext []byte, password string) ([]byte, error) {
	if password == "" {
		return nil, ErrEmptyPassword
	}

	salt := make([]byte, SaltSize)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return nil, fmt.Errorf("passcrypt: generating salt: %w", err)
	}
	iv := make([]byte, IVSize)
	if _, err := io.ReadFull(rand.Reader, iv); err != nil {
		return nil, fmt.Errorf("passcrypt: generating IV: %w", err)
	}

	aead, err := newAEAD(password, salt)
	if err != nil {
		return nil, err
	}

	// Seal appends ciphertext followed by the tag; the container
	// format wants the tag before the ciphertext, so split and
	// reorder.
	sealed := aead.Seal(nil, iv, plaintext, nil)
	ciphertext := sealed[:len(sealed)-TagSize]
	tag := sealed[len(sealed)-TagSize:]

	output := make([]byte, 0, Overhead+len(ciphertext))
	output = append(output, salt...)
	output = append(output, iv...)
	output = append(output, tag...)
	output = append(output, ciphertext...)
	return output, nil
}

// Decrypt opens a container buffer produced by Encrypt. Returns
// ErrEmptyPassword if password is empty, a size error if the buffer
// cannot hold the fixed-width header, and ErrAuthenticationFailed if
// the tag does not verify.
func Decrypt(container []byte, password string) ([]byte, error) {
	if password == "" {
		return nil, ErrEmptyPassword
	}
	if len(container) < Overhead {
		return nil, fmt.Errorf("passcrypt: buffer is %d bytes, minimum is %d (salt + IV + tag)",
			len(container), Overhead)
	}

	salt := container[:SaltSize]
	iv := container[SaltSize : SaltSize+IVSize]
	tag := container[SaltSize+IVSize : Overhead]
	ciphertext := container[Overhead:]

	aead, err := newAEAD(password, salt)
	if err != nil {
		return nil, err
	}

	// Reassemble the ciphertext||tag order that GCM Open expects.
	sealed := make([]byte, 0, len(ciphertext)+TagSize)
	sealed = append(sealed, ciphertext...)
	sealed = append(sealed, tag...)

	plaintext, err := aead.Open(nil, iv, sealed, nil)
	if err != nil {
		return nil, ErrAuthenticationFailed
	}
	return plaintext, nil
}

// newAEAD derives the key for (password, salt) and builds the AES-GCM
// AEAD with the container's 16-byte nonce width.
func newAEAD(password string, salt []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(DeriveKey(password, salt))
	if err != nil {
		return nil, fmt.Errorf("passcrypt: creating AES cipher: %w", err)
	}
	aead, err := cipher.NewGCMWithNonceSize(block, IVSize)
	if err != nil {
		return nil, fmt.Errorf("passcrypt: creating GCM: %w", err)
	}
	return aead, nil
}
