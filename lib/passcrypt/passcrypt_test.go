// Copyright 2026 The PotteryTracker Authors
// SPDX-License-Identifier: Apache-2.0

package passcrypt

import (
	"bytes"
	"crypto/rand"
	"errors"
	"testing"
)

func TestDeriveKeyDeterministic(t *testing.T) {
	salt := []byte("0123456789abcdef")

	key1 := DeriveKey("hunter2", salt)
	key2 := DeriveKey("hunter2", salt)

	if !bytes.Equal(key1, key2) {
		t.Error("same password + same salt should produce identical keys")
	}
	if len(key1) != KeySize {
		t.Errorf("derived key is %d bytes, want %d", len(key1), KeySize)
	}
}

func TestDeriveKeyVariesWithSalt(t *testing.T) {
	key1 := DeriveKey("hunter2", []byte("0123456789abcdef"))
	key2 := DeriveKey("hunter2", []byte("fedcba9876543210"))

	if bytes.Equal(key1, key2) {
		t.Error("different salts should produce different keys")
	}
}

func TestDeriveKeyVariesWithPassword(t *testing.T) {
	salt := []byte("0123456789abcdef")

	key1 := DeriveKey("hunter2", salt)
	key2 := DeriveKey("hunter3", salt)

	if bytes.Equal(key1, key2) {
		t.Error("different passwords should produce different keys")
	}
}

func TestEncryptDecryptRoundTrip(t *testing.T) {
	large := make([]byte, 10<<20)
	if _, err := rand.Read(large); err != nil {
		t.Fatal(err)
	}

	cases := []struct {
		name      string
		plaintext []byte
	}{
		{"empty", []byte{}},
		{"one byte", []byte{0x42}},
		{"text", []byte("two stages, one glaze, three pots")},
		{"ten megabytes", large},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			container, err := Encrypt(tc.plaintext, "hunter2")
			if err != nil {
				t.Fatalf("Encrypt() error: %v", err)
			}
			if len(container) != len(tc.plaintext)+Overhead {
				t.Errorf("container is %d bytes, want %d", len(container), len(tc.plaintext)+Overhead)
			}

			plaintext, err := Decrypt(container, "hunter2")
			if err != nil {
				t.Fatalf("Decrypt() error: %v", err)
			}
			if !bytes.Equal(plaintext, tc.plaintext) {
				t.Error("round-tripped plaintext differs from original")
			}
		})
	}
}

func TestEncryptFreshSaltAndIV(t *testing.T) {
	plaintext := []byte("same input")

	container1, err := Encrypt(plaintext, "hunter2")
	if err != nil {
		t.Fatal(err)
	}
	container2, err := Encrypt(plaintext, "hunter2")
	if err != nil {
		t.Fatal(err)
	}

	if bytes.Equal(container1[:SaltSize], container2[:SaltSize]) {
		t.Error("two Encrypt calls reused the same salt")
	}
	if bytes.Equal(container1[SaltSize:SaltSize+IVSize], container2[SaltSize:SaltSize+IVSize]) {
		t.Error("two Encrypt calls reused the same IV")
	}
	if bytes.Equal(container1, container2) {
		t.Error("two Encrypt calls produced identical containers")
	}
}

func TestEncryptEmptyPassword(t *testing.T) {
	_, err := Encrypt([]byte("data"), "")
	if !errors.Is(err, ErrEmptyPassword) {
		t.Errorf("Encrypt with empty password: got %v, want ErrEmptyPassword", err)
	}
}

func TestDecryptEmptyPassword(t *testing.T) {
	_, err := Decrypt(make([]byte, Overhead+8), "")
	if !errors.Is(err, ErrEmptyPassword) {
		t.Errorf("Decrypt with empty password: got %v, want ErrEmptyPassword", err)
	}
}

func TestDecryptWrongPassword(t *testing.T) {
	container, err := Encrypt([]byte("secret workshop notes"), "hunter2")
	if err != nil {
		t.Fatal(err)
	}

	plaintext, err := Decrypt(container, "wrong")
	if !errors.Is(err, ErrAuthenticationFailed) {
		t.Errorf("Decrypt with wrong password: got %v, want ErrAuthenticationFailed", err)
	}
	if plaintext != nil {
		t.Error("failed Decrypt leaked plaintext bytes")
	}
}

func TestDecryptTamperDetection(t *testing.T) {
	container, err := Encrypt([]byte("authenticated content"), "hunter2")
	if err != nil {
		t.Fatal(err)
	}

	// Flip a single bit in every byte position across the tag and the
	// ciphertext. Each corruption must fail authentication, never
	// silently return wrong plaintext.
	for position := SaltSize + IVSize; position < len(container); position++ {
		corrupted := bytes.Clone(container)
		corrupted[position] ^= 0x01

		if _, err := Decrypt(corrupted, "hunter2"); !errors.Is(err, ErrAuthenticationFailed) {
			t.Fatalf("bit flip at byte %d: got %v, want ErrAuthenticationFailed", position, err)
		}
	}
}

func TestDecryptTruncatedBuffer(t *testing.T) {
	_, err := Decrypt(make([]byte, Overhead-1), "hunter2")
	if err == nil {
		t.Fatal("Decrypt of truncated buffer succeeded")
	}
	if errors.Is(err, ErrAuthenticationFailed) {
		t.Error("structural size failure must not be reported as authentication failure")
	}
}
