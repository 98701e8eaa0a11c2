// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package secrets seals confidential values before they are persisted.
package secrets

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/nacl/secretbox"
)

const (
	keySize   = 32
	nonceSize = 24
)

// ErrDecrypt is returned when a sealed value cannot be opened with the configured key.
var ErrDecrypt = errors.New("unable to decrypt sealed value")

// SecretboxCipher seals values with NaCl secretbox (XSalsa20-Poly1305).
// Sealed values are base64 encoded "nonce || box" so they can be stored in JSON.
type SecretboxCipher struct {
	key [keySize]byte
}

// NewSecretboxCipher builds a cipher from the configured key. A base64
// encoded 32 byte key is used as is; any other non-empty value is stretched
// with SHA-256.
func NewSecretboxCipher(key string) (*SecretboxCipher, error) {
	if key == "" {
		return nil, errors.New("encryption key is required")
	}

	c := &SecretboxCipher{}
	if raw, err := base64.StdEncoding.DecodeString(key); err == nil && len(raw) == keySize {
		copy(c.key[:], raw)
		return c, nil
	}
	c.key = sha256.Sum256([]byte(key))
	return c, nil
}

// Seal encrypts plaintext. Empty input seals to the empty string.
func (c *SecretboxCipher) Seal(plaintext string) (string, error) {
	if plaintext == "" {
		return "", nil
	}

	var nonce [nonceSize]byte
	if _, err := io.ReadFull(rand.Reader, nonce[:]); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}

	sealed := secretbox.Seal(nonce[:], []byte(plaintext), &nonce, &c.key)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// Open decrypts a value produced by Seal.
func (c *SecretboxCipher) Open(sealed string) (string, error) {
	if sealed == "" {
		return "", nil
	}

	raw, err := base64.StdEncoding.DecodeString(sealed)
	if err != nil || len(raw) < nonceSize+secretbox.Overhead {
		return "", ErrDecrypt
	}

	var nonce [nonceSize]byte
	copy(nonce[:], raw[:nonceSize])
	plaintext, ok := secretbox.Open(nil, raw[nonceSize:], &nonce, &c.key)
	if !ok {
		return "", ErrDecrypt
	}
	return string(plaintext), nil
}
