// Package crypt encrypts stored account secrets at rest. Each secret is
// sealed twice with AES-GCM under keys derived from two independent server
// secrets, so leaking a single secret is not enough to decrypt the store.
package crypt

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
)

// ErrMalformedPayload is returned when a ciphertext is too short to carry
// a nonce or fails base64 decoding.
var ErrMalformedPayload = errors.New("crypt: malformed payload")

// deriveKey stretches an arbitrary secret into a 32-byte AES key.
func deriveKey(secret string) []byte {
	sum := sha256.Sum256([]byte(secret))
	return sum[:]
}

func newAEAD(secret string) (cipher.AEAD, error) {
	block, err := aes.NewCipher(deriveKey(secret))
	if err != nil {
		return nil, fmt.Errorf("new cipher: %w", err)
	}
	return cipher.NewGCM(block)
}

// seal encrypts plaintext and returns base64(nonce || ciphertext).
func seal(plaintext, secret string) (string, error) {
	aead, err := newAEAD(secret)
	if err != nil {
		return "", err
	}
	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("generate nonce: %w", err)
	}
	ct := aead.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(ct), nil
}

// open reverses seal.
func open(payload, secret string) (string, error) {
	aead, err := newAEAD(secret)
	if err != nil {
		return "", err
	}
	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", ErrMalformedPayload
	}
	if len(raw) < aead.NonceSize() {
		return "", ErrMalformedPayload
	}
	nonce, ct := raw[:aead.NonceSize()], raw[aead.NonceSize():]
	plain, err := aead.Open(nil, nonce, ct, nil)
	if err != nil {
		return "", fmt.Errorf("open payload: %w", err)
	}
	return string(plain), nil
}

// DoubleEncrypt seals plaintext with secret1, then seals the result with
// secret2. The returned value is a base64 string safe for storage.
func DoubleEncrypt(plaintext, secret1, secret2 string) (string, error) {
	first, err := seal(plaintext, secret1)
	if err != nil {
		return "", err
	}
	return seal(first, secret2)
}

// DoubleDecrypt reverses DoubleEncrypt: opens with secret2, then secret1.
func DoubleDecrypt(payload, secret1, secret2 string) (string, error) {
	first, err := open(payload, secret2)
	if err != nil {
		return "", err
	}
	return open(first, secret1)
}
