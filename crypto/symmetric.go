// Package crypto provides the symmetric and X25519 primitives that back
// SyncMist's clipboard payload encryption and pairing key exchange.
package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"fmt"
	"io"
)

const (
	// KeySize is the length in bytes of a SymmetricKey.
	KeySize = 32
	// NonceSize is the length in bytes of the random GCM nonce prepended to
	// every SealedMessage.
	NonceSize = 12
	// TagSize is the length in bytes of the GCM authentication tag appended
	// to every SealedMessage's ciphertext.
	TagSize = 16
)

// SymmetricKey is an opaque 32-byte AES-256 key. Callers own the slice and
// are responsible for discarding it when done; the package never retains a
// copy beyond the duration of a single call.
type SymmetricKey []byte

// GenerateSymmetricKey draws a fresh 256-bit key from the OS CSPRNG.
func GenerateSymmetricKey() (SymmetricKey, error) {
	key := make([]byte, KeySize)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("crypto: generate symmetric key: %w", err)
	}
	return key, nil
}

// Encrypt seals plaintext under key with AES-256-GCM and empty associated
// data. The result is laid out as nonce(12) || ciphertext || tag(16); the
// nonce is fresh random per call so two calls with the same (plaintext, key)
// never produce the same output.
func Encrypt(plaintext []byte, key SymmetricKey) ([]byte, error) {
	aead, err := newAEAD(key)
	if err != nil {
		return nil, err
	}

	sealed := make([]byte, NonceSize, NonceSize+len(plaintext)+TagSize)
	if _, err := io.ReadFull(rand.Reader, sealed[:NonceSize]); err != nil {
		return nil, fmt.Errorf("crypto: generate nonce: %w", err)
	}

	return aead.Seal(sealed, sealed[:NonceSize], plaintext, nil), nil
}

// Decrypt opens a SealedMessage produced by Encrypt (or a bit-exact
// equivalent from a remote peer) and returns the original plaintext.
func Decrypt(sealed []byte, key SymmetricKey) ([]byte, error) {
	if len(sealed) < NonceSize {
		return nil, ErrTooShort
	}

	aead, err := newAEAD(key)
	if err != nil {
		return nil, err
	}

	nonce, ciphertext := sealed[:NonceSize], sealed[NonceSize:]
	plaintext, err := aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAuthFailure, err)
	}
	return plaintext, nil
}

func newAEAD(key SymmetricKey) (cipher.AEAD, error) {
	if len(key) != KeySize {
		return nil, ErrBadKeyLength
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("crypto: new cipher: %w", err)
	}

	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("crypto: new gcm: %w", err)
	}
	return aead, nil
}
