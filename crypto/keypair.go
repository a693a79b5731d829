package crypto

import (
	"crypto/rand"
	"fmt"
	"io"

	"golang.org/x/crypto/curve25519"
)

// KeyPair is an X25519 keypair: Secret must never leave the trust boundary,
// Public is broadcastable (e.g. during pairing).
type KeyPair struct {
	Secret [KeySize]byte
	Public [KeySize]byte
}

// GenerateKeyPair draws a fresh X25519 secret from the OS CSPRNG and
// derives the matching public key.
func GenerateKeyPair() (KeyPair, error) {
	var kp KeyPair
	if _, err := io.ReadFull(rand.Reader, kp.Secret[:]); err != nil {
		return KeyPair{}, fmt.Errorf("crypto: generate keypair: %w", err)
	}

	public, err := curve25519.X25519(kp.Secret[:], curve25519.Basepoint)
	if err != nil {
		return KeyPair{}, fmt.Errorf("crypto: derive public key: %w", err)
	}
	copy(kp.Public[:], public)
	return kp, nil
}

// DeriveSharedSecret performs X25519 Diffie-Hellman between mySecret and
// theirPublic. The 32-byte result is suitable for direct use as a
// SymmetricKey; callers requiring domain separation must apply a KDF of
// their own — the core deliberately stops at the raw ECDH output so that
// policy choice stays with the caller.
func DeriveSharedSecret(mySecret, theirPublic []byte) ([]byte, error) {
	if len(mySecret) != KeySize || len(theirPublic) != KeySize {
		return nil, ErrBadKeyLength
	}

	shared, err := curve25519.X25519(mySecret, theirPublic)
	if err != nil {
		return nil, fmt.Errorf("crypto: derive shared secret: %w", err)
	}
	return shared, nil
}
