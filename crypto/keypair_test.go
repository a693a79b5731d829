package crypto

import (
	"bytes"
	"errors"
	"testing"
)

func TestGenerateKeyPairDistinct(t *testing.T) {
	a, err := GenerateKeyPair()
	if err != nil {
		t.Fatalf("generate keypair: %v", err)
	}
	b, err := GenerateKeyPair()
	if err != nil {
		t.Fatalf("generate keypair: %v", err)
	}

	if bytes.Equal(a.Secret[:], b.Secret[:]) {
		t.Fatal("expected distinct secrets across calls")
	}
	if bytes.Equal(a.Public[:], b.Public[:]) {
		t.Fatal("expected distinct public keys across calls")
	}
}

func TestDeriveSharedSecretSymmetry(t *testing.T) {
	alice, err := GenerateKeyPair()
	if err != nil {
		t.Fatalf("generate keypair: %v", err)
	}
	bob, err := GenerateKeyPair()
	if err != nil {
		t.Fatalf("generate keypair: %v", err)
	}

	sharedA, err := DeriveSharedSecret(alice.Secret[:], bob.Public[:])
	if err != nil {
		t.Fatalf("derive (alice): %v", err)
	}
	sharedB, err := DeriveSharedSecret(bob.Secret[:], alice.Public[:])
	if err != nil {
		t.Fatalf("derive (bob): %v", err)
	}

	if len(sharedA) != KeySize {
		t.Fatalf("unexpected shared secret length: %d", len(sharedA))
	}
	if !bytes.Equal(sharedA, sharedB) {
		t.Fatal("expected ECDH symmetry between both derivations")
	}

	sealed, err := Encrypt([]byte("msg"), sharedA)
	if err != nil {
		t.Fatalf("encrypt with derived secret: %v", err)
	}
	got, err := Decrypt(sealed, sharedB)
	if err != nil {
		t.Fatalf("decrypt with derived secret: %v", err)
	}
	if string(got) != "msg" {
		t.Fatalf("pairing round trip mismatch: got %q", got)
	}
}

func TestDeriveSharedSecretBadKeyLength(t *testing.T) {
	kp, _ := GenerateKeyPair()

	if _, err := DeriveSharedSecret(make([]byte, 16), kp.Public[:]); !errors.Is(err, ErrBadKeyLength) {
		t.Fatalf("expected ErrBadKeyLength for short secret, got %v", err)
	}
	if _, err := DeriveSharedSecret(kp.Secret[:], make([]byte, 16)); !errors.Is(err, ErrBadKeyLength) {
		t.Fatalf("expected ErrBadKeyLength for short public key, got %v", err)
	}
}
