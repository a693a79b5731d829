package crypto

import "testing"

func TestSymmetricKeyZero(t *testing.T) {
	key, err := GenerateSymmetricKey()
	if err != nil {
		t.Fatalf("GenerateSymmetricKey: %v", err)
	}

	key.Zero()
	for i, b := range key {
		if b != 0 {
			t.Fatalf("key[%d] = %d, want 0", i, b)
		}
	}
}

func TestKeyPairZero(t *testing.T) {
	kp, err := GenerateKeyPair()
	if err != nil {
		t.Fatalf("GenerateKeyPair: %v", err)
	}

	kp.Zero()
	for i, b := range kp.Secret {
		if b != 0 {
			t.Fatalf("Secret[%d] = %d, want 0", i, b)
		}
	}
	for i, b := range kp.Public {
		if b != 0 {
			t.Fatalf("Public[%d] = %d, want 0", i, b)
		}
	}
}

func TestZeroBytesEmptyAndNil(t *testing.T) {
	zeroBytes(nil)
	zeroBytes([]byte{})
}
