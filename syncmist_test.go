package syncmist

import "testing"

func TestFacadeEncryptDecryptRoundTrip(t *testing.T) {
	key, err := GenerateSymmetricKey()
	if err != nil {
		t.Fatalf("GenerateSymmetricKey: %v", err)
	}

	plaintext := []byte("clip me")
	sealed, err := Encrypt(plaintext, key)
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}

	opened, err := Decrypt(sealed, key)
	if err != nil {
		t.Fatalf("Decrypt: %v", err)
	}
	if string(opened) != string(plaintext) {
		t.Fatalf("got %q, want %q", opened, plaintext)
	}
}

func TestFacadeKeyExchangeRoundTrip(t *testing.T) {
	alice, err := GenerateKeyPair()
	if err != nil {
		t.Fatalf("GenerateKeyPair: %v", err)
	}
	bob, err := GenerateKeyPair()
	if err != nil {
		t.Fatalf("GenerateKeyPair: %v", err)
	}

	aliceSecret, err := DeriveSharedSecret(alice.Secret[:], bob.Public[:])
	if err != nil {
		t.Fatalf("DeriveSharedSecret (alice): %v", err)
	}
	bobSecret, err := DeriveSharedSecret(bob.Secret[:], alice.Public[:])
	if err != nil {
		t.Fatalf("DeriveSharedSecret (bob): %v", err)
	}

	if string(aliceSecret) != string(bobSecret) {
		t.Fatal("alice and bob derived different shared secrets")
	}
}

func TestNewTransportIsUnbound(t *testing.T) {
	tr := NewTransport()
	defer tr.Close()

	if tr.State() != StateUnbound {
		t.Fatalf("expected StateUnbound, got %v", tr.State())
	}
	if tr.IsRunning() {
		t.Fatal("expected a fresh transport not to be running")
	}
}

func TestNewDiscoveryStartsEmpty(t *testing.T) {
	d := NewDiscovery("abcdef1234567890", "Test Device")
	if peers := d.DiscoveredPeers(); len(peers) != 0 {
		t.Fatalf("expected no discovered peers, got %d", len(peers))
	}
}
