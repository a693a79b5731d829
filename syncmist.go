// Package syncmist is the public facade over the cryptographic core, LAN
// discovery, and QUIC transport that together let a device find peers on
// the local network and exchange clipboard payloads with them securely.
// It re-exports the crypto, discovery, and transport packages under one
// import so a host application only needs syncmist itself.
package syncmist

import (
	"syncmist/crypto"
	"syncmist/discovery"
	"syncmist/transport"
)

// Symmetric encryption (AES-256-GCM, nonce(12) || ciphertext || tag(16)).
const (
	SymmetricKeySize = crypto.KeySize
	NonceSize        = crypto.NonceSize
	TagSize          = crypto.TagSize
)

type SymmetricKey = crypto.SymmetricKey

// GenerateSymmetricKey returns a fresh random 32-byte AES-256-GCM key.
func GenerateSymmetricKey() (SymmetricKey, error) { return crypto.GenerateSymmetricKey() }

// Encrypt seals plaintext under key, returning nonce||ciphertext||tag.
func Encrypt(plaintext []byte, key SymmetricKey) ([]byte, error) {
	return crypto.Encrypt(plaintext, key)
}

// Decrypt opens a nonce||ciphertext||tag buffer produced by Encrypt.
func Decrypt(sealed []byte, key SymmetricKey) ([]byte, error) {
	return crypto.Decrypt(sealed, key)
}

// Key agreement (X25519).
type KeyPair = crypto.KeyPair

// GenerateKeyPair returns a fresh X25519 keypair.
func GenerateKeyPair() (KeyPair, error) { return crypto.GenerateKeyPair() }

// DeriveSharedSecret performs raw X25519 ECDH between mySecret and
// theirPublic. The output is the raw 32-byte shared secret, not a
// KDF-derived key; it can be used directly as a SymmetricKey, and callers
// that need domain separation apply a KDF of their own.
func DeriveSharedSecret(mySecret, theirPublic []byte) ([]byte, error) {
	return crypto.DeriveSharedSecret(mySecret, theirPublic)
}

// Discovery (mDNS/DNS-SD).

// DefaultDiscoveryPort is the UDP port a device advertises on by default.
const DefaultDiscoveryPort = discovery.DefaultPort

type (
	Discovery  = discovery.Discovery
	PeerRecord = discovery.PeerRecord
)

// NewDiscovery returns a Discovery for the given device identity.
func NewDiscovery(deviceID, deviceName string) *Discovery {
	return discovery.New(deviceID, deviceName)
}

// Transport (QUIC).

type (
	Transport       = transport.Transport
	EndpointState   = transport.EndpointState
	ReceivedMessage = transport.ReceivedMessage
)

const (
	StateUnbound  = transport.StateUnbound
	StateListener = transport.StateListener
	StateDialer   = transport.StateDialer
	StateClosed   = transport.StateClosed
)

// NewTransport returns an Unbound QUIC transport endpoint.
func NewTransport() *Transport { return transport.New() }
