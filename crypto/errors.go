package crypto

import "errors"

var (
	// ErrBadKeyLength is returned whenever a key or public key argument is not
	// exactly 32 bytes.
	ErrBadKeyLength = errors.New("crypto: key must be exactly 32 bytes")
	// ErrTooShort is returned by Decrypt when the sealed message is shorter
	// than the 12-byte nonce prefix.
	ErrTooShort = errors.New("crypto: sealed message shorter than nonce size")
	// ErrAuthFailure is returned on AEAD tag mismatch, including decryption
	// under the wrong key.
	ErrAuthFailure = errors.New("crypto: authentication failed")
)
