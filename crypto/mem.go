package crypto

import "runtime"

// Zero overwrites key with zeros in place. Best-effort defense against
// secret key material lingering in memory after use; the Go GC may already
// have copied the backing array elsewhere, so this is not a guarantee, only
// a reduction of the window key material stays readable.
func (key SymmetricKey) Zero() {
	zeroBytes(key)
}

// Zero overwrites both halves of the keypair with zeros in place.
func (kp *KeyPair) Zero() {
	zeroBytes(kp.Secret[:])
	zeroBytes(kp.Public[:])
}

// zeroBytes overwrites b with zeros. runtime.KeepAlive prevents the
// compiler from eliminating the writes as a dead store once b is no longer
// read afterward.
func zeroBytes(b []byte) {
	if len(b) == 0 {
		return
	}
	for i := range b {
		b[i] = 0
	}
	runtime.KeepAlive(b)
}
