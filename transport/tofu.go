package transport

import (
	"bytes"
	"crypto/sha256"
	"crypto/tls"
	"crypto/x509"
	"fmt"
)

// TofuPolicy is a Trust-On-First-Use server certificate policy: with no
// pinned fingerprint it accepts any end-entity certificate without chain or
// name validation ("first use"); once a fingerprint is pinned (an intended
// future extension driven by the pairing flow) it gates acceptance on a
// SHA-256 match of the certificate's raw bytes. The policy is a value, not
// mutable state, and every trust decision is funneled through
// VerifyPeerCertificate so pinning can be introduced without touching
// connection-setup code anywhere else.
type TofuPolicy struct {
	pinnedFingerprint []byte
}

// NewTofuPolicy returns the current "accept any server certificate" policy.
func NewTofuPolicy() TofuPolicy {
	return TofuPolicy{}
}

// WithPinnedFingerprint returns a policy that only accepts a server
// certificate whose SHA-256 fingerprint matches fingerprint. Not used by
// the core today; reserved for a future pairing-driven pinning step.
func (p TofuPolicy) WithPinnedFingerprint(fingerprint []byte) TofuPolicy {
	return TofuPolicy{pinnedFingerprint: fingerprint}
}

// VerifyPeerCertificate implements the tls.Config.VerifyPeerCertificate
// callback. It is installed alongside InsecureSkipVerify so that Go's
// default chain/hostname validation never runs; this function is the only
// gate a peer certificate passes through.
func (p TofuPolicy) VerifyPeerCertificate(rawCerts [][]byte, _ [][]*x509.Certificate) error {
	if len(rawCerts) == 0 {
		return fmt.Errorf("%w: peer presented no certificate", ErrTLS)
	}

	if p.pinnedFingerprint == nil {
		return nil
	}

	cert, err := x509.ParseCertificate(rawCerts[0])
	if err != nil {
		return fmt.Errorf("%w: parse peer certificate: %v", ErrTLS, err)
	}
	sum := sha256.Sum256(cert.Raw)
	if !bytes.Equal(sum[:], p.pinnedFingerprint) {
		return fmt.Errorf("%w: peer certificate fingerprint mismatch", ErrTLS)
	}
	return nil
}

// clientTLSConfig builds the TLS client configuration used when dialing a
// peer: TOFU verification in place of chain validation, the endpoint's own
// certificate presented for (optional, unvalidated) client auth, and the
// syncmist ALPN token. TLS 1.2 and 1.3 are both accepted; Go's standard
// library negotiates the full RSA PKCS#1, RSA-PSS, ECDSA P-256/384/521 and
// Ed25519 signature scheme set automatically for whichever certificate type
// is in play, so no explicit scheme list is configured here.
func (p TofuPolicy) clientTLSConfig(cert tls.Certificate) *tls.Config {
	return &tls.Config{
		Certificates:          []tls.Certificate{cert},
		InsecureSkipVerify:    true,
		VerifyPeerCertificate: p.VerifyPeerCertificate,
		ServerName:            certSubjectAltName,
		NextProtos:            []string{alpnProtocol},
		MinVersion:            tls.VersionTLS12,
	}
}
