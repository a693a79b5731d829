package transport

import (
	"crypto/sha256"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"testing"
)

func TestTofuPolicyAcceptsAnyCertificateByDefault(t *testing.T) {
	certDER, _, err := generateSelfSignedCert()
	if err != nil {
		t.Fatalf("generateSelfSignedCert: %v", err)
	}

	policy := NewTofuPolicy()
	if err := policy.VerifyPeerCertificate([][]byte{certDER}, nil); err != nil {
		t.Fatalf("expected first-use acceptance, got %v", err)
	}
}

func TestTofuPolicyRejectsNoCertificate(t *testing.T) {
	policy := NewTofuPolicy()
	if err := policy.VerifyPeerCertificate(nil, nil); !errors.Is(err, ErrTLS) {
		t.Fatalf("expected ErrTLS, got %v", err)
	}
}

func TestTofuPolicyPinnedFingerprintAcceptsMatch(t *testing.T) {
	certDER, _, err := generateSelfSignedCert()
	if err != nil {
		t.Fatalf("generateSelfSignedCert: %v", err)
	}
	cert, err := x509.ParseCertificate(certDER)
	if err != nil {
		t.Fatalf("ParseCertificate: %v", err)
	}
	sum := sha256.Sum256(cert.Raw)

	policy := NewTofuPolicy().WithPinnedFingerprint(sum[:])
	if err := policy.VerifyPeerCertificate([][]byte{certDER}, nil); err != nil {
		t.Fatalf("expected pinned match to be accepted, got %v", err)
	}
}

func TestTofuPolicyPinnedFingerprintRejectsMismatch(t *testing.T) {
	certDER, _, err := generateSelfSignedCert()
	if err != nil {
		t.Fatalf("generateSelfSignedCert: %v", err)
	}

	wrongFingerprint := make([]byte, sha256.Size)
	policy := NewTofuPolicy().WithPinnedFingerprint(wrongFingerprint)
	if err := policy.VerifyPeerCertificate([][]byte{certDER}, nil); !errors.Is(err, ErrTLS) {
		t.Fatalf("expected ErrTLS on fingerprint mismatch, got %v", err)
	}
}

func TestClientTLSConfigCarriesALPNAndServerName(t *testing.T) {
	certDER, keyDER, err := generateSelfSignedCert()
	if err != nil {
		t.Fatalf("generateSelfSignedCert: %v", err)
	}
	key, err := x509.ParsePKCS8PrivateKey(keyDER)
	if err != nil {
		t.Fatalf("ParsePKCS8PrivateKey: %v", err)
	}

	cert := tls.Certificate{Certificate: [][]byte{certDER}, PrivateKey: key}
	cfg := NewTofuPolicy().clientTLSConfig(cert)
	if len(cfg.NextProtos) != 1 || cfg.NextProtos[0] != alpnProtocol {
		t.Errorf("NextProtos = %v, want [%q]", cfg.NextProtos, alpnProtocol)
	}
	if cfg.ServerName != certSubjectAltName {
		t.Errorf("ServerName = %q, want %q", cfg.ServerName, certSubjectAltName)
	}
	if !cfg.InsecureSkipVerify {
		t.Error("expected InsecureSkipVerify so only VerifyPeerCertificate gates trust")
	}
}
