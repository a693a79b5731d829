package transport

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"crypto/x509/pkix"
	"fmt"
	"math/big"
	"time"
)

// certSubjectAltName is the literal SAN every SyncMist endpoint certificate
// carries. Peers never validate it (see TofuPolicy in tofu.go); it exists so the
// certificate is well-formed and self-describing.
const certSubjectAltName = "syncmist"

// generateSelfSignedCert produces a fresh self-signed ECDSA P-256
// certificate (DER) and matching PKCS#8 private key (DER) with subject
// alternative name "syncmist". A new keypair is generated on every call;
// SyncMist endpoints never persist or reuse certificate material across
// restarts.
func generateSelfSignedCert() (certDER, keyDER []byte, err error) {
	priv, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: generate key: %v", ErrTLS, err)
	}

	serial, err := rand.Int(rand.Reader, new(big.Int).Lsh(big.NewInt(1), 128))
	if err != nil {
		return nil, nil, fmt.Errorf("%w: generate serial: %v", ErrTLS, err)
	}

	template := x509.Certificate{
		SerialNumber: serial,
		Subject:      pkix.Name{CommonName: certSubjectAltName},
		DNSNames:     []string{certSubjectAltName},
		NotBefore:    time.Now().Add(-time.Hour),
		NotAfter:     time.Now().Add(24 * 365 * time.Hour),
		KeyUsage:     x509.KeyUsageDigitalSignature | x509.KeyUsageKeyEncipherment,
		ExtKeyUsage:  []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth, x509.ExtKeyUsageClientAuth},
	}

	certDER, err = x509.CreateCertificate(rand.Reader, &template, &template, &priv.PublicKey, priv)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: create certificate: %v", ErrTLS, err)
	}

	keyDER, err = x509.MarshalPKCS8PrivateKey(priv)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: marshal private key: %v", ErrTLS, err)
	}

	return certDER, keyDER, nil
}
