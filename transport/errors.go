package transport

import "errors"

var (
	// ErrTLS covers certificate generation, TLS/QUIC config construction, and
	// crypto-provider failures.
	ErrTLS = errors.New("transport: tls error")
	// ErrIO covers socket bind and stream read/write failures.
	ErrIO = errors.New("transport: io error")
	// ErrConnection covers handshake, endpoint, and dial failures.
	ErrConnection = errors.New("transport: connection error")
	// ErrNotConnected is returned by every operation once the endpoint is
	// closed, and by AcceptConnection when no listener was started.
	ErrNotConnected = errors.New("transport: not connected")
	// ErrPeerNotFound is returned when a peer_key has no live connection.
	ErrPeerNotFound = errors.New("transport: peer not found")
)
