// Package transport implements the QUIC datagram transport: endpoint
// lifecycle, per-peer connection bookkeeping, and length-prefixed framed
// I/O over unidirectional streams.
package transport

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/quic-go/quic-go"

	"syncmist/logging"
)

const (
	// alpnProtocol is the single ALPN token every SyncMist endpoint
	// advertises; a handshake that cannot agree on it fails.
	alpnProtocol = "syncmist"
	// idleTimeout closes connections that see no activity for this long.
	idleTimeout = 60 * time.Second
	// receivePollInterval is how often ReceiveStream's supervisor checks the
	// connection table for peers it has not yet spawned a reader for.
	receivePollInterval = 10 * time.Millisecond
)

// EndpointState is the lifecycle state of a Transport's underlying QUIC
// endpoint.
type EndpointState int

const (
	StateUnbound EndpointState = iota
	StateListener
	StateDialer
	StateClosed
)

func (s EndpointState) String() string {
	switch s {
	case StateUnbound:
		return "unbound"
	case StateListener:
		return "listener"
	case StateDialer:
		return "dialer"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// ReceivedMessage is one (peer_key, payload) pair yielded by ReceiveStream.
type ReceivedMessage struct {
	PeerKey string
	Payload []byte
}

// Transport is a single QUIC endpoint that may act as a listener, a dialer,
// or both at once (a listener that later dials reuses its own UDP socket;
// see New's doc comment on the single-endpoint model). Every exported
// method is safe for concurrent use.
type Transport struct {
	mu    sync.Mutex
	state EndpointState

	qt       *quic.Transport
	listener *quic.Listener

	connections map[string]*quic.Conn

	logger logging.Logger
}

// New returns an Unbound Transport with no underlying endpoint and an empty
// connection table.
//
// Single-endpoint model: a Transport owns at most one UDP socket. Calling
// ConnectToPeer after StartServer does not create a second socket: the dial
// reuses the listener's socket, since quic-go's Transport type supports
// listening and dialing concurrently off one net.PacketConn. Calling
// StartServer after ConnectToPeer is rejected with ErrConnection, because
// the socket is already bound.
func New() *Transport {
	return NewWithLogger(logging.NewLogLogger())
}

// NewWithLogger is New with an explicit diagnostic logger, for hosts that
// want transport lifecycle events routed through their own logging setup.
func NewWithLogger(logger logging.Logger) *Transport {
	return &Transport{
		state:       StateUnbound,
		connections: make(map[string]*quic.Conn),
		logger:      logger,
	}
}

// State returns the endpoint's current lifecycle state.
func (t *Transport) State() EndpointState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// IsRunning reports whether an underlying QUIC endpoint exists.
func (t *Transport) IsRunning() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.qt != nil
}

// LocalAddr returns the address the endpoint's UDP socket is bound to, or
// nil if no endpoint has been created yet. Useful after StartServer(0) to
// discover which port the OS assigned.
func (t *Transport) LocalAddr() net.Addr {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.qt == nil {
		return nil
	}
	return t.qt.Conn.LocalAddr()
}

// ConnectedPeers returns a snapshot of the peer_keys with a live connection.
func (t *Transport) ConnectedPeers() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	peers := make([]string, 0, len(t.connections))
	for peerKey := range t.connections {
		peers = append(peers, peerKey)
	}
	return peers
}

// StartServer binds a UDP socket on 0.0.0.0:port and starts listening for
// QUIC connections. Requires the endpoint to be Unbound.
func (t *Transport) StartServer(port uint16) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state == StateClosed {
		return ErrNotConnected
	}
	if t.qt != nil {
		return fmt.Errorf("%w: endpoint already bound", ErrConnection)
	}

	cert, err := newTLSCertificate()
	if err != nil {
		return err
	}

	serverTLS := &tls.Config{
		Certificates: []tls.Certificate{cert},
		ClientAuth:   tls.NoClientCert,
		NextProtos:   []string{alpnProtocol},
		MinVersion:   tls.VersionTLS12,
	}

	udpConn, err := net.ListenUDP("udp", &net.UDPAddr{IP: net.IPv4zero, Port: int(port)})
	if err != nil {
		return fmt.Errorf("%w: bind 0.0.0.0:%d: %v", ErrIO, port, err)
	}

	qt := &quic.Transport{Conn: udpConn}
	listener, err := qt.Listen(serverTLS, &quic.Config{MaxIdleTimeout: idleTimeout})
	if err != nil {
		_ = udpConn.Close()
		return fmt.Errorf("%w: listen: %v", ErrTLS, err)
	}

	t.qt = qt
	t.listener = listener
	t.state = StateListener
	t.logger.Printf("[transport] server listening on %s", udpConn.LocalAddr())
	return nil
}

// AcceptConnection awaits the next incoming QUIC connection, drives its
// handshake to completion, inserts it into the connection table keyed by
// the remote's host:port, and returns that key.
func (t *Transport) AcceptConnection(ctx context.Context) (string, error) {
	t.mu.Lock()
	listener := t.listener
	closed := t.state == StateClosed
	t.mu.Unlock()

	if closed || listener == nil {
		return "", ErrNotConnected
	}

	conn, err := listener.Accept(ctx)
	if err != nil {
		return "", fmt.Errorf("%w: accept: %v", ErrConnection, err)
	}

	peerKey := conn.RemoteAddr().String()
	t.insertConnection(peerKey, conn)
	t.logger.Printf("[transport] accepted connection from %s", peerKey)
	return peerKey, nil
}

// ConnectToPeer dials addr:port. If no endpoint exists yet, one is created
// bound to 0.0.0.0:0 with a fresh certificate and the TOFU verifier; SNI is
// the literal "syncmist". On success the connection is inserted under its
// remote host:port and that key is returned.
func (t *Transport) ConnectToPeer(ctx context.Context, addr string, port uint16) (string, error) {
	t.mu.Lock()
	if t.state == StateClosed {
		t.mu.Unlock()
		return "", ErrNotConnected
	}

	qt := t.qt
	if qt == nil {
		udpConn, err := net.ListenUDP("udp", &net.UDPAddr{IP: net.IPv4zero, Port: 0})
		if err != nil {
			t.mu.Unlock()
			return "", fmt.Errorf("%w: bind 0.0.0.0:0: %v", ErrIO, err)
		}

		qt = &quic.Transport{Conn: udpConn}
		t.qt = qt
		t.state = StateDialer
	}
	t.mu.Unlock()

	cert, err := newTLSCertificate()
	if err != nil {
		return "", err
	}
	clientTLS := NewTofuPolicy().clientTLSConfig(cert)

	remoteAddr, err := net.ResolveUDPAddr("udp", fmt.Sprintf("%s:%d", addr, port))
	if err != nil {
		return "", fmt.Errorf("%w: resolve %s:%d: %v", ErrConnection, addr, port, err)
	}

	conn, err := qt.Dial(ctx, remoteAddr, clientTLS, &quic.Config{MaxIdleTimeout: idleTimeout})
	if err != nil {
		return "", fmt.Errorf("%w: dial %s: %v", ErrConnection, remoteAddr, err)
	}

	peerKey := conn.RemoteAddr().String()
	t.insertConnection(peerKey, conn)
	t.logger.Printf("[transport] connected to peer %s", peerKey)
	return peerKey, nil
}

// Send opens a fresh outbound unidirectional stream to peerKey and writes a
// single `u32 length || payload` frame, then closes the writable side.
func (t *Transport) Send(ctx context.Context, peerKey string, payload []byte) error {
	t.mu.Lock()
	if t.state == StateClosed {
		t.mu.Unlock()
		return ErrNotConnected
	}
	conn, ok := t.connections[peerKey]
	t.mu.Unlock()
	if !ok {
		return ErrPeerNotFound
	}

	stream, err := conn.OpenUniStreamSync(ctx)
	if err != nil {
		return fmt.Errorf("%w: open stream: %v", ErrConnection, err)
	}

	if err := writeFrame(stream, payload); err != nil {
		_ = stream.Close()
		return err
	}
	if err := stream.Close(); err != nil {
		return fmt.Errorf("%w: finish stream: %v", ErrIO, err)
	}
	return nil
}

// ReceiveStream returns a channel of (peer_key, payload) pairs. A
// supervisor goroutine watches the connection table for peers without a
// reader yet (polling every ~10ms, per the spec's lazy receive loop) and
// spawns one persistent reader goroutine per peer; each reader loops
// accepting that peer's next inbound unidirectional stream, so messages
// from one peer are yielded in the order their streams completed, with no
// ordering promised across peers. A read error drops that one stream and
// the reader goes on to the peer's next stream; an accept error (the
// connection has closed, or ctx is done) ends that peer's reader, and it is
// not restarted. Neither affects other peers. Cancel ctx to
// terminate the stream; the channel is never explicitly closed, since
// producer goroutines simply stop once ctx is done.
func (t *Transport) ReceiveStream(ctx context.Context) <-chan ReceivedMessage {
	out := make(chan ReceivedMessage)
	go t.runReceiveSupervisor(ctx, out)
	return out
}

func (t *Transport) runReceiveSupervisor(ctx context.Context, out chan<- ReceivedMessage) {
	seen := make(map[string]struct{})
	ticker := time.NewTicker(receivePollInterval)
	defer ticker.Stop()

	for {
		t.mu.Lock()
		for peerKey, conn := range t.connections {
			if _, ok := seen[peerKey]; ok {
				continue
			}
			seen[peerKey] = struct{}{}
			go t.receiveFromConn(ctx, peerKey, conn, out)
		}
		t.mu.Unlock()

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (t *Transport) receiveFromConn(ctx context.Context, peerKey string, conn *quic.Conn, out chan<- ReceivedMessage) {
	for {
		stream, err := conn.AcceptUniStream(ctx)
		if err != nil {
			return
		}

		payload, err := readFrame(stream)
		if err != nil {
			continue
		}

		select {
		case out <- ReceivedMessage{PeerKey: peerKey, Payload: payload}:
		case <-ctx.Done():
			return
		}
	}
}

// Disconnect removes and closes the connection to peerKey with reason code
// 0 and reason "disconnect".
func (t *Transport) Disconnect(peerKey string) error {
	t.mu.Lock()
	if t.state == StateClosed {
		t.mu.Unlock()
		return ErrNotConnected
	}
	conn, ok := t.connections[peerKey]
	if ok {
		delete(t.connections, peerKey)
	}
	t.mu.Unlock()

	if !ok {
		return ErrPeerNotFound
	}
	_ = conn.CloseWithError(0, "disconnect")
	t.logger.Printf("[transport] disconnected from %s", peerKey)
	return nil
}

// Close is terminal: it closes every connection with reason 0/"shutdown",
// then closes the endpoint. After Close every operation fails
// NotConnected. Close never fails.
func (t *Transport) Close() error {
	t.mu.Lock()
	if t.state == StateClosed {
		t.mu.Unlock()
		return nil
	}

	for peerKey, conn := range t.connections {
		_ = conn.CloseWithError(0, "shutdown")
		t.logger.Printf("[transport] closed connection to %s", peerKey)
	}
	t.connections = make(map[string]*quic.Conn)

	if t.listener != nil {
		_ = t.listener.Close()
		t.listener = nil
	}
	if t.qt != nil {
		_ = t.qt.Close()
		t.qt = nil
	}
	t.state = StateClosed
	t.mu.Unlock()

	t.logger.Printf("[transport] closed")
	return nil
}

func (t *Transport) insertConnection(peerKey string, conn *quic.Conn) {
	t.mu.Lock()
	t.connections[peerKey] = conn
	t.mu.Unlock()
}

// newTLSCertificate generates a fresh self-signed certificate and wraps it
// as a tls.Certificate ready to install on a server or client TLS config.
func newTLSCertificate() (tls.Certificate, error) {
	certDER, keyDER, err := generateSelfSignedCert()
	if err != nil {
		return tls.Certificate{}, err
	}

	key, err := x509.ParsePKCS8PrivateKey(keyDER)
	if err != nil {
		return tls.Certificate{}, fmt.Errorf("%w: parse private key: %v", ErrTLS, err)
	}

	return tls.Certificate{
		Certificate: [][]byte{certDER},
		PrivateKey:  key,
	}, nil
}
