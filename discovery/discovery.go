// Package discovery advertises this device and finds peers on the local
// network over mDNS/DNS-SD.
package discovery

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/libp2p/zeroconf/v2"

	"syncmist/logging"
)

const (
	serviceType     = "_syncmist._udp.local."
	serviceDomain   = "local."
	protocolVersion = "2"
	// DefaultPort is the conventional UDP port a device passes to Register.
	// Browsing is not filtered by port.
	DefaultPort uint16 = 9876

	// browseInitGrace is how long StartBrowsing waits for an immediate
	// failure from the browse loop (e.g. the multicast group could not be
	// joined) before assuming it started cleanly and returning to the
	// caller. A real browse runs until ctx is cancelled, so this is a
	// short window, not a request timeout.
	browseInitGrace = 200 * time.Millisecond
)

// browseFunc matches zeroconf.Browse's signature; overridden in tests so
// StartBrowsing's error-surfacing path can be exercised without touching
// the network.
type browseFunc func(ctx context.Context, service, domain string, entries chan<- *zeroconf.ServiceEntry) error

// Discovery advertises this device's presence and maintains a table of
// peers seen on the network. The zero value is not usable; construct with
// New.
type Discovery struct {
	deviceID   string
	deviceName string

	logger logging.Logger
	peers  *PeerTable

	mu           sync.Mutex
	server       *zeroconf.Server
	cancelBrowse context.CancelFunc
	wg           sync.WaitGroup

	browse browseFunc
}

// New returns a Discovery for the given stable device_id and human-readable
// device_name. Neither registers nor browses until told to.
func New(deviceID, deviceName string) *Discovery {
	return NewWithLogger(deviceID, deviceName, logging.NewLogLogger())
}

// NewWithLogger is New with an explicit diagnostic logger.
func NewWithLogger(deviceID, deviceName string, logger logging.Logger) *Discovery {
	return &Discovery{
		deviceID:   deviceID,
		deviceName: deviceName,
		logger:     logger,
		peers:      NewPeerTable(),
		browse:     defaultBrowse,
	}
}

// defaultBrowse adapts zeroconf.Browse's variadic signature to browseFunc.
func defaultBrowse(ctx context.Context, service, domain string, entries chan<- *zeroconf.ServiceEntry) error {
	return zeroconf.Browse(ctx, service, domain, entries)
}

// Register advertises this device on the network as
// "<device_name>-<device_id[:8]>._syncmist._udp.local." on port, carrying
// TXT records proto=syncmist, v=2, name=<device_name>, id=<device_id>.
func (d *Discovery) Register(port uint16) error {
	if len(d.deviceID) < 8 {
		return fmt.Errorf("%w: device_id %q shorter than 8 characters", ErrRegistration, d.deviceID)
	}
	instanceName := fmt.Sprintf("%s-%s", d.deviceName, d.deviceID[:8])

	text := []string{
		"proto=syncmist",
		"v=" + protocolVersion,
		"name=" + d.deviceName,
		"id=" + d.deviceID,
	}

	server, err := zeroconf.Register(instanceName, serviceType, serviceDomain, int(port), text, nil)
	if err != nil {
		return fmt.Errorf("%w: register %s: %v", ErrRegistration, instanceName, err)
	}

	d.mu.Lock()
	d.server = server
	d.mu.Unlock()

	d.logger.Printf("[discovery] registered service %s on port %d", instanceName, port)
	return nil
}

// StartBrowsing starts a background browse for other syncmist instances on
// the network. Discovered peers are upserted into DiscoveredPeers as they
// resolve; the browse runs until ctx is cancelled or Stop is called.
//
// If the browse fails to start at all (e.g. the mDNS multicast group could
// not be joined), that failure is surfaced synchronously as ErrBrowse
// instead of only being logged.
func (d *Discovery) StartBrowsing(ctx context.Context) error {
	browseCtx, cancel := context.WithCancel(ctx)

	d.mu.Lock()
	d.cancelBrowse = cancel
	d.mu.Unlock()

	entries := make(chan *zeroconf.ServiceEntry, 32)
	browseDone := make(chan error, 1)

	d.wg.Add(2)
	go func() {
		defer d.wg.Done()
		for {
			select {
			case entry, ok := <-entries:
				if !ok {
					return
				}
				d.handleEntry(entry)
			case <-browseCtx.Done():
				return
			}
		}
	}()
	go func() {
		defer d.wg.Done()
		err := d.browse(browseCtx, serviceType, serviceDomain, entries)
		if err != nil && browseCtx.Err() == nil {
			d.logger.Printf("[discovery] browse error: %v", err)
		}
		browseDone <- err
	}()

	select {
	case err := <-browseDone:
		if err != nil {
			cancel()
			return fmt.Errorf("%w: %v", ErrBrowse, err)
		}
	case <-time.After(browseInitGrace):
	}

	d.logger.Printf("[discovery] browsing for peers")
	return nil
}

// handleEntry converts a resolved zeroconf entry into a PeerRecord and
// upserts it, skipping entries with no id or whose id is our own.
func (d *Discovery) handleEntry(entry *zeroconf.ServiceEntry) {
	props := parseTXT(entry.Text)

	deviceID := props["id"]
	if deviceID == "" || deviceID == d.deviceID {
		return
	}

	addresses := make([]string, 0, len(entry.AddrIPv4)+len(entry.AddrIPv6))
	for _, ip := range entry.AddrIPv4 {
		addresses = append(addresses, ip.String())
	}
	for _, ip := range entry.AddrIPv6 {
		addresses = append(addresses, ip.String())
	}

	record := PeerRecord{
		DeviceID:     deviceID,
		DeviceName:   props["name"],
		Addresses:    addresses,
		Port:         uint16(entry.Port),
		DiscoveredAt: time.Now().Unix(),
	}

	d.peers.Upsert(record)
	d.logger.Printf("[discovery] discovered peer %s (%s)", record.DeviceID, record.DeviceName)
}

// DiscoveredPeers returns a snapshot of every peer seen so far.
func (d *Discovery) DiscoveredPeers() []PeerRecord {
	return d.peers.Snapshot()
}

// Stop cancels any in-flight browse and unregisters the advertised service.
func (d *Discovery) Stop() error {
	d.mu.Lock()
	cancel := d.cancelBrowse
	server := d.server
	d.cancelBrowse = nil
	d.server = nil
	d.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	d.wg.Wait()

	if server != nil {
		server.Shutdown()
	}

	d.logger.Printf("[discovery] stopped")
	return nil
}

// parseTXT splits "key=value" TXT strings into a lookup map; malformed
// entries with no "=" are ignored.
func parseTXT(text []string) map[string]string {
	props := make(map[string]string, len(text))
	for _, kv := range text {
		key, value, ok := strings.Cut(kv, "=")
		if !ok {
			continue
		}
		props[key] = value
	}
	return props
}
