package discovery

import "sync"

// PeerRecord is everything known about a peer discovered on the local
// network.
type PeerRecord struct {
	DeviceID     string
	DeviceName   string
	Addresses    []string
	Port         uint16
	DiscoveredAt int64
}

// PeerTable is a mutex-protected set of discovered peers, keyed by
// device_id. Upsert refreshes an existing record's address/port/timestamp
// in place rather than duplicating it, matching the "resolved again"
// behavior of a live mDNS browse where the same instance reappears on
// every TTL refresh.
type PeerTable struct {
	mu    sync.Mutex
	peers map[string]PeerRecord
}

// NewPeerTable returns an empty peer table.
func NewPeerTable() *PeerTable {
	return &PeerTable{peers: make(map[string]PeerRecord)}
}

// Upsert inserts record, or replaces the existing record for the same
// device_id.
func (t *PeerTable) Upsert(record PeerRecord) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.peers[record.DeviceID] = record
}

// Remove deletes any record for device_id. A no-op if none exists.
func (t *PeerTable) Remove(deviceID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.peers, deviceID)
}

// Snapshot returns a copy of every currently known peer record, in no
// particular order.
func (t *PeerTable) Snapshot() []PeerRecord {
	t.mu.Lock()
	defer t.mu.Unlock()
	records := make([]PeerRecord, 0, len(t.peers))
	for _, record := range t.peers {
		records = append(records, record)
	}
	return records
}
