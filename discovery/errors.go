package discovery

import "errors"

var (
	// ErrRegistration covers failures advertising the local service over mDNS.
	ErrRegistration = errors.New("discovery: registration error")
	// ErrBrowse covers failures querying the network for other instances.
	ErrBrowse = errors.New("discovery: browse error")
	// ErrParse covers malformed or incomplete TXT records from a peer.
	ErrParse = errors.New("discovery: parse error")
)
