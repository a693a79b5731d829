package transport

import (
	"encoding/binary"
	"fmt"
	"io"
)

// lengthPrefixSize is the width, in bytes, of the big-endian frame length
// header written ahead of every message's payload.
const lengthPrefixSize = 4

// writeFrame writes a single `u32 big-endian length || payload` frame.
// The payload length must fit in a uint32.
func writeFrame(w io.Writer, payload []byte) error {
	if uint64(len(payload)) > 1<<32-1 {
		return fmt.Errorf("%w: payload too large for u32 length prefix", ErrIO)
	}

	header := make([]byte, lengthPrefixSize)
	binary.BigEndian.PutUint32(header, uint32(len(payload)))

	if _, err := w.Write(header); err != nil {
		return fmt.Errorf("%w: write length: %v", ErrIO, err)
	}
	if _, err := w.Write(payload); err != nil {
		return fmt.Errorf("%w: write payload: %v", ErrIO, err)
	}
	return nil
}

// readFrame reads a single `u32 big-endian length || payload` frame,
// returning exactly the payload bytes that were written on the other end.
func readFrame(r io.Reader) ([]byte, error) {
	header := make([]byte, lengthPrefixSize)
	if _, err := io.ReadFull(r, header); err != nil {
		return nil, fmt.Errorf("%w: read length: %v", ErrIO, err)
	}

	length := binary.BigEndian.Uint32(header)
	payload := make([]byte, length)
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, fmt.Errorf("%w: read payload: %v", ErrIO, err)
	}
	return payload, nil
}
