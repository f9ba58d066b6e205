package event

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/fxamacker/cbor/v2"
)

// maxFrameLength bounds a single encoded Event so a corrupt or hostile
// length prefix can't make a reader allocate unbounded memory.
const maxFrameLength = 1 << 20

var encMode = func() cbor.EncMode {
	m, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(err)
	}
	return m
}()

// Encode writes ev to w as a 4-byte big-endian length prefix followed by
// its canonical CBOR encoding.
func Encode(w io.Writer, ev *Event) error {
	body, err := encMode.Marshal(ev)
	if err != nil {
		return fmt.Errorf("event: marshal: %w", err)
	}
	if len(body) > maxFrameLength {
		return fmt.Errorf("event: encoded frame too large: %d bytes", len(body))
	}
	var hdr [4]byte
	binary.BigEndian.PutUint32(hdr[:], uint32(len(body)))
	if _, err := w.Write(hdr[:]); err != nil {
		return fmt.Errorf("event: write length prefix: %w", err)
	}
	if _, err := w.Write(body); err != nil {
		return fmt.Errorf("event: write body: %w", err)
	}
	return nil
}

// Decode reads one length-prefixed frame from r and unmarshals it.
// It returns io.EOF only when r is exhausted exactly at a frame boundary.
func Decode(r io.Reader) (*Event, error) {
	var hdr [4]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		if err == io.ErrUnexpectedEOF {
			return nil, fmt.Errorf("event: truncated length prefix: %w", err)
		}
		return nil, err
	}
	n := binary.BigEndian.Uint32(hdr[:])
	if n > maxFrameLength {
		return nil, fmt.Errorf("event: frame length %d exceeds maximum %d", n, maxFrameLength)
	}
	body := make([]byte, n)
	if _, err := io.ReadFull(r, body); err != nil {
		return nil, fmt.Errorf("event: truncated frame body: %w", err)
	}
	var ev Event
	if err := cbor.Unmarshal(body, &ev); err != nil {
		return nil, fmt.Errorf("event: unmarshal: %w", err)
	}
	return &ev, nil
}
