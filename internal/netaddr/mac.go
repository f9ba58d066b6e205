// Package netaddr holds the fixed-width address types shared by the
// dissectors, the lookup tables, and the topology model. Both types are
// plain byte arrays so they're usable as map keys with no extra hashing.
package netaddr

import "fmt"

// MAC is a 48-bit Ethernet hardware address, network byte order.
type MAC [6]byte

// String renders the address as six colon-separated lowercase hex octets.
func (m MAC) String() string {
	return fmt.Sprintf("%02x:%02x:%02x:%02x:%02x:%02x", m[0], m[1], m[2], m[3], m[4], m[5])
}

// Multicast reports whether the least-significant bit of the first octet
// (the I/G bit) is set, per the Ethernet addressing convention.
func (m MAC) Multicast() bool {
	return m[0]&0x01 != 0
}

// OUI returns the top 24 bits of the address, the organizationally unique
// identifier used to key the vendor lookup table.
func (m MAC) OUI() uint32 {
	return uint32(m[0])<<16 | uint32(m[1])<<8 | uint32(m[2])
}

// MACFromBytes copies a 6-byte slice into a MAC. The caller must have
// already bounds-checked that len(b) >= 6.
func MACFromBytes(b []byte) MAC {
	var m MAC
	copy(m[:], b[:6])
	return m
}
