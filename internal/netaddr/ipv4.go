package netaddr

import "fmt"

// IPv4 is a 32-bit IPv4 address, network byte order.
type IPv4 [4]byte

// String renders the address in dotted-quad form.
func (a IPv4) String() string {
	return fmt.Sprintf("%d.%d.%d.%d", a[0], a[1], a[2], a[3])
}

// Uint32 returns the address as a host-order 32-bit integer.
func (a IPv4) Uint32() uint32 {
	return uint32(a[0])<<24 | uint32(a[1])<<16 | uint32(a[2])<<8 | uint32(a[3])
}

// IPv4FromUint32 builds an address from a host-order 32-bit integer.
func IPv4FromUint32(v uint32) IPv4 {
	return IPv4{byte(v >> 24), byte(v >> 16), byte(v >> 8), byte(v)}
}

// IPv4FromBytes copies a 4-byte slice into an IPv4. The caller must have
// already bounds-checked that len(b) >= 4.
func IPv4FromBytes(b []byte) IPv4 {
	var a IPv4
	copy(a[:], b[:4])
	return a
}
