package dissect

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/alexanderbarton/lansnoop/internal/disposition"
	"github.com/alexanderbarton/lansnoop/internal/netaddr"
)

// ipv4Packet builds a minimal IPv4 header (no options) with an optional UDP
// payload, sized by totalLength (which may deliberately lie about the real
// payload length to exercise truncation handling).
func ipv4Packet(totalLength int, protocol byte, src, dst [4]byte, payload []byte) []byte {
	header := make([]byte, 20)
	header[0] = 0x45 // version 4, IHL 5 (20 bytes)
	binary.BigEndian.PutUint16(header[2:4], uint16(totalLength))
	header[8] = 64 // TTL
	header[9] = protocol
	copy(header[12:16], src[:])
	copy(header[16:20], dst[:])
	return append(header, payload...)
}

var srcMAC, dstMAC = [6]byte{1, 2, 3, 4, 5, 6}, [6]byte{6, 5, 4, 3, 2, 1}

func TestIPv4Truncated(t *testing.T) {
	e, _ := newTestEngine()
	require.Equal(t, disposition.TRUNCATED, e.IPv4(srcMAC, dstMAC, []byte{0x45, 0, 0}))
}

func TestIPv4TotalLengthExceedsCapturedBytes(t *testing.T) {
	e, _ := newTestEngine()
	packet := ipv4Packet(1000, 17, [4]byte{10, 0, 0, 1}, [4]byte{10, 0, 0, 2}, make([]byte, 8))
	require.Equal(t, disposition.TRUNCATED, e.IPv4(srcMAC, dstMAC, packet))
}

func TestIPv4BadVersion(t *testing.T) {
	e, _ := newTestEngine()
	packet := ipv4Packet(20, 17, [4]byte{10, 0, 0, 1}, [4]byte{10, 0, 0, 2}, nil)
	packet[0] = 0x65 // version 6
	require.Equal(t, disposition.IPv4_BAD, e.IPv4(srcMAC, dstMAC, packet))
}

func TestIPv4Fragment(t *testing.T) {
	e, _ := newTestEngine()
	packet := ipv4Packet(20, 17, [4]byte{10, 0, 0, 1}, [4]byte{10, 0, 0, 2}, nil)
	binary.BigEndian.PutUint16(packet[6:8], 1) // nonzero fragment offset
	require.Equal(t, disposition.IPv4_FRAGMENT, e.IPv4(srcMAC, dstMAC, packet))
}

func TestIPv4UnhandledProtocol(t *testing.T) {
	e, _ := newTestEngine()
	e.Model.OnL2(netaddr.MACFromBytes(srcMAC[:]), netaddr.MACFromBytes(dstMAC[:]))
	packet := ipv4Packet(20, 6, [4]byte{10, 0, 0, 1}, [4]byte{10, 0, 0, 2}, nil) // TCP
	require.Equal(t, disposition.IPv4_PROTOCOL, e.IPv4(srcMAC, dstMAC, packet))
}

func TestIPv4NotesBothAddressesThroughTheirInterfaces(t *testing.T) {
	e, sink := newTestEngine()
	// Both MACs are unicast: an IP seen through a multicast MAC is ignored.
	hostA, hostB := [6]byte{0x02, 0, 0, 0, 0, 1}, [6]byte{0x02, 0, 0, 0, 0, 2}
	e.Model.OnL2(netaddr.MACFromBytes(hostA[:]), netaddr.MACFromBytes(hostB[:]))
	udp := make([]byte, 8+4)
	binary.BigEndian.PutUint16(udp[0:2], 12345)
	binary.BigEndian.PutUint16(udp[2:4], 7777)
	packet := ipv4Packet(20+len(udp), 17, [4]byte{10, 0, 0, 1}, [4]byte{10, 0, 0, 2}, udp)
	require.Equal(t, disposition.L4_PROTOCOL, e.IPv4(hostA, hostB, packet))
	require.Len(t, sink.ipaddrs, 2)
}
