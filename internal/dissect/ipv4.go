package dissect

import (
	"encoding/binary"

	"github.com/alexanderbarton/lansnoop/internal/disposition"
	"github.com/alexanderbarton/lansnoop/internal/netaddr"
)

const ipv4MinHeaderLen = 20

const (
	ipProtoUDP = 17

	ipFlagMoreFragments = 0x2000
	ipFragOffsetMask    = 0x1fff
)

// IPv4 dissects an IPv4 datagram. eth_src/eth_dst are the enclosing frame's
// MACs, forwarded to OnIPThroughInterface exactly as the source tool does.
func (e *Engine) IPv4(ethSrc, ethDst netaddr.MAC, packet []byte) disposition.Disposition {
	if len(packet) < ipv4MinHeaderLen {
		return disposition.TRUNCATED
	}

	versionIHL := packet[0]
	version := versionIHL >> 4
	ihl := int(versionIHL&0x0f) * 4

	fragField := binary.BigEndian.Uint16(packet[6:8])
	moreFragments := fragField&ipFlagMoreFragments != 0
	fragOffset := fragField & ipFragOffsetMask
	if fragOffset != 0 || moreFragments {
		return disposition.IPv4_FRAGMENT // TODO: reassemble fragments.
	}

	if version != 4 {
		return disposition.IPv4_BAD
	}

	totalLength := int(binary.BigEndian.Uint16(packet[2:4]))
	adjustedLength := len(packet)
	if totalLength < adjustedLength {
		adjustedLength = totalLength
	} else if totalLength > adjustedLength {
		return disposition.TRUNCATED
	}

	if ihl < ipv4MinHeaderLen || ihl > adjustedLength {
		return disposition.IPv4_BAD
	}

	srcIP := netaddr.IPv4FromBytes(packet[12:16])
	dstIP := netaddr.IPv4FromBytes(packet[16:20])
	e.Model.OnIPThroughInterface(srcIP, ethSrc)
	e.Model.OnIPThroughInterface(dstIP, ethDst)

	protocol := packet[9]
	switch protocol {
	case ipProtoUDP:
		return e.UDP(srcIP, dstIP, packet[ihl:adjustedLength])
	default:
		return disposition.IPv4_PROTOCOL
	}
}
