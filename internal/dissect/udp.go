package dissect

import (
	"encoding/binary"

	"github.com/alexanderbarton/lansnoop/internal/disposition"
	"github.com/alexanderbarton/lansnoop/internal/netaddr"
	"github.com/alexanderbarton/lansnoop/internal/session"
)

const udpHeaderLen = 8 // sport(2) + dport(2) + length(2) + checksum(2)

// UDP dissects a UDP datagram and dispatches it to its flow's session
// handler, keyed by the canonical (srcIP:srcPort, dstIP:dstPort) tuple.
func (e *Engine) UDP(srcIP, dstIP netaddr.IPv4, packet []byte) disposition.Disposition {
	if len(packet) < udpHeaderLen {
		return disposition.TRUNCATED
	}

	srcPort := binary.BigEndian.Uint16(packet[0:2])
	dstPort := binary.BigEndian.Uint16(packet[2:4])
	payload := packet[udpHeaderLen:]

	src := session.SockAddr{Address: srcIP, Port: srcPort}
	dst := session.SockAddr{Address: dstIP, Port: dstPort}
	return e.Sessions.Dispatch(src, dst, payload)
}

const dnsPort = 53

// newUDPHandler is the session.HandlerFactory: anything touching port 53 on
// either side is assumed to be DNS, matching the source tool's own
// assumption; everything else is discarded unparsed.
func (e *Engine) newUDPHandler(key session.Key) session.Handler {
	if key.A.Port == dnsPort || key.B.Port == dnsPort {
		return &dnsHandler{model: e.Model}
	}
	return session.DiscardHandler{}
}
