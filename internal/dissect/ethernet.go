// Package dissect implements the protocol dissectors: hand-rolled,
// zero-copy parsers over raw frame bytes that classify each frame with a
// disposition.Disposition and report observations to a model.Model (and,
// for UDP, a session.Table). Grounded on
// _examples/original_source/snoop/{Snoop,ProtocolDNS}.cpp.
package dissect

import (
	"encoding/binary"

	"github.com/alexanderbarton/lansnoop/internal/disposition"
	"github.com/alexanderbarton/lansnoop/internal/model"
	"github.com/alexanderbarton/lansnoop/internal/netaddr"
	"github.com/alexanderbarton/lansnoop/internal/session"
)

const ethernetHeaderLen = 14 // 6 dst + 6 src + 2 ethertype

const (
	etherTypeIPv4 = 0x0800
	etherTypeARP  = 0x0806
)

// Engine bundles the state a dissection run needs: the topology model and
// the UDP session table. Its zero value is not usable; build one with
// NewEngine.
type Engine struct {
	Model    *model.Model
	Sessions *session.Table
}

func NewEngine(m *model.Model) *Engine {
	e := &Engine{Model: m}
	e.Sessions = session.NewTable(e.newUDPHandler)
	return e
}

// Ethernet dissects one captured frame, starting at the Ethernet header.
func (e *Engine) Ethernet(frame []byte) disposition.Disposition {
	if len(frame) < ethernetHeaderLen {
		return disposition.TRUNCATED
	}

	src := netaddr.MACFromBytes(frame[6:12])
	dst := netaddr.MACFromBytes(frame[0:6])
	e.Model.OnL2(src, dst)

	etherType := binary.BigEndian.Uint16(frame[12:14])
	payload := frame[ethernetHeaderLen:]

	switch etherType {
	case etherTypeIPv4:
		return e.IPv4(src, dst, payload)
	case etherTypeARP:
		return e.ARP(payload)
	default:
		return disposition.ETHERTYPE_BAD
	}
}
