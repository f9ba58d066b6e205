package dissect

import (
	"encoding/binary"

	"github.com/alexanderbarton/lansnoop/internal/disposition"
	"github.com/alexanderbarton/lansnoop/internal/netaddr"
)

const arpHeaderLen = 8 // hrd(2) + pro(2) + hln(1) + pln(1) + op(2)

const (
	arpHRDEthernet = 1
	arpProIPv4     = 0x0800

	arpOpRequest   = 1
	arpOpReply     = 2
	arpOpRREQUEST  = 3
	arpOpRREPLY    = 4
	arpOpInREQUEST = 8
	arpOpInREPLY   = 9
	arpOpNAK       = 10
)

// ARP dissects an ARP packet. Only Ethernet/IPv4 REQUEST and REPLY operations
// carry a sender (mac, ip) binding worth reporting. Other hardware or
// protocol types and the other defined ARP operations are disinterest, not an
// error, since this tool has no use for them; a hardware/protocol address
// length other than 6/4 or an undefined opcode is ARP_ERROR.
func (e *Engine) ARP(frame []byte) disposition.Disposition {
	if len(frame) < arpHeaderLen {
		return disposition.TRUNCATED
	}

	hrd := binary.BigEndian.Uint16(frame[0:2])
	pro := binary.BigEndian.Uint16(frame[2:4])
	hln := frame[4]
	pln := frame[5]
	op := binary.BigEndian.Uint16(frame[6:8])

	if hrd != arpHRDEthernet {
		return disposition.ARP_DISINTEREST
	}
	if pro != arpProIPv4 {
		return disposition.ARP_DISINTEREST
	}
	if hln != 6 {
		return disposition.ARP_ERROR
	}
	if pln != 4 {
		return disposition.ARP_ERROR
	}

	switch op {
	case arpOpReply, arpOpRequest:
		// Handled below.
	case arpOpRREQUEST, arpOpRREPLY, arpOpInREQUEST, arpOpInREPLY, arpOpNAK:
		return disposition.ARP_DISINTEREST
	default:
		return disposition.ARP_ERROR
	}

	const argsLen = 6 + 4 + 6 + 4 // sender_mac + sender_ip + target_mac + target_ip
	args := frame[arpHeaderLen:]
	if len(args) < argsLen {
		return disposition.TRUNCATED
	}

	senderMAC := netaddr.MACFromBytes(args[0:6])
	senderIP := netaddr.IPv4FromBytes(args[6:10])
	e.Model.OnARP(senderMAC, senderIP)

	if op == arpOpReply {
		// A REQUEST's target fields are conventionally unfilled and must
		// not be reported as evidence.
		targetMAC := netaddr.MACFromBytes(args[10:16])
		targetIP := netaddr.IPv4FromBytes(args[16:20])
		e.Model.OnARP(targetMAC, targetIP)
	}

	return disposition.ARP
}
