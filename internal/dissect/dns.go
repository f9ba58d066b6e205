package dissect

import (
	"encoding/binary"
	"strconv"
	"strings"

	"github.com/alexanderbarton/lansnoop/internal/disposition"
	"github.com/alexanderbarton/lansnoop/internal/model"
	"github.com/alexanderbarton/lansnoop/internal/netaddr"
)

const dnsHeaderLen = 12 // id(2) + flags(2) + qdcount(2) + ancount(2) + nscount(2) + arcount(2)

const (
	dnsFlagResponse = 0x8000

	rrTypeA   = 1
	rrTypePTR = 12
	rrClassIN = 1

	// maxDecompressDepth caps pointer-chasing in decompressName so a
	// maliciously or corruptly constructed datagram can't loop forever.
	maxDecompressDepth = 10
)

// dnsHandler implements session.Handler for flows assumed to carry DNS,
// reporting every A/PTR answer it can parse to the topology model.
type dnsHandler struct {
	model *model.Model
}

func (h *dnsHandler) Put(dir int, payload []byte) disposition.Disposition {
	if len(payload) < dnsHeaderLen {
		return disposition.TRUNCATED
	}

	flags := binary.BigEndian.Uint16(payload[2:4])
	if flags&dnsFlagResponse == 0 {
		return disposition.DNS // Queries carry no answers worth recording.
	}

	qdcount := binary.BigEndian.Uint16(payload[4:6])
	ancount := binary.BigEndian.Uint16(payload[6:8])
	nscount := binary.BigEndian.Uint16(payload[8:10])
	arcount := binary.BigEndian.Uint16(payload[10:12])

	ptr := dnsHeaderLen
	end := len(payload)

	for i := 0; i < int(qdcount); i++ {
		if ptr >= end {
			return disposition.TRUNCATED
		}
		for {
			if ptr >= end {
				return disposition.TRUNCATED
			}
			labelLength := int(payload[ptr])
			ptr++
			if labelLength == 0 {
				break
			}
			if labelLength >= 0xc0 {
				return disposition.DNS_ERROR
			}
			if ptr+labelLength > end {
				return disposition.TRUNCATED
			}
			ptr += labelLength
		}
		ptr += 4 // QTYPE + QCLASS
		if ptr > end {
			return disposition.TRUNCATED
		}
	}

	for _, rcount := range [3]uint16{ancount, nscount, arcount} {
		for i := 0; i < int(rcount); i++ {
			name, next, ok := decompressName(payload, ptr)
			if !ok {
				return disposition.DNS_ERROR
			}
			ptr = next

			if ptr+10 > end {
				return disposition.TRUNCATED
			}
			rrType := binary.BigEndian.Uint16(payload[ptr : ptr+2])
			rrClass := binary.BigEndian.Uint16(payload[ptr+2 : ptr+4])
			// Skip the 4-octet TTL field.
			rdlength := int(binary.BigEndian.Uint16(payload[ptr+8 : ptr+10]))
			ptr += 10

			if ptr+rdlength > end {
				return disposition.TRUNCATED
			}
			rdata := payload[ptr : ptr+rdlength]
			ptr += rdlength

			if rrClass != rrClassIN {
				continue
			}

			switch rrType {
			case rrTypeA:
				if rdlength != 4 {
					return disposition.DNS_ERROR
				}
				h.model.OnName(netaddr.IPv4FromBytes(rdata), name, model.NameDNS)

			case rrTypePTR:
				ptrName, _, ok := decompressName(payload, ptr-rdlength)
				if !ok {
					return disposition.DNS_ERROR
				}
				if addr, ok := parsePTRAddress(name); ok {
					h.model.OnName(addr, ptrName, model.NameDNS)
				}
			}
		}
	}

	return disposition.DNS
}

// decompressName parses the sequence of labels starting at frame[pos] into
// a dotted name, following compression pointers (RFC 1035 §4.1.4). It
// returns the offset one past the end of the (possibly pointer-terminated)
// name field as read in place, and false on any malformed input or a
// pointer chain deeper than maxDecompressDepth.
func decompressName(frame []byte, pos int) (string, int, bool) {
	name, next, ok := decompressNameDepth(frame, pos, 0)
	return name, next, ok
}

func decompressNameDepth(frame []byte, pos, depth int) (string, int, bool) {
	if depth > maxDecompressDepth {
		return "", 0, false
	}

	var labels []string
	for {
		if pos >= len(frame) {
			return "", 0, false
		}
		b := frame[pos]
		flag := b >> 6
		switch flag {
		case 0b00: // Uncompressed label.
			labelLength := int(b)
			pos++
			if labelLength == 0 {
				return strings.Join(labels, "."), pos, true
			}
			if pos+labelLength > len(frame) {
				return "", 0, false
			}
			labels = append(labels, string(frame[pos:pos+labelLength]))
			pos += labelLength

		case 0b11: // Pointer.
			if pos+1 >= len(frame) {
				return "", 0, false
			}
			pointer := (int(b&0x3f) << 8) | int(frame[pos+1])
			if pointer >= len(frame) {
				return "", 0, false
			}
			tail, _, ok := decompressNameDepth(frame, pointer, depth+1)
			if !ok {
				return "", 0, false
			}
			end := pos + 2
			if len(labels) == 0 {
				return tail, end, true
			}
			if tail == "" {
				return strings.Join(labels, "."), end, true
			}
			return strings.Join(labels, ".") + "." + tail, end, true

		default: // 0b01, 0b10: illegal.
			return "", 0, false
		}
	}
}

// parsePTRAddress parses a reversed-dotted-quad in-addr.arpa name such as
// "41.2.168.192.in-addr.arpa" into its address.
func parsePTRAddress(name string) (netaddr.IPv4, bool) {
	const suffix = ".in-addr.arpa"
	lower := strings.ToLower(name)
	if !strings.HasSuffix(lower, suffix) {
		return netaddr.IPv4{}, false
	}
	octets := strings.Split(name[:len(name)-len(suffix)], ".")
	if len(octets) != 4 {
		return netaddr.IPv4{}, false
	}

	var addr netaddr.IPv4
	for i := 0; i < 4; i++ {
		v, err := strconv.ParseUint(octets[i], 10, 8)
		if err != nil {
			return netaddr.IPv4{}, false
		}
		addr[3-i] = byte(v)
	}
	return addr, true
}
