package model

import "github.com/alexanderbarton/lansnoop/internal/netaddr"

// Network is an inferred Ethernet broadcast domain.
type Network struct {
	ID      int64
	Members map[int64]struct{} // Interface ids
}

// Interface is a MAC endpoint observed as a source or destination.
type Interface struct {
	ID          int64
	MAC         netaddr.MAC
	NetworkID   int64
	Vendor      string // from the OUI table, possibly empty
	PacketCount int64
}

// IPEndpoint is an observed IPv4 address. Exactly one of InterfaceID or
// CloudID is nonzero.
type IPEndpoint struct {
	ID          int64
	Address     netaddr.IPv4
	InterfaceID int64
	CloudID     int64
	PacketCount int64
	DNSName     string
	ASN         uint32 // 0 if unknown (ASN 0 is reserved and never assigned)
	ASName      string
}

// Cloud aggregates off-LAN address space reached through one interface, or
// groups child clouds (e.g. per-AS subclouds) beneath another cloud. Exactly
// one of InterfaceID or CloudID is nonzero.
type Cloud struct {
	ID          int64
	Description string
	InterfaceID int64
	CloudID     int64
	Children    map[int64]struct{}
	PacketCount int64
}

// NameType classifies the source of a name bound to an IP address.
type NameType int

const (
	NameDNS NameType = iota
)

type nameEntry struct {
	name string
	typ  NameType
}
