// Package logfields declares the structured log field keys used across
// lansnoop, mirroring the naming convention of cilium's pkg/logging/logfields
// package: one named constant per recurring key, so call sites never repeat
// a raw string that could silently typo-diverge between packages.
package logfields

const (
	MAC         = "mac"
	SourceMAC   = "sourceMAC"
	DestMAC     = "destMAC"
	IPAddr      = "ipAddr"
	NetworkID   = "networkID"
	InterfaceID = "interfaceID"
	CloudID     = "cloudID"
	EntityID    = "entityID"
	ASN         = "asn"
	DNSName     = "dnsName"
	Disposition = "disposition"
	Path        = "path"
	Interface   = "interface"
	Error       = "error"
	Count       = "count"
)
