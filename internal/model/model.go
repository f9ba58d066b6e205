// Package model implements the topology inference engine: the stateful
// graph of Networks, Interfaces, IPEndpoints and Clouds built up from
// dissector observations, plus the invariants that must hold after each one.
package model

import (
	"log/slog"

	"github.com/alexanderbarton/lansnoop/internal/logging/logfields"
	"github.com/alexanderbarton/lansnoop/internal/lookup"
	"github.com/alexanderbarton/lansnoop/internal/netaddr"
)

const rollupInterval = 10_000_000 // 10ms, in nanoseconds

// SoftErrorCounter receives a tick for each non-fatal anomaly the model
// shrugs off rather than panics on. Implementations are expected to be a
// thin wrapper over a metrics counter; a nil SoftErrorCounter is valid and
// every method on it becomes a no-op via the Model's own nil check.
type SoftErrorCounter interface {
	ARPUnknownMAC()
}

// Options configures a new Model.
type Options struct {
	AssumeOneLAN bool
	OUIs         *lookup.OUITable
	Prefixes     *lookup.PrefixTable
	ASNs         *lookup.ASNTable
	Sink         Sink
	Log          *slog.Logger
	SoftErrors   SoftErrorCounter
}

// Model owns every entity in the inferred topology and enforces the
// invariants documented on each entity type. It is not safe for concurrent
// use: the surrounding core package guarantees single-threaded access.
type Model struct {
	sink       Sink
	log        *slog.Logger
	softErrors SoftErrorCounter

	assumeOneLAN bool

	now         int64
	packetCount int64
	nextID      int64

	networks        map[int64]*Network
	interfacesByMAC map[netaddr.MAC]*Interface
	interfacesByID  map[int64]*Interface

	ipEndpoints     map[netaddr.IPv4]*IPEndpoint
	ipEndpointsByID map[int64]*IPEndpoint

	clouds               map[int64]*Cloud
	rootCloudByInterface map[netaddr.MAC]int64

	// directIPByInterface marks interfaces that already have one directly
	// attached ("home") IPEndpoint. A second, distinct IP later observed
	// through the same interface is therefore off-LAN traffic being
	// forwarded by it, not a second local address.
	directIPByInterface map[int64]struct{}

	names map[netaddr.IPv4]map[nameEntry]struct{}

	ouis     *lookup.OUITable
	prefixes *lookup.PrefixTable
	asns     *lookup.ASNTable

	recentInterfaces map[netaddr.MAC]struct{}
	recentClouds     map[int64]struct{}
	recentIPs        map[netaddr.IPv4]struct{}
	lastRollup       int64
}

// New builds an empty Model. The first id issued is 1; 0 is reserved to
// mean "none".
func New(opts Options) *Model {
	sink := opts.Sink
	if sink == nil {
		sink = NopSink{}
	}
	log := opts.Log
	if log == nil {
		log = slog.Default()
	}
	return &Model{
		sink:                 sink,
		log:                  log,
		softErrors:           opts.SoftErrors,
		assumeOneLAN:         opts.AssumeOneLAN,
		nextID:               1,
		networks:             make(map[int64]*Network),
		interfacesByMAC:      make(map[netaddr.MAC]*Interface),
		interfacesByID:       make(map[int64]*Interface),
		ipEndpoints:          make(map[netaddr.IPv4]*IPEndpoint),
		ipEndpointsByID:      make(map[int64]*IPEndpoint),
		clouds:               make(map[int64]*Cloud),
		rootCloudByInterface: make(map[netaddr.MAC]int64),
		directIPByInterface:  make(map[int64]struct{}),
		names:                make(map[netaddr.IPv4]map[nameEntry]struct{}),
		ouis:                 opts.OUIs,
		prefixes:             opts.Prefixes,
		asns:                 opts.ASNs,
		recentInterfaces:     make(map[netaddr.MAC]struct{}),
		recentClouds:         make(map[int64]struct{}),
		recentIPs:            make(map[netaddr.IPv4]struct{}),
	}
}

func (m *Model) allocID() int64 {
	id := m.nextID
	m.nextID++
	return id
}

// PacketCount returns the cumulative observed frame count at the current
// clock value.
func (m *Model) PacketCount() int64 { return m.packetCount }

// Now returns the model clock, nanoseconds since the epoch.
func (m *Model) Now() int64 { return m.now }

// NotePacketCount records the total number of frames observed so far
// (including this one, if any). The core calls this once per ingest, before
// dispatching to the dissectors, mirroring the original's observed-count
// bump ahead of dissection.
func (m *Model) NotePacketCount(c int64) { m.packetCount = c }

// OnTime advances the model clock and, if the rollup deadline has passed and
// any entity was touched since the last rollup, emits a cumulative Traffic
// event. The rollup deadline is deliberately computed as now+10ms rather
// than last_rollup+10ms: under sustained backpressure this widens the
// effective interval, a quirk preserved from the source.
func (m *Model) OnTime(now int64) {
	m.now = now
	if now < m.lastRollup+rollupInterval {
		return
	}
	if len(m.recentInterfaces) > 0 || len(m.recentClouds) > 0 || len(m.recentIPs) > 0 {
		m.emitTrafficRollup()
	}
	m.lastRollup = now
}

func (m *Model) emitTrafficRollup() {
	ifaceCounts := make(map[int64]int64, len(m.recentInterfaces))
	for mac := range m.recentInterfaces {
		i := m.interfacesByMAC[mac]
		if i != nil {
			ifaceCounts[i.ID] = i.PacketCount
		}
	}
	cloudCounts := make(map[int64]int64, len(m.recentClouds))
	for id := range m.recentClouds {
		if c := m.clouds[id]; c != nil {
			cloudCounts[id] = c.PacketCount
		}
	}
	ipCounts := make(map[int64]int64, len(m.recentIPs))
	for addr := range m.recentIPs {
		if e := m.ipEndpoints[addr]; e != nil {
			ipCounts[e.ID] = e.PacketCount
		}
	}
	m.sink.EmitTraffic(m.now, m.packetCount, ifaceCounts, cloudCounts, ipCounts)

	m.recentInterfaces = make(map[netaddr.MAC]struct{})
	m.recentClouds = make(map[int64]struct{})
	m.recentIPs = make(map[netaddr.IPv4]struct{})
}

// OnL2 reports one Ethernet frame's (source, destination) MAC pair. See
// spec table in the component design: six cases depending on whether each
// side is already known and whether the destination is multicast.
func (m *Model) OnL2(src, dst netaddr.MAC) {
	srcI := m.interfacesByMAC[src]
	dstI := m.interfacesByMAC[dst]
	multicast := dst.Multicast()

	if multicast {
		if srcI == nil {
			network := m.chooseNetworkForOrphan()
			srcI = m.newInterface(src, network)
		}
	} else {
		switch {
		case srcI != nil && dstI != nil:
			if srcI.NetworkID != dstI.NetworkID {
				m.mergeNetworks(srcI.NetworkID, dstI.NetworkID)
			}
		case srcI == nil && dstI == nil:
			network := m.chooseNetworkForOrphan()
			srcI = m.newInterface(src, network)
			dstI = m.newInterface(dst, network)
		case srcI == nil:
			srcI = m.newInterface(src, dstI.NetworkID)
		case dstI == nil:
			dstI = m.newInterface(dst, srcI.NetworkID)
		}
	}

	srcI.PacketCount++
	m.recentInterfaces[src] = struct{}{}
	if !multicast {
		dstI.PacketCount++
		m.recentInterfaces[dst] = struct{}{}
	}
}

// chooseNetworkForOrphan implements the network-choice policy for a MAC
// with no known Interface on either side of an observation.
func (m *Model) chooseNetworkForOrphan() int64 {
	if m.assumeOneLAN {
		for id := range m.networks {
			return id
		}
	}
	return m.newNetwork()
}

func (m *Model) newNetwork() int64 {
	id := m.allocID()
	n := &Network{ID: id, Members: make(map[int64]struct{})}
	m.networks[id] = n
	m.sink.EmitNetwork(m.now, m.packetCount, *n, false)
	return id
}

func (m *Model) newInterface(mac netaddr.MAC, networkID int64) *Interface {
	network, ok := m.networks[networkID]
	if !ok {
		panic(&InvariantError{Entity: "Interface", ID: 0, Operation: "newInterface", Detail: "target network does not exist"})
	}
	vendor, _ := m.ouis.Vendor(mac.OUI())
	i := &Interface{ID: m.allocID(), MAC: mac, NetworkID: networkID, Vendor: vendor}
	m.interfacesByMAC[mac] = i
	m.interfacesByID[i.ID] = i
	network.Members[i.ID] = struct{}{}
	m.sink.EmitInterface(m.now, m.packetCount, *i, false)
	return i
}

// mergeNetworks reassigns every Interface on network b to network a, then
// emits a terminal event for b and deletes it.
func (m *Model) mergeNetworks(aID, bID int64) {
	a, ok := m.networks[aID]
	if !ok {
		panic(&InvariantError{Entity: "Network", ID: aID, Operation: "mergeNetworks", Detail: "network a does not exist"})
	}
	b, ok := m.networks[bID]
	if !ok {
		panic(&InvariantError{Entity: "Network", ID: bID, Operation: "mergeNetworks", Detail: "network b does not exist"})
	}

	for id := range b.Members {
		i := m.interfacesByID[id]
		if i == nil {
			panic(&InvariantError{Entity: "Interface", ID: id, Operation: "mergeNetworks", Detail: "member interface missing"})
		}
		i.NetworkID = aID
		a.Members[id] = struct{}{}
		m.sink.EmitInterface(m.now, m.packetCount, *i, false)
	}

	b.Members = make(map[int64]struct{})
	m.sink.EmitNetwork(m.now, m.packetCount, *b, true)
	delete(m.networks, bID)
}

// OnARP reports an ARP sender or target (mac, ip) binding. A MAC with no
// known Interface is a soft error: logged and counted, not fatal, since the
// Ethernet pass should always precede ARP evidence for the same frame.
func (m *Model) OnARP(mac netaddr.MAC, ip netaddr.IPv4) {
	iface := m.interfacesByMAC[mac]
	if iface == nil {
		m.log.Warn("ARP binding for unknown MAC", logfields.MAC, mac.String(), logfields.IPAddr, ip.String())
		if m.softErrors != nil {
			m.softErrors.ARPUnknownMAC()
		}
		return
	}

	if e, ok := m.ipEndpoints[ip]; ok {
		e.InterfaceID = iface.ID
		e.CloudID = 0
		m.directIPByInterface[iface.ID] = struct{}{}
		m.sink.EmitIPAddress(m.now, m.packetCount, *e, false)
		return
	}

	e := &IPEndpoint{ID: m.allocID(), Address: ip, InterfaceID: iface.ID}
	m.attachName(e)
	m.ipEndpoints[ip] = e
	m.ipEndpointsByID[e.ID] = e
	m.directIPByInterface[iface.ID] = struct{}{}
	m.sink.EmitIPAddress(m.now, m.packetCount, *e, false)
}

// OnIPThroughInterface reports an IPv4 address seen as the source or
// destination of a datagram traversing interfaceMAC. A multicast
// destination is never a real interface binding and is ignored.
//
// An interface is assumed to own exactly one directly-attached ("home")
// address: the first IP ever observed through it. Any later, distinct IP
// seen through the same interface is traffic the interface is forwarding,
// not a second local address, and is attached to a Cloud instead.
func (m *Model) OnIPThroughInterface(ip netaddr.IPv4, interfaceMAC netaddr.MAC) {
	if interfaceMAC.Multicast() {
		return
	}

	if e, ok := m.ipEndpoints[ip]; ok {
		e.PacketCount++
		m.recentIPs[ip] = struct{}{}
		if e.CloudID != 0 {
			m.walkCloudChainAndCount(e.CloudID)
		}
		return
	}

	iface := m.interfacesByMAC[interfaceMAC]
	if iface == nil {
		panic(&InvariantError{Entity: "IPEndpoint", ID: 0, Operation: "OnIPThroughInterface", Detail: "no Interface for " + interfaceMAC.String()})
	}

	if _, hasHome := m.directIPByInterface[iface.ID]; !hasHome {
		e := &IPEndpoint{ID: m.allocID(), Address: ip, InterfaceID: iface.ID}
		m.attachName(e)
		m.ipEndpoints[ip] = e
		m.ipEndpointsByID[e.ID] = e
		m.directIPByInterface[iface.ID] = struct{}{}
		m.sink.EmitIPAddress(m.now, m.packetCount, *e, false)
		return
	}

	root := m.rootCloud(iface)
	attachCloud := root

	if m.prefixes != nil {
		if asn, ok := m.prefixes.Lookup(ip); ok {
			if asName, ok := m.asns.Name(asn); ok {
				attachCloud = m.subCloudByDescription(root, asName)
				e := m.newIPEndpointUnderCloud(ip, attachCloud.ID)
				e.ASN = asn
				e.ASName = asName
				m.attachName(e)
				m.ipEndpoints[ip] = e
				m.ipEndpointsByID[e.ID] = e
				m.sink.EmitIPAddress(m.now, m.packetCount, *e, false)
				return
			}
		}
	}

	e := m.newIPEndpointUnderCloud(ip, attachCloud.ID)
	m.attachName(e)
	m.ipEndpoints[ip] = e
	m.ipEndpointsByID[e.ID] = e
	m.sink.EmitIPAddress(m.now, m.packetCount, *e, false)
}

func (m *Model) newIPEndpointUnderCloud(ip netaddr.IPv4, cloudID int64) *IPEndpoint {
	return &IPEndpoint{ID: m.allocID(), Address: ip, CloudID: cloudID}
}

func (m *Model) attachName(e *IPEndpoint) {
	entries := m.names[e.Address]
	for entry := range entries {
		e.DNSName = entry.name
		return
	}
}

// rootCloud finds or creates the root Cloud attached directly to iface.
func (m *Model) rootCloud(iface *Interface) *Cloud {
	if id, ok := m.rootCloudByInterface[iface.MAC]; ok {
		return m.clouds[id]
	}
	c := &Cloud{ID: m.allocID(), Description: "IP cloud", InterfaceID: iface.ID, Children: make(map[int64]struct{})}
	m.clouds[c.ID] = c
	m.rootCloudByInterface[iface.MAC] = c.ID
	m.sink.EmitCloud(m.now, m.packetCount, *c, false)
	return c
}

// subCloudByDescription finds or creates a child of root whose description
// equals name (the AS-aggregation rule).
func (m *Model) subCloudByDescription(root *Cloud, name string) *Cloud {
	for id := range root.Children {
		if child := m.clouds[id]; child != nil && child.Description == name {
			return child
		}
	}
	c := &Cloud{ID: m.allocID(), Description: name, CloudID: root.ID, Children: make(map[int64]struct{})}
	m.clouds[c.ID] = c
	root.Children[c.ID] = struct{}{}
	m.sink.EmitCloud(m.now, m.packetCount, *c, false)
	return c
}

// walkCloudChainAndCount increments the packet count of cloudID and every
// ancestor cloud, marking each recently active.
func (m *Model) walkCloudChainAndCount(cloudID int64) {
	seen := make(map[int64]struct{})
	for cloudID != 0 {
		if _, looped := seen[cloudID]; looped {
			panic(&InvariantError{Entity: "Cloud", ID: cloudID, Operation: "walkCloudChainAndCount", Detail: "cloud ancestry cycle"})
		}
		seen[cloudID] = struct{}{}

		c := m.clouds[cloudID]
		if c == nil {
			panic(&InvariantError{Entity: "Cloud", ID: cloudID, Operation: "walkCloudChainAndCount", Detail: "cloud does not exist"})
		}
		c.PacketCount++
		m.recentClouds[cloudID] = struct{}{}
		cloudID = c.CloudID
	}
}

// OnName records a name for an IP address. If an IPEndpoint for that
// address already exists and its current name differs, the endpoint is
// updated and re-emitted.
func (m *Model) OnName(ip netaddr.IPv4, name string, typ NameType) {
	entries, ok := m.names[ip]
	if !ok {
		entries = make(map[nameEntry]struct{})
		m.names[ip] = entries
	}
	entries[nameEntry{name: name, typ: typ}] = struct{}{}

	e, ok := m.ipEndpoints[ip]
	if !ok || e.DNSName == name {
		return
	}
	e.DNSName = name
	m.sink.EmitIPAddress(m.now, m.packetCount, *e, false)
}
