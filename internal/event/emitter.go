package event

import (
	"fmt"
	"io"
	"sync"

	"github.com/alexanderbarton/lansnoop/internal/model"
)

// Emitter implements model.Sink by serializing every mutation to w as a
// framed Event. Safe for concurrent use: every write and the error state
// are guarded by a mutex, although the model itself is single-threaded (see
// internal/core).
type Emitter struct {
	mu  sync.Mutex
	w   io.Writer
	err error
}

func NewEmitter(w io.Writer) *Emitter {
	return &Emitter{w: w}
}

// Err returns the first write error encountered, if any. Once set, every
// subsequent Emit call is a no-op. cmd/lansnoop checks Err once, after the
// capture loop returns; nothing checks it per packet.
func (e *Emitter) Err() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.err
}

func (e *Emitter) emit(ev *Event) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.err != nil {
		return
	}
	if err := Encode(e.w, ev); err != nil {
		e.err = fmt.Errorf("event: emitter: %w", err)
	}
}

func (e *Emitter) EmitNetwork(now, packet int64, n model.Network, fini bool) {
	e.emit(&Event{
		Timestamp: now,
		Packet:    packet,
		Network:   &NetworkEvent{ID: n.ID, Fini: fini},
	})
}

func (e *Emitter) EmitInterface(now, packet int64, i model.Interface, fini bool) {
	addr := i.MAC
	e.emit(&Event{
		Timestamp: now,
		Packet:    packet,
		Interface: &InterfaceEvent{
			ID:        i.ID,
			Fini:      fini,
			NetworkID: i.NetworkID,
			Address:   addr[:],
			Maker:     i.Vendor,
		},
	})
}

func (e *Emitter) EmitIPAddress(now, packet int64, ep model.IPEndpoint, fini bool) {
	addr := ep.Address
	e.emit(&Event{
		Timestamp: now,
		Packet:    packet,
		IPAddress: &IPAddressEvent{
			ID:          ep.ID,
			Fini:        fini,
			Address:     addr[:],
			NSName:      ep.DNSName,
			InterfaceID: ep.InterfaceID,
			CloudID:     ep.CloudID,
			ASN:         ep.ASN,
			ASName:      ep.ASName,
		},
	})
}

func (e *Emitter) EmitCloud(now, packet int64, c model.Cloud, fini bool) {
	e.emit(&Event{
		Timestamp: now,
		Packet:    packet,
		Cloud: &CloudEvent{
			ID:          c.ID,
			Fini:        fini,
			Description: c.Description,
			InterfaceID: c.InterfaceID,
			CloudID:     c.CloudID,
		},
	})
}

func (e *Emitter) EmitTraffic(now, packet int64, interfaceCounts, cloudCounts, ipaddressCounts map[int64]int64) {
	e.emit(&Event{
		Timestamp: now,
		Packet:    packet,
		Traffic: &TrafficEvent{
			InterfacePacketCounts: interfaceCounts,
			CloudPacketCounts:     cloudCounts,
			IPAddressPacketCounts: ipaddressCounts,
		},
	})
}
