package capture

import (
	"fmt"
	"time"

	"github.com/gopacket/gopacket/layers"
	"github.com/gopacket/gopacket/pcap"
)

// LiveSource reads frames from a live network interface in promiscuous
// mode, matching the configuration sequence of the original C++ tool's
// read_interface(): 1ms read timeout, 32MB kernel buffer, 1600-byte
// snaplen.
type LiveSource struct {
	handle *pcap.Handle
}

// OpenLive activates nic for capture. It fails fast if the interface's
// link-layer type isn't Ethernet, since every dissector downstream assumes
// an Ethernet frame header.
func OpenLive(nic string) (*LiveSource, error) {
	inactive, err := pcap.NewInactiveHandle(nic)
	if err != nil {
		return nil, fmt.Errorf("capture: opening interface %q: %w", nic, err)
	}
	defer inactive.CleanUp()

	if err := inactive.SetSnapLen(snapLen); err != nil {
		return nil, fmt.Errorf("capture: setting snaplen: %w", err)
	}
	if err := inactive.SetPromisc(true); err != nil {
		return nil, fmt.Errorf("capture: setting promiscuous mode: %w", err)
	}
	if err := inactive.SetTimeout(readTimeout); err != nil {
		return nil, fmt.Errorf("capture: setting read timeout: %w", err)
	}
	if err := inactive.SetBufferSize(bufferSize); err != nil {
		return nil, fmt.Errorf("capture: setting buffer size: %w", err)
	}

	handle, err := inactive.Activate()
	if err != nil {
		return nil, fmt.Errorf("capture: activating interface %q: %w", nic, err)
	}

	if handle.LinkType() != layers.LinkTypeEthernet {
		handle.Close()
		return nil, fmt.Errorf("capture: unexpected link type %s on %q, only Ethernet is supported", handle.LinkType(), nic)
	}

	return &LiveSource{handle: handle}, nil
}

// Run reads frames until Close is called, delivering an idle tick to sink
// once more than idleTicksThreshold consecutive reads come back empty.
func (s *LiveSource) Run(sink Sink) error {
	idle := 0
	for {
		data, ci, err := s.handle.ZeroCopyReadPacketData()
		switch err {
		case nil:
			idle = 0
			sink.Ingest(ci.Timestamp, data)
			continue
		case pcap.NextErrorTimeoutExpired:
			idle++
			if idle > idleTicksThreshold {
				sink.Ingest(time.Now(), nil)
				idle = 0
			}
			continue
		case pcap.NextErrorNoMorePackets:
			return nil
		default:
			return fmt.Errorf("capture: reading from interface: %w", err)
		}
	}
}

func (s *LiveSource) Close() error {
	s.handle.Close()
	return nil
}
