// Package capture implements the two capture drivers (live interface and
// offline file replay) that feed internal/core.Engine.Ingest. Grounded on
// the original tool's libpcap configuration sequence
// (_examples/original_source/snoop/main.cpp: pcap_create/pcap_set_promisc/
// pcap_set_timeout/pcap_set_buffer_size/pcap_set_snaplen/pcap_activate) and
// on the pack's own gopacket capture engine
// (other_examples/...KleaSCM-netscope.../capture/engine.go), which
// configures an inactive handle the same way before activating it.
package capture

import (
	"time"
)

// Sink receives one call per captured frame, or a nil frame for an idle
// tick (used to keep the model clock moving, and thus Traffic rollups
// firing, during quiet periods on a live interface).
type Sink interface {
	Ingest(ts time.Time, frame []byte)
}

// Source is a frame producer: a live interface or an offline capture file.
type Source interface {
	// Run reads frames until the source is exhausted (offline) or Close is
	// called (live), delivering each one to sink.
	Run(sink Sink) error
	Close() error
}

const (
	// snapLen matches the original's 1600-byte capture length: enough for
	// a full untagged Ethernet frame with headroom for a VLAN tag.
	snapLen = 1600

	// bufferSize matches the original's 32MB kernel capture buffer.
	bufferSize = 32 * 1024 * 1024

	// readTimeout matches the original's 1ms poll interval.
	readTimeout = time.Millisecond

	// idleTicksThreshold matches the original's idle_count > 10 check: once
	// more than this many consecutive empty reads (i.e. on the 11th) occur on
	// a live interface, an idle tick is delivered to the sink so the model clock (and Traffic rollups) keep
	// moving even with no traffic.
	idleTicksThreshold = 10
)
