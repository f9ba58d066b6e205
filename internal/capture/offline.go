package capture

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/gopacket/gopacket/layers"
	"github.com/gopacket/gopacket/pcapgo"
)

// OfflineSource replays frames from a previously captured .pcap file.
// Unlike LiveSource, it runs to EOF and emits no idle ticks, matching the
// original tool's file-replay path (no idle_count check when !live_capture).
type OfflineSource struct {
	f      *os.File
	reader *pcapgo.Reader
}

func OpenOffline(path string) (*OfflineSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("capture: opening capture file %q: %w", path, err)
	}

	reader, err := pcapgo.NewReader(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("capture: reading capture file %q: %w", path, err)
	}

	if reader.LinkType() != layers.LinkTypeEthernet {
		f.Close()
		return nil, fmt.Errorf("capture: unexpected link type %s in %q, only Ethernet is supported", reader.LinkType(), path)
	}

	return &OfflineSource{f: f, reader: reader}, nil
}

func (s *OfflineSource) Run(sink Sink) error {
	for {
		data, ci, err := s.reader.ReadPacketData()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("capture: reading capture file: %w", err)
		}
		sink.Ingest(ci.Timestamp, data)
	}
}

func (s *OfflineSource) Close() error {
	return s.f.Close()
}
