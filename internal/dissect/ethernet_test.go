package dissect

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/alexanderbarton/lansnoop/internal/disposition"
	"github.com/alexanderbarton/lansnoop/internal/model"
)

type recordingSink struct {
	networks   []model.Network
	interfaces []model.Interface
	ipaddrs    []model.IPEndpoint
	clouds     []model.Cloud
}

func (s *recordingSink) EmitNetwork(now, packet int64, n model.Network, fini bool) {
	s.networks = append(s.networks, n)
}
func (s *recordingSink) EmitInterface(now, packet int64, i model.Interface, fini bool) {
	s.interfaces = append(s.interfaces, i)
}
func (s *recordingSink) EmitIPAddress(now, packet int64, e model.IPEndpoint, fini bool) {
	s.ipaddrs = append(s.ipaddrs, e)
}
func (s *recordingSink) EmitCloud(now, packet int64, c model.Cloud, fini bool) {
	s.clouds = append(s.clouds, c)
}
func (s *recordingSink) EmitTraffic(now, packet int64, i, c, a map[int64]int64) {}

func newTestEngine() (*Engine, *recordingSink) {
	sink := &recordingSink{}
	return NewEngine(model.New(model.Options{AssumeOneLAN: true, Sink: sink})), sink
}

func ethFrame(src, dst [6]byte, etherType uint16, payload []byte) []byte {
	frame := make([]byte, 0, 14+len(payload))
	frame = append(frame, dst[:]...)
	frame = append(frame, src[:]...)
	frame = append(frame, byte(etherType>>8), byte(etherType))
	frame = append(frame, payload...)
	return frame
}

func TestEthernetTruncated(t *testing.T) {
	e, _ := newTestEngine()
	require.Equal(t, disposition.TRUNCATED, e.Ethernet([]byte{1, 2, 3}))
}

func TestEthernetUnknownEtherType(t *testing.T) {
	e, _ := newTestEngine()
	frame := ethFrame([6]byte{1, 2, 3, 4, 5, 6}, [6]byte{7, 8, 9, 10, 11, 12}, 0x1234, nil)
	require.Equal(t, disposition.ETHERTYPE_BAD, e.Ethernet(frame))
}

func TestEthernetMulticastDestinationCreatesOnlySourceInterface(t *testing.T) {
	e, sink := newTestEngine()
	multicastDst := [6]byte{0x01, 0x00, 0x5E, 0x00, 0x00, 0x01}
	frame := ethFrame([6]byte{1, 2, 3, 4, 5, 6}, multicastDst, 0x1234, nil)
	e.Ethernet(frame)
	require.Len(t, sink.interfaces, 1)
}
