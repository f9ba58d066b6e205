package core

import (
	"encoding/binary"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/alexanderbarton/lansnoop/internal/disposition"
	"github.com/alexanderbarton/lansnoop/internal/model"
)

type recordingCounter struct {
	seen []disposition.Disposition
}

func (c *recordingCounter) Observe(d disposition.Disposition) {
	c.seen = append(c.seen, d)
}

func ethernetFrame(etherType uint16) []byte {
	frame := make([]byte, 14)
	binary.BigEndian.PutUint16(frame[12:14], etherType)
	return frame
}

func TestIngestIdleTickOnlyAdvancesClock(t *testing.T) {
	m := model.New(model.Options{AssumeOneLAN: true})
	counters := &recordingCounter{}
	e := New(Options{Model: m, Counters: counters})

	e.Ingest(time.Unix(0, 1000), nil)
	require.Empty(t, counters.seen)
	require.Equal(t, int64(1000), m.Now())
}

func TestIngestCountsDisposition(t *testing.T) {
	m := model.New(model.Options{AssumeOneLAN: true})
	counters := &recordingCounter{}
	e := New(Options{Model: m, Counters: counters})

	e.Ingest(time.Unix(0, 0), ethernetFrame(0x9999))
	require.Equal(t, []disposition.Disposition{disposition.ETHERTYPE_BAD}, counters.seen)
	require.Equal(t, int64(1), m.PacketCount())
}

func TestIngestMultiplePacketsBumpsCount(t *testing.T) {
	m := model.New(model.Options{AssumeOneLAN: true})
	e := New(Options{Model: m})

	e.Ingest(time.Unix(0, 0), ethernetFrame(0x9999))
	e.Ingest(time.Unix(0, 0), ethernetFrame(0x9999))
	require.Equal(t, int64(2), m.PacketCount())
}
