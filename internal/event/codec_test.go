package event

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	ev := &Event{
		Timestamp: 123,
		Packet:    7,
		Interface: &InterfaceEvent{ID: 2, NetworkID: 1, Address: []byte{1, 2, 3, 4, 5, 6}, Maker: "Acme"},
	}

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, ev))

	got, err := Decode(&buf)
	require.NoError(t, err)
	require.Equal(t, ev, got)
}

func TestDecodeMultipleFrames(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, &Event{Timestamp: 1, Network: &NetworkEvent{ID: 1}}))
	require.NoError(t, Encode(&buf, &Event{Timestamp: 2, Network: &NetworkEvent{ID: 2, Fini: true}}))

	first, err := Decode(&buf)
	require.NoError(t, err)
	require.Equal(t, int64(1), first.Network.ID)

	second, err := Decode(&buf)
	require.NoError(t, err)
	require.Equal(t, int64(2), second.Network.ID)
	require.True(t, second.Network.Fini)
}

func TestDecodeEOFAtBoundary(t *testing.T) {
	_, err := Decode(&bytes.Buffer{})
	require.ErrorIs(t, err, io.EOF)
}

func TestDecodeTruncatedLengthPrefix(t *testing.T) {
	_, err := Decode(bytes.NewReader([]byte{0, 0}))
	require.Error(t, err)
}

func TestDecodeTruncatedBody(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, &Event{Timestamp: 1, Network: &NetworkEvent{ID: 1}}))
	truncated := buf.Bytes()[:buf.Len()-1]
	_, err := Decode(bytes.NewReader(truncated))
	require.Error(t, err)
}

func TestDecodeRejectsOversizedFrame(t *testing.T) {
	var hdr [4]byte
	hdr[0] = 0xFF
	_, err := Decode(bytes.NewReader(hdr[:]))
	require.Error(t, err)
}
