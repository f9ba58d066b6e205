package session

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/alexanderbarton/lansnoop/internal/disposition"
)

type countingHandler struct{ puts int }

func (h *countingHandler) Put(dir int, payload []byte) disposition.Disposition {
	h.puts++
	return disposition.UDP
}

func TestNewKeyCanonicalizesDirection(t *testing.T) {
	a := SockAddr{Address: netIP(10, 0, 0, 1), Port: 1000}
	b := SockAddr{Address: netIP(10, 0, 0, 2), Port: 53}

	k1, dir1 := NewKey(a, b)
	k2, dir2 := NewKey(b, a)

	require.Equal(t, k1, k2)
	require.NotEqual(t, dir1, dir2)
}

func TestDispatchReusesHandlerForBothDirections(t *testing.T) {
	var built int
	factory := func(key Key) Handler {
		built++
		return &countingHandler{}
	}
	table := NewTable(factory)

	a := SockAddr{Address: netIP(10, 0, 0, 1), Port: 1000}
	b := SockAddr{Address: netIP(10, 0, 0, 2), Port: 53}

	table.Dispatch(a, b, nil)
	table.Dispatch(b, a, nil) // reverse direction, same flow

	require.Equal(t, 1, built)
	require.Equal(t, 1, table.Len())
}

func TestDispatchCreatesSeparateFlowsForDifferentKeys(t *testing.T) {
	factory := func(key Key) Handler { return &countingHandler{} }
	table := NewTable(factory)

	table.Dispatch(SockAddr{Address: netIP(10, 0, 0, 1), Port: 1}, SockAddr{Address: netIP(10, 0, 0, 2), Port: 53}, nil)
	table.Dispatch(SockAddr{Address: netIP(10, 0, 0, 3), Port: 1}, SockAddr{Address: netIP(10, 0, 0, 4), Port: 53}, nil)

	require.Equal(t, 2, table.Len())
}

func netIP(a, b, c, d byte) (addr [4]byte) {
	return [4]byte{a, b, c, d}
}
