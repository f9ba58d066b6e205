package session

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/alexanderbarton/lansnoop/internal/disposition"
)

func TestDiscardHandlerAlwaysReturnsL4Protocol(t *testing.T) {
	var h DiscardHandler
	require.Equal(t, disposition.L4_PROTOCOL, h.Put(0, []byte("anything")))
	require.Equal(t, disposition.L4_PROTOCOL, h.Put(1, nil))
}
