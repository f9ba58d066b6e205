package session

import "github.com/alexanderbarton/lansnoop/internal/disposition"

// DiscardHandler is assigned to any flow that isn't recognized as carrying
// a protocol this tool understands. It does no parsing.
type DiscardHandler struct{}

func (DiscardHandler) Put(dir int, payload []byte) disposition.Disposition {
	return disposition.L4_PROTOCOL
}
