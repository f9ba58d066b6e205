// Package session tracks per-flow UDP state: a canonical, direction-agnostic
// four-tuple key maps to a Handler chosen once by port number and then
// reused for the life of the flow. Idle flows are evicted automatically.
package session

import (
	"time"

	lru "github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/alexanderbarton/lansnoop/internal/disposition"
	"github.com/alexanderbarton/lansnoop/internal/netaddr"
)

// idleTimeout matches the 60s eviction policy called for by the session
// idle-eviction open question: a flow that's gone quiet for this long has
// its handler (and any state it holds) discarded.
const idleTimeout = 60 * time.Second

// SockAddr is one side of a UDP flow.
type SockAddr struct {
	Address netaddr.IPv4
	Port    uint16
}

func (s SockAddr) less(o SockAddr) bool {
	if s.Address != o.Address {
		return bytesLess(s.Address[:], o.Address[:])
	}
	return s.Port < o.Port
}

func bytesLess(a, b []byte) bool {
	for i := range a {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return false
}

// Key is the canonical, order-independent identity of a UDP flow: A is
// always the numerically smaller SockAddr.
type Key struct {
	A, B SockAddr
}

// NewKey builds the canonical key for a (src, dst) pair and reports the
// direction bit: 1 iff src landed on the canonical low side (A), else 0.
// Handler.Put's dir argument is exactly this value.
func NewKey(src, dst SockAddr) (Key, int) {
	if !dst.less(src) {
		return Key{A: src, B: dst}, 1
	}
	return Key{A: dst, B: src}, 0
}

// Handler processes successive datagrams belonging to one flow.
type Handler interface {
	Put(dir int, payload []byte) disposition.Disposition
}

// HandlerFactory selects a Handler for a newly observed flow, based on its
// key (in practice, its port numbers).
type HandlerFactory func(key Key) Handler

// Table dispatches UDP datagrams to per-flow handlers, creating a new
// handler via factory the first time a flow's key is seen.
type Table struct {
	cache   *lru.LRU[Key, Handler]
	factory HandlerFactory
}

func NewTable(factory HandlerFactory) *Table {
	return &Table{
		cache:   lru.NewLRU[Key, Handler](0, nil, idleTimeout),
		factory: factory,
	}
}

// Dispatch routes one datagram to its flow's handler, creating the flow on
// first sight.
func (t *Table) Dispatch(src, dst SockAddr, payload []byte) disposition.Disposition {
	key, dir := NewKey(src, dst)
	h, ok := t.cache.Get(key)
	if !ok {
		h = t.factory(key)
	}
	// Add on every datagram: Get alone does not renew an entry's expiry.
	t.cache.Add(key, h)
	return h.Put(dir, payload)
}

// Len reports the number of live flows.
func (t *Table) Len() int {
	return t.cache.Len()
}
