// Package core wires a capture source to the protocol dissectors and the
// topology model, mirroring Snoop::parse_ethernet from the original tool:
// advance the clock, bump the observed-packet counter, dissect, and tally
// the resulting disposition.
package core

import (
	"log/slog"
	"time"

	"github.com/alexanderbarton/lansnoop/internal/dissect"
	"github.com/alexanderbarton/lansnoop/internal/disposition"
	"github.com/alexanderbarton/lansnoop/internal/model"
)

// DispositionCounter receives a tick for every frame processed, bucketed by
// outcome. internal/metrics implements this to feed the per-disposition
// Prometheus counters.
type DispositionCounter interface {
	Observe(d disposition.Disposition)
}

type nopCounter struct{}

func (nopCounter) Observe(disposition.Disposition) {}

// Engine is the ingest entry point used by every capture driver
// (internal/capture) and by tests: it owns the dissection engine and the
// model it feeds.
type Engine struct {
	dissect  *dissect.Engine
	model    *model.Model
	counters DispositionCounter
	log      *slog.Logger

	observed int64
}

type Options struct {
	Model    *model.Model
	Counters DispositionCounter
	Log      *slog.Logger
}

func New(opts Options) *Engine {
	counters := opts.Counters
	if counters == nil {
		counters = nopCounter{}
	}
	log := opts.Log
	if log == nil {
		log = slog.Default()
	}
	return &Engine{
		dissect:  dissect.NewEngine(opts.Model),
		model:    opts.Model,
		counters: counters,
		log:      log,
	}
}

// Ingest processes one captured frame (or, if frame is nil, an idle tick
// that only advances the clock so scheduled Traffic rollups still fire
// during quiet periods).
func (e *Engine) Ingest(ts time.Time, frame []byte) {
	e.model.OnTime(ts.UnixNano())
	if frame == nil {
		return
	}

	e.observed++
	e.model.NotePacketCount(e.observed)

	// A model.InvariantError panics out of here uncaught: it means the
	// topology model's own bookkeeping broke an invariant it's supposed to
	// guarantee, which is a programmer bug, not a malformed-packet
	// disposition. cmd/lansnoop recovers it at the top level, logs it, and
	// exits(1) after flushing the event sink.
	disp := e.dissect.Ethernet(frame)
	e.counters.Observe(disp)
}
