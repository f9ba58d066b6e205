package model

// Sink receives one notification per model mutation, in emission order. An
// implementation is expected to serialize each call to a framed event
// stream (see internal/event); the model package has no knowledge of wire
// format. fini marks an entity that will never be referenced again.
type Sink interface {
	EmitNetwork(now, packet int64, n Network, fini bool)
	EmitInterface(now, packet int64, i Interface, fini bool)
	EmitIPAddress(now, packet int64, e IPEndpoint, fini bool)
	EmitCloud(now, packet int64, c Cloud, fini bool)
	EmitTraffic(now, packet int64, interfaceCounts, cloudCounts, ipaddressCounts map[int64]int64)
}

// NopSink discards every event. Useful in tests that only care about model
// state, not emission.
type NopSink struct{}

func (NopSink) EmitNetwork(int64, int64, Network, bool)                          {}
func (NopSink) EmitInterface(int64, int64, Interface, bool)                      {}
func (NopSink) EmitIPAddress(int64, int64, IPEndpoint, bool)                     {}
func (NopSink) EmitCloud(int64, int64, Cloud, bool)                              {}
func (NopSink) EmitTraffic(int64, int64, map[int64]int64, map[int64]int64, map[int64]int64) {}
