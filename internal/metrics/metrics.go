// Package metrics holds the prometheus metrics objects for lansnoop. It
// does not abstract away the prometheus client; callers refer to the
// exported collectors directly as package-level objects registered once
// at startup.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/alexanderbarton/lansnoop/internal/disposition"
)

const (
	namespace = "lansnoop"
	subsystem = "core"
)

var (
	// Dispositions counts every frame processed, bucketed by its dissector
	// outcome.
	Dispositions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "dispositions_total",
		Help:      "Frames processed, by dissector disposition.",
	}, []string{"disposition"})

	// ARPUnknownMACTotal counts ARP observations soft-ignored because the
	// reporting MAC had no known Interface yet.
	ARPUnknownMACTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "arp_unknown_mac_total",
		Help:      "ARP bindings ignored because the sending MAC has no known Interface.",
	})

	// Networks, Interfaces, IPAddresses, Clouds, and UDPSessions are gauges
	// for the live entity counts in the topology model and session table.
	// They are registered but no code path sets them, so they read zero.
	Networks = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace, Subsystem: subsystem, Name: "networks", Help: "Live Network count.",
	})
	Interfaces = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace, Subsystem: subsystem, Name: "interfaces", Help: "Live Interface count.",
	})
	IPAddresses = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace, Subsystem: subsystem, Name: "ip_addresses", Help: "Live IPEndpoint count.",
	})
	Clouds = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace, Subsystem: subsystem, Name: "clouds", Help: "Live Cloud count.",
	})
	UDPSessions = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace, Subsystem: subsystem, Name: "udp_sessions", Help: "Live UDP session count.",
	})
)

func init() {
	prometheus.MustRegister(Dispositions, ARPUnknownMACTotal, Networks, Interfaces, IPAddresses, Clouds, UDPSessions)
	for _, d := range disposition.All() {
		Dispositions.WithLabelValues(d.String())
	}
}

// DispositionObserver implements core.DispositionCounter.
type DispositionObserver struct{}

func (DispositionObserver) Observe(d disposition.Disposition) {
	Dispositions.WithLabelValues(d.String()).Inc()
}

// ARPCounter implements model.SoftErrorCounter.
type ARPCounter struct{}

func (ARPCounter) ARPUnknownMAC() { ARPUnknownMACTotal.Inc() }

// Serve starts the optional /metrics HTTP endpoint and blocks until the
// listener fails or is closed.
func Serve(addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	return http.ListenAndServe(addr, mux)
}
