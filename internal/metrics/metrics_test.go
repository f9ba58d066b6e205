package metrics

import (
	"testing"

	"github.com/stretchr/testify/require"
	dto "github.com/prometheus/client_model/go"

	"github.com/alexanderbarton/lansnoop/internal/disposition"
)

func counterValue(t *testing.T, c interface {
	Write(*dto.Metric) error
}) float64 {
	t.Helper()
	var m dto.Metric
	require.NoError(t, c.Write(&m))
	return m.GetCounter().GetValue()
}

func TestDispositionObserverIncrementsLabeledCounter(t *testing.T) {
	before := counterValue(t, Dispositions.WithLabelValues(disposition.DNS.String()))

	DispositionObserver{}.Observe(disposition.DNS)

	after := counterValue(t, Dispositions.WithLabelValues(disposition.DNS.String()))
	require.Equal(t, before+1, after)
}

func TestARPCounterIncrements(t *testing.T) {
	before := counterValue(t, ARPUnknownMACTotal)
	ARPCounter{}.ARPUnknownMAC()
	after := counterValue(t, ARPUnknownMACTotal)
	require.Equal(t, before+1, after)
}
