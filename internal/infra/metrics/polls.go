package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func init() { register(pollLatencyMs) }

var pollLatencyMs = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "quantum_poll_latency_ms",
		Help:    "Status poll round-trip latency distribution in milliseconds.",
		Buckets: []float64{10, 25, 50, 100, 200, 400, 800, 1600, 3000, 5000},
	},
	[]string{"success"},
)

func ObservePoll(latency time.Duration, success bool) {
	pollLatencyMs.WithLabelValues(strconv.FormatBool(success)).
		Observe(float64(latency.Milliseconds()))
}
