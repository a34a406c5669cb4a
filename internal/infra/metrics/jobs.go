package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() { register(jobsSubmittedTotal, jobsTerminalTotal, shotsRequestedTotal) }

var jobsSubmittedTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "quantum_jobs_submitted_total",
		Help: "Total number of circuit jobs submitted, labeled by machine.",
	},
	[]string{"machine"},
)

var jobsTerminalTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "quantum_jobs_terminal_total",
		Help: "Total number of jobs that reached a terminal status.",
	},
	[]string{"status"}, // 'completed', 'failed', 'cancelled'
)

var shotsRequestedTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "quantum_shots_requested_total",
		Help: "Sum of shots requested across submitted jobs, per machine.",
	},
	[]string{"machine"},
)

func IncSubmitted(machine string, shots int) {
	jobsSubmittedTotal.WithLabelValues(norm(machine)).Inc()
	shotsRequestedTotal.WithLabelValues(norm(machine)).Add(float64(shots))
}

func IncTerminal(status string) {
	jobsTerminalTotal.WithLabelValues(norm(status)).Inc()
}
