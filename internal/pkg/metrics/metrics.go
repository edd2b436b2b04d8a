// Package metrics exposes Prometheus collectors for recommendation runs.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// RunRecorder records the outcome of recommendation runs.
type RunRecorder struct {
	runs       *prometheus.CounterVec
	cycles     prometheus.Histogram
	unassigned prometheus.Counter
	duration   prometheus.Histogram
}

// NewRunRecorder creates the collectors and registers them with reg.
func NewRunRecorder(reg prometheus.Registerer) (*RunRecorder, error) {
	r := &RunRecorder{
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "canister_transfer",
			Name:      "runs_total",
			Help:      "Recommendation runs by result code.",
		}, []string{"result"}),
		cycles: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "canister_transfer",
			Name:      "cycles_per_run",
			Help:      "Cycles planned by successful recommendation runs.",
			Buckets:   prometheus.LinearBuckets(1, 1, 10),
		}),
		unassigned: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "canister_transfer",
			Name:      "unassigned_canisters_total",
			Help:      "Canisters left without a destination.",
		}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "canister_transfer",
			Name:      "run_duration_seconds",
			Help:      "Wall time of recommendation runs.",
			Buckets:   prometheus.DefBuckets,
		}),
	}

	for _, c := range []prometheus.Collector{r.runs, r.cycles, r.unassigned, r.duration} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// ObserveRun records one run. cycles and unassigned are ignored for runs that
// did not produce a plan.
func (r *RunRecorder) ObserveRun(result string, cycles, unassigned int, seconds float64) {
	r.runs.WithLabelValues(result).Inc()
	r.duration.Observe(seconds)
	if cycles > 0 {
		r.cycles.Observe(float64(cycles))
	}
	if unassigned > 0 {
		r.unassigned.Add(float64(unassigned))
	}
}
