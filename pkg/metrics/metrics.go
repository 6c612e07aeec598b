// Package metrics holds the prometheus collectors for dialogue turns.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "shop_assistant"

// Recorder is nil-safe: a nil *Recorder drops every observation.
type Recorder struct {
	turns         *prometheus.CounterVec
	interpret     prometheus.Histogram
	cartMutations *prometheus.CounterVec
}

func New(reg prometheus.Registerer) *Recorder {
	r := &Recorder{
		turns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "turns_total",
			Help:      "Dialogue turns handled, by interpreted intent and outcome.",
		}, []string{"intent", "outcome"}),
		interpret: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "interpret_seconds",
			Help:      "Latency of intent interpretation.",
			Buckets:   prometheus.DefBuckets,
		}),
		cartMutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cart_mutations_total",
			Help:      "Confirmed cart mutations, by kind.",
		}, []string{"kind"}),
	}
	if reg != nil {
		reg.MustRegister(r.turns, r.interpret, r.cartMutations)
	}
	return r
}

func (r *Recorder) Turn(intent, outcome string) {
	if r == nil {
		return
	}
	if intent == "" {
		intent = "none"
	}
	r.turns.WithLabelValues(intent, outcome).Inc()
}

func (r *Recorder) Interpret(d time.Duration) {
	if r == nil {
		return
	}
	r.interpret.Observe(d.Seconds())
}

func (r *Recorder) CartMutation(kind string) {
	if r == nil {
		return
	}
	r.cartMutations.WithLabelValues(kind).Inc()
}
