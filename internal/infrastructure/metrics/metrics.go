// Package metrics exposes order-turn counters and latencies to Prometheus.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "orderlens"

// Recorder records turn outcomes, keyword matches and dictionary reloads.
// It satisfies usecase.TurnObserver.
type Recorder struct {
	turns            *prometheus.CounterVec
	turnDuration     prometheus.Histogram
	keywordMatches   *prometheus.CounterVec
	dictionaryReload *prometheus.CounterVec
	activeSessions   prometheus.GaugeFunc
}

// NewRecorder registers the collectors on reg. A nil reg uses the default
// registerer.
func NewRecorder(reg prometheus.Registerer) *Recorder {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Recorder{
		turns: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "turns_total",
			Help:      "Processed conversation turns by outcome.",
		}, []string{"outcome"}),
		turnDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "turn_duration_seconds",
			Help:      "Time spent extracting and merging one turn.",
			Buckets:   []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25, .5, 1, 2},
		}),
		keywordMatches: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "keyword_matches_total",
			Help:      "Keywords recognized in utterances by category.",
		}, []string{"category"}),
		dictionaryReload: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dictionary_reloads_total",
			Help:      "Dictionary reload attempts by result.",
		}, []string{"result"}),
	}
}

// ObserveTurn records one processed turn.
func (r *Recorder) ObserveTurn(outcome string, duration time.Duration) {
	r.turns.WithLabelValues(outcome).Inc()
	r.turnDuration.Observe(duration.Seconds())
}

// ObserveMatch records one recognized keyword.
func (r *Recorder) ObserveMatch(category string) {
	r.keywordMatches.WithLabelValues(category).Inc()
}

// ObserveReload records a dictionary reload attempt.
func (r *Recorder) ObserveReload(err error) {
	result := "success"
	if err != nil {
		result = "failure"
	}
	r.dictionaryReload.WithLabelValues(result).Inc()
}

// TrackSessions exposes the live session count as a gauge.
func (r *Recorder) TrackSessions(reg prometheus.Registerer, size func() int) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	r.activeSessions = promauto.With(reg).NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "active_sessions",
		Help:      "Conversations currently held in memory.",
	}, func() float64 { return float64(size()) })
}
