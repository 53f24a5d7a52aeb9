// Package metrics exposes recognition and decision counters to Prometheus.
//
// Every method is safe on a nil *Recorder so that library packages can take
// an optional recorder without guarding each call.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Card sources for the cards_recognized counter.
const (
	SourceSelf      = "self"
	SourceCommunity = "community"
)

// Recorder owns a private registry with the card-vision collectors.
type Recorder struct {
	registry *prometheus.Registry

	frames       prometheus.Counter
	cards        *prometheus.CounterVec
	frameSeconds prometheus.Histogram
	templates    prometheus.Gauge
	decisions    *prometheus.CounterVec
	turnScore    prometheus.Gauge
}

// New creates a Recorder and registers its collectors.
func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		frames: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "cardvision_frames_total",
			Help: "Total number of frames recognized",
		}),
		cards: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cardvision_cards_recognized_total",
			Help: "Total number of cards recognized, by source",
		}, []string{"source"}),
		frameSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "cardvision_frame_seconds",
			Help:    "Time spent recognizing one frame",
			Buckets: prometheus.ExponentialBuckets(0.005, 2, 10),
		}),
		templates: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "cardvision_templates_loaded",
			Help: "Number of reference templates loaded",
		}),
		decisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cardvision_decisions_total",
			Help: "Total number of decisions taken, by action",
		}, []string{"action"}),
		turnScore: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "cardvision_turn_indicator_score",
			Help: "Last correlation score of the turn indicator",
		}),
	}
	r.registry.MustRegister(r.frames, r.cards, r.frameSeconds, r.templates, r.decisions, r.turnScore)
	return r
}

// Registry returns the registry holding the collectors.
func (r *Recorder) Registry() *prometheus.Registry {
	if r == nil {
		return nil
	}
	return r.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	if r == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

// ObserveFrame records one recognized frame.
func (r *Recorder) ObserveFrame(d time.Duration, self, community int) {
	if r == nil {
		return
	}
	r.frames.Inc()
	r.frameSeconds.Observe(d.Seconds())
	r.cards.WithLabelValues(SourceSelf).Add(float64(self))
	r.cards.WithLabelValues(SourceCommunity).Add(float64(community))
}

// SetTemplates records the size of the loaded template library.
func (r *Recorder) SetTemplates(n int) {
	if r == nil {
		return
	}
	r.templates.Set(float64(n))
}

// ObserveDecision counts one decision.
func (r *Recorder) ObserveDecision(action string) {
	if r == nil {
		return
	}
	r.decisions.WithLabelValues(action).Inc()
}

// ObserveTurnScore records the latest turn indicator score.
func (r *Recorder) ObserveTurnScore(score float64) {
	if r == nil {
		return
	}
	r.turnScore.Set(score)
}
