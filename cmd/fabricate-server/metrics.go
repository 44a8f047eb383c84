package main

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/daniacca/fabricate/internal/fabricate"
)

// Metrics records selection and crafting activity for /metrics.
type Metrics struct {
	registry *prometheus.Registry

	selectionDuration prometheus.Histogram
	selectionNodes    prometheus.Histogram
	selections        *prometheus.CounterVec // by outcome
	truncated         prometheus.Counter
	crafts            *prometheus.CounterVec // by recipe and result
	salvages          prometheus.Counter
	deliveries        *prometheus.CounterVec // by notifier and result
	deliveryAttempts  prometheus.Histogram
}

const (
	outcomeSufficient   = "sufficient"
	outcomeInsufficient = "insufficient"
	outcomeEmpty        = "empty"
)

// NewMetrics creates the collectors on a private registry, together with
// the Go runtime and process collectors.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		selectionDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "fabricate_selection_duration_seconds",
			Help:    "Time spent choosing components for an essence requirement.",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 10),
		}),
		selectionNodes: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "fabricate_selection_nodes",
			Help:    "Search tree nodes expanded per selection.",
			Buckets: prometheus.ExponentialBuckets(1, 4, 10),
		}),
		selections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fabricate_selections_total",
			Help: "Essence selections, grouped by 'sufficient', 'insufficient' and 'empty'.",
		}, []string{"outcome"}),
		truncated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fabricate_selections_truncated_total",
			Help: "Essence selections stopped early by the node limit.",
		}),
		crafts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fabricate_crafts_total",
			Help: "Craft attempts by recipe and result.",
		}, []string{"recipe", "result"}),
		salvages: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fabricate_salvages_total",
			Help: "Components salvaged.",
		}),
		deliveries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fabricate_notifications_total",
			Help: "Queued notifications by notifier and result, 'delivered' or 'failed'.",
		}, []string{"notifier", "result"}),
		deliveryAttempts: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "fabricate_notification_attempts",
			Help:    "Attempts needed per queued notification.",
			Buckets: []float64{1, 2, 3, 4, 6, 8},
		}),
	}
	m.registry.MustRegister(
		m.selectionDuration,
		m.selectionNodes,
		m.selections,
		m.truncated,
		m.crafts,
		m.salvages,
		m.deliveries,
		m.deliveryAttempts,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// ObserveSelection records one selection and how long it took.
func (m *Metrics) ObserveSelection(sel fabricate.Selection, took time.Duration) {
	m.selectionDuration.Observe(took.Seconds())
	m.selectionNodes.Observe(float64(sel.NodesVisited))
	switch {
	case sel.Sufficient:
		m.selections.WithLabelValues(outcomeSufficient).Inc()
	case sel.Components.IsEmpty():
		m.selections.WithLabelValues(outcomeEmpty).Inc()
	default:
		m.selections.WithLabelValues(outcomeInsufficient).Inc()
	}
	if sel.Truncated {
		m.truncated.Inc()
	}
}

// ObserveCraft records a craft attempt.
func (m *Metrics) ObserveCraft(recipe fabricate.RecipeID, result string) {
	m.crafts.WithLabelValues(string(recipe), result).Inc()
}

func (m *Metrics) ObserveSalvage() {
	m.salvages.Inc()
}

// ObserveDelivery records the outcome of a queued notification.
func (m *Metrics) ObserveDelivery(d fabricate.Delivery) {
	result := "delivered"
	if d.Err != nil {
		result = "failed"
	}
	m.deliveries.WithLabelValues(d.NotifierID, result).Inc()
	m.deliveryAttempts.Observe(float64(d.Attempts))
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
