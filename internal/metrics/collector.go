// Package metrics exposes prometheus counters for the planner, the fridge
// game and the HTTP layer on a registry of its own.
package metrics

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"smartserve/internal/fridge"
	"smartserve/internal/planner"
	"smartserve/internal/suggest"
)

// Collector records application metrics
type Collector struct {
	registry *prometheus.Registry
	metrics  map[string]prometheus.Collector
}

var _ planner.Observer = (*Collector)(nil)

// NewCollector creates a collector with every metric registered
func NewCollector() *Collector {
	registry := prometheus.NewRegistry()

	forecasts := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "smartserve_forecasts_total",
			Help: "Forecast requests by outcome",
		},
		[]string{"outcome"},
	)

	predicted := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "smartserve_predicted_quantity",
			Help:    "Predicted food quantity per forecast",
			Buckets: prometheus.ExponentialBuckets(10, 2, 10),
		},
	)

	suggestions := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "smartserve_suggestions_total",
			Help: "Suggestion requests by kind and outcome",
		},
		[]string{"kind", "outcome"},
	)

	discarded := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "smartserve_stale_responses_total",
			Help: "Responses dropped because a newer request replaced them",
		},
		[]string{"slot"},
	)

	// Start every suggestion series at zero so rate() works before the first call
	discarded.WithLabelValues("forecast")
	for _, kind := range suggest.Kinds() {
		discarded.WithLabelValues(string(kind))
		for _, o := range []string{"success", "invalid", "error"} {
			suggestions.WithLabelValues(string(kind), o)
		}
	}

	placements := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "smartserve_fridge_placements_total",
			Help: "Fridge placement attempts by outcome",
		},
		[]string{"outcome"},
	)

	utilization := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "smartserve_fridge_utilization_percent",
			Help: "Utilization of the most recently updated fridge",
		},
	)

	requests := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "smartserve_http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)

	metrics := map[string]prometheus.Collector{
		"forecasts":   forecasts,
		"predicted":   predicted,
		"suggestions": suggestions,
		"discarded":   discarded,
		"placements":  placements,
		"utilization": utilization,
		"requests":    requests,
	}

	for _, metric := range metrics {
		registry.MustRegister(metric)
	}

	return &Collector{
		registry: registry,
		metrics:  metrics,
	}
}

// Registry returns the registry the metrics live on
func (mc *Collector) Registry() *prometheus.Registry {
	return mc.registry
}

// Handler serves the registry in the prometheus text format
func (mc *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(mc.registry, promhttp.HandlerOpts{})
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "success"
	case planner.IsValidation(err):
		return "invalid"
	default:
		return "error"
	}
}

// ForecastDone counts a finished forecast
func (mc *Collector) ForecastDone(err error) {
	if counter, ok := mc.metrics["forecasts"].(*prometheus.CounterVec); ok {
		counter.WithLabelValues(outcome(err)).Inc()
	}
}

// RecordPrediction observes a predicted quantity
func (mc *Collector) RecordPrediction(quantity float64) {
	if histogram, ok := mc.metrics["predicted"].(prometheus.Histogram); ok {
		histogram.Observe(quantity)
	}
}

// SuggestionDone counts a finished suggestion
func (mc *Collector) SuggestionDone(kind suggest.Kind, err error) {
	if counter, ok := mc.metrics["suggestions"].(*prometheus.CounterVec); ok {
		counter.WithLabelValues(string(kind), outcome(err)).Inc()
	}
}

// Discarded counts a stale response
func (mc *Collector) Discarded(slot string) {
	if counter, ok := mc.metrics["discarded"].(*prometheus.CounterVec); ok {
		counter.WithLabelValues(slot).Inc()
	}
}

// RecordPlacement counts a placement attempt and tracks the resulting utilization
func (mc *Collector) RecordPlacement(s fridge.Session, err error) {
	result := "accepted"
	if errors.Is(err, fridge.ErrCannotPlace) {
		result = "rejected"
	} else if err != nil {
		result = "invalid"
	}
	if counter, ok := mc.metrics["placements"].(*prometheus.CounterVec); ok {
		counter.WithLabelValues(result).Inc()
	}
	if gauge, ok := mc.metrics["utilization"].(prometheus.Gauge); ok {
		gauge.Set(s.Utilization)
	}
}

// Middleware times every request by its route template
func (mc *Collector) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		if histogram, ok := mc.metrics["requests"].(*prometheus.HistogramVec); ok {
			histogram.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).
				Observe(time.Since(start).Seconds())
		}
	}
}
