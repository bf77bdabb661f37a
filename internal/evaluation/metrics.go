package evaluation

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"shortorder/internal/models"
)

// Check result labels.
const (
	ResultCorrect   = "correct"
	ResultIncorrect = "incorrect"
	ResultSkipped   = "skipped"
)

// MetricsCollector handles metrics collection and reporting
type MetricsCollector struct {
	registry *prometheus.Registry
	metrics  map[string]prometheus.Collector
}

// NewMetricsCollector creates a collector on its own registry.
func NewMetricsCollector() *MetricsCollector {
	registry := prometheus.NewRegistry()

	ordersGenerated := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "shortorder_orders_generated_total",
			Help: "Orders generated for the day queue",
		},
	)

	ordersServed := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shortorder_orders_served_total",
			Help: "Orders served, by whole-order result",
		},
		[]string{"result"},
	)

	courseChecks := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shortorder_course_checks_total",
			Help: "Course checks, by course and result",
		},
		[]string{"course", "result"},
	)

	serviceTime := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "shortorder_order_service_seconds",
			Help:    "Time from an order reaching a station to being served",
			Buckets: prometheus.ExponentialBuckets(1, 2, 10),
		},
	)

	queueDepth := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "shortorder_queue_depth",
			Help: "Orders waiting for a free station",
		},
	)

	stationsAvailable := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "shortorder_stations_available",
			Help: "Order stations without an order",
		},
	)

	metrics := map[string]prometheus.Collector{
		"orders_generated":   ordersGenerated,
		"orders_served":      ordersServed,
		"course_checks":      courseChecks,
		"service_time":       serviceTime,
		"queue_depth":        queueDepth,
		"stations_available": stationsAvailable,
	}

	for _, metric := range metrics {
		registry.MustRegister(metric)
	}

	return &MetricsCollector{
		registry: registry,
		metrics:  metrics,
	}
}

// Registry returns the collector's registry.
func (mc *MetricsCollector) Registry() *prometheus.Registry {
	return mc.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (mc *MetricsCollector) Handler() http.Handler {
	return promhttp.HandlerFor(mc.registry, promhttp.HandlerOpts{Registry: mc.registry})
}

// RecordOrdersGenerated adds n generated orders.
func (mc *MetricsCollector) RecordOrdersGenerated(n int) {
	if counter, ok := mc.metrics["orders_generated"].(prometheus.Counter); ok {
		counter.Add(float64(n))
	}
}

// RecordVerdict counts every course of a verdict and the whole-order result.
func (mc *MetricsCollector) RecordVerdict(v *Verdict) {
	if counter, ok := mc.metrics["course_checks"].(*prometheus.CounterVec); ok {
		for _, r := range v.Courses {
			counter.WithLabelValues(r.Course.String(), courseLabel(r)).Inc()
		}
	}
	if counter, ok := mc.metrics["orders_served"].(*prometheus.CounterVec); ok {
		result := ResultIncorrect
		if v.AllCorrect() {
			result = ResultCorrect
		}
		counter.WithLabelValues(result).Inc()
	}
}

func courseLabel(r CourseResult) string {
	switch {
	case !r.Applicable:
		return ResultSkipped
	case r.Correct:
		return ResultCorrect
	default:
		return ResultIncorrect
	}
}

// RecordServiceTime observes how long an order sat at its station.
func (mc *MetricsCollector) RecordServiceTime(seconds float64) {
	if histogram, ok := mc.metrics["service_time"].(prometheus.Histogram); ok {
		histogram.Observe(seconds)
	}
}

// SetQueueDepth records the pending queue length.
func (mc *MetricsCollector) SetQueueDepth(n int) {
	if gauge, ok := mc.metrics["queue_depth"].(prometheus.Gauge); ok {
		gauge.Set(float64(n))
	}
}

// SetStationsAvailable records the number of free stations.
func (mc *MetricsCollector) SetStationsAvailable(n int) {
	if gauge, ok := mc.metrics["stations_available"].(prometheus.Gauge); ok {
		gauge.Set(float64(n))
	}
}

// CourseChecks returns the recorded count for a course and result label.
func (mc *MetricsCollector) CourseChecks(course models.Course, result string) prometheus.Counter {
	vec := mc.metrics["course_checks"].(*prometheus.CounterVec)
	return vec.WithLabelValues(course.String(), result)
}
