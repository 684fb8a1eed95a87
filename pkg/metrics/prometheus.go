// Package metrics provides Prometheus metrics for census report fan-out.
package metrics

import (
	"fmt"
	"strconv"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	dto "github.com/prometheus/client_model/go"
)

// Manager owns every census metric registered on one registry.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	customLabels     map[string]string
	metricPrefix     string
	registry         prometheus.Registerer

	// Report flow
	reportsTotal       *prometheus.CounterVec
	rejectedReports    *prometheus.CounterVec
	notificationsTotal *prometheus.CounterVec
	listenerFailures   *prometheus.CounterVec
	fanoutDuration     prometheus.Histogram

	// Registry state
	registeredListeners *prometheus.GaugeVec

	// Listener state
	topkObservations prometheus.Counter
}

var (
	globalManager  atomic.Pointer[Manager]             //nolint:gochecknoglobals // singleton metrics manager
	customRegistry atomic.Pointer[prometheus.Registry] //nolint:gochecknoglobals // registry backing the singleton
)

func init() { //nolint:gochecknoinits // global metrics setup
	Reset()
}

// Reset replaces the global manager with a fresh one registered on a new
// registry and returns that registry. Options are applied on top of the
// defaults; WithPrometheusRegistry is ignored.
func Reset(opts ...Option) *prometheus.Registry {
	reg := prometheus.NewRegistry()
	opts = append(opts, WithPrometheusRegistry(reg))
	m := NewManager(opts...)
	customRegistry.Store(reg)
	globalManager.Store(m)
	return reg
}

// NewManager creates a metrics manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "census",
		subsystem:        "reports",
		histogramBuckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 50, 100},
		enabled:          true,
		customLabels:     make(map[string]string),
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()
	return m
}

func (m *Manager) name(n string) string {
	if m.metricPrefix == "" {
		return n
	}
	return m.metricPrefix + "_" + n
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)
	labels := prometheus.Labels(m.customLabels)

	m.reportsTotal = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("reports_total"),
		Help:        "Total number of accepted city reports by office",
		ConstLabels: labels,
	}, []string{"office"})

	m.rejectedReports = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("rejected_reports_total"),
		Help:        "Total number of rejected report or office arguments by reason",
		ConstLabels: labels,
	}, []string{"reason"})

	m.notificationsTotal = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("notifications_total"),
		Help:        "Total number of listener notifications delivered by office",
		ConstLabels: labels,
	}, []string{"office"})

	m.listenerFailures = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("listener_failures_total"),
		Help:        "Total number of listener notifications that returned an error",
		ConstLabels: labels,
	}, []string{"office"})

	m.fanoutDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("fanout_duration_milliseconds"),
		Help:        "Time spent notifying every listener of one report",
		Buckets:     m.histogramBuckets,
		ConstLabels: labels,
	})

	m.registeredListeners = auto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("registered_listeners"),
		Help:        "Current number of listeners registered on an office",
		ConstLabels: labels,
	}, []string{"office"})

	m.topkObservations = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("topk_observations_total"),
		Help:        "Total number of records appended to top-k listener histories",
		ConstLabels: labels,
	})
}

func current() *Manager {
	m := globalManager.Load()
	if m == nil || !m.enabled {
		return nil
	}
	return m
}

func officeLabel(office int) string {
	return strconv.Itoa(office)
}

// RecordReport increments the accepted reports counter for an office.
func RecordReport(office int) {
	if m := current(); m != nil {
		m.reportsTotal.WithLabelValues(officeLabel(office)).Inc()
	}
}

// RecordRejectedReport increments the rejected arguments counter.
func RecordRejectedReport(reason string) {
	if m := current(); m != nil {
		m.rejectedReports.WithLabelValues(reason).Inc()
	}
}

// RecordNotification increments the delivered notifications counter.
func RecordNotification(office int) {
	if m := current(); m != nil {
		m.notificationsTotal.WithLabelValues(officeLabel(office)).Inc()
	}
}

// RecordListenerFailure increments the failed notifications counter.
func RecordListenerFailure(office int) {
	if m := current(); m != nil {
		m.listenerFailures.WithLabelValues(officeLabel(office)).Inc()
	}
}

// RecordFanoutDuration records the duration of one fan-out in milliseconds.
func RecordFanoutDuration(ms float64) {
	if m := current(); m != nil {
		m.fanoutDuration.Observe(ms)
	}
}

// UpdateRegisteredListeners sets the registry size of an office.
func UpdateRegisteredListeners(office, count int) {
	if m := current(); m != nil {
		m.registeredListeners.WithLabelValues(officeLabel(office)).Set(float64(count))
	}
}

// RecordTopKObservation increments the top-k history counter.
func RecordTopKObservation() {
	if m := current(); m != nil {
		m.topkObservations.Inc()
	}
}

// GetRegistry returns the registry backing the global manager.
func GetRegistry() *prometheus.Registry {
	return customRegistry.Load()
}

// Summary gathers the global registry and folds every family into one value:
// counters and gauges are summed across label sets, histograms report their
// sample count.
func Summary() (map[string]float64, error) {
	families, err := GetRegistry().Gather()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrGatherFailed, err)
	}
	out := make(map[string]float64, len(families))
	for _, mf := range families {
		var total float64
		for _, metric := range mf.GetMetric() {
			total += value(mf.GetType(), metric)
		}
		out[mf.GetName()] = total
	}
	return out, nil
}

func value(t dto.MetricType, metric *dto.Metric) float64 {
	switch t {
	case dto.MetricType_COUNTER:
		return metric.GetCounter().GetValue()
	case dto.MetricType_GAUGE:
		return metric.GetGauge().GetValue()
	case dto.MetricType_HISTOGRAM:
		return float64(metric.GetHistogram().GetSampleCount())
	default:
		return 0
	}
}
