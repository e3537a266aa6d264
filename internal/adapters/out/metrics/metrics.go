package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "schedule_viewer"

// ScheduleMetrics — счетчики сборки расписаний, HTTP и событий очереди.
// Все методы безопасны для nil-получателя.
type ScheduleMetrics struct {
	assemblyTotal    *prometheus.CounterVec
	unknownTypeTotal prometheus.Counter
	httpLatency      *prometheus.HistogramVec
	directoryEvents  *prometheus.CounterVec
}

func NewScheduleMetrics(reg prometheus.Registerer) *ScheduleMetrics {
	m := &ScheduleMetrics{
		assemblyTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "schedule",
			Name:      "assembly_total",
			Help:      "Total schedule assemblies by view and outcome",
		}, []string{"view", "soft_failed"}),
		unknownTypeTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "schedule",
			Name:      "unknown_appointment_type_total",
			Help:      "Appointments whose type label fell back to the default category",
		}),
		httpLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Latency of HTTP requests",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
		directoryEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "rabbitmq",
			Name:      "directory_events_total",
			Help:      "Directory events consumed from RabbitMQ",
		}, []string{"resource", "action", "outcome"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.assemblyTotal, m.unknownTypeTotal, m.httpLatency, m.directoryEvents)
	return m
}

func (m *ScheduleMetrics) ObserveAssembly(view string, softFailed bool) {
	if m == nil {
		return
	}
	m.assemblyTotal.WithLabelValues(view, strconv.FormatBool(softFailed)).Inc()
}

func (m *ScheduleMetrics) ObserveUnknownAppointmentType() {
	if m == nil {
		return
	}
	m.unknownTypeTotal.Inc()
}

func (m *ScheduleMetrics) ObserveHTTPRequest(method, route string, status int, seconds float64) {
	if m == nil {
		return
	}
	m.httpLatency.WithLabelValues(method, route, strconv.Itoa(status)).Observe(seconds)
}

func (m *ScheduleMetrics) ObserveDirectoryEvent(resource, action, outcome string) {
	if m == nil {
		return
	}
	m.directoryEvents.WithLabelValues(resource, action, outcome).Inc()
}
