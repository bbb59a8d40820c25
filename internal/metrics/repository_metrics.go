package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Результаты операций репозитория для label "result".
const (
	ResultOK       = "ok"
	ResultNotFound = "not_found"
	ResultConflict = "conflict"
	ResultError    = "error"
)

// RepositoryMetrics содержит метрики операций хранилища и публикации событий заказов.
type RepositoryMetrics struct {
	// Счётчики операций
	operations *prometheus.CounterVec

	// Гистограмма времени выполнения
	duration *prometheus.HistogramVec

	// Операции, выполняющиеся прямо сейчас
	inFlight prometheus.Gauge

	// Публикация событий
	eventsPublished prometheus.Counter
	publishFailures prometheus.Counter
}

// NewRepositoryMetrics создаёт метрики и регистрирует их в registerer.
// nil означает prometheus.DefaultRegisterer.
func NewRepositoryMetrics(registerer prometheus.Registerer) *RepositoryMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	return &RepositoryMetrics{
		operations: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "orderstore_repository_operations_total",
			Help: "Total number of repository operations by entity, operation and result",
		}, []string{"entity", "operation", "result"}),
		duration: registerHistogramVec(registerer, prometheus.HistogramOpts{
			Name:    "orderstore_repository_operation_duration_seconds",
			Help:    "Duration of repository operations in seconds",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0},
		}, []string{"entity", "operation"}),
		inFlight: registerGauge(registerer, prometheus.GaugeOpts{
			Name: "orderstore_repository_operations_in_flight",
			Help: "Number of repository operations currently running",
		}),
		eventsPublished: registerCounter(registerer, prometheus.CounterOpts{
			Name: "orderstore_order_events_published_total",
			Help: "Total number of order events published",
		}),
		publishFailures: registerCounter(registerer, prometheus.CounterOpts{
			Name: "orderstore_order_event_publish_failures_total",
			Help: "Total number of order events that failed to publish",
		}),
	}
}

// StartOperation отмечает начало операции и возвращает функцию завершения.
func (m *RepositoryMetrics) StartOperation(entity, operation string) func(result string) {
	if m == nil {
		return func(string) {}
	}

	started := time.Now()
	m.inFlight.Inc()
	return func(result string) {
		m.inFlight.Dec()
		m.duration.WithLabelValues(entity, operation).Observe(time.Since(started).Seconds())
		m.operations.WithLabelValues(entity, operation, result).Inc()
	}
}

// RecordEventPublished увеличивает счётчик опубликованных событий.
func (m *RepositoryMetrics) RecordEventPublished() {
	if m == nil {
		return
	}
	m.eventsPublished.Inc()
}

// RecordPublishFailure увеличивает счётчик неудачных публикаций.
func (m *RepositoryMetrics) RecordPublishFailure() {
	if m == nil {
		return
	}
	m.publishFailures.Inc()
}

func registerCounter(registerer prometheus.Registerer, opts prometheus.CounterOpts) prometheus.Counter {
	collector := prometheus.NewCounter(opts)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(prometheus.Counter)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register counter %q: %v", opts.Name, err))
	}
	return collector
}

func registerCounterVec(registerer prometheus.Registerer, opts prometheus.CounterOpts, labels []string) *prometheus.CounterVec {
	collector := prometheus.NewCounterVec(opts, labels)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(*prometheus.CounterVec)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register counter vec %q: %v", opts.Name, err))
	}
	return collector
}

func registerGauge(registerer prometheus.Registerer, opts prometheus.GaugeOpts) prometheus.Gauge {
	collector := prometheus.NewGauge(opts)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(prometheus.Gauge)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register gauge %q: %v", opts.Name, err))
	}
	return collector
}

func registerHistogramVec(registerer prometheus.Registerer, opts prometheus.HistogramOpts, labels []string) *prometheus.HistogramVec {
	collector := prometheus.NewHistogramVec(opts, labels)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(*prometheus.HistogramVec)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register histogram vec %q: %v", opts.Name, err))
	}
	return collector
}
