package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// OrderMetrics содержит метрики жизненного цикла заказов.
type OrderMetrics struct {
	// Счётчики мутаций
	ordersCreated  prometheus.Counter
	ordersCanceled prometheus.Counter
	statusUpdates  prometheus.Counter

	// Публикация событий
	eventsPublished *prometheus.CounterVec
	publishFailures prometheus.Counter

	// Кэш чтения
	cacheHits   prometheus.Counter
	cacheMisses prometheus.Counter
}

// NewOrderMetrics создаёт и регистрирует метрики заказов.
func NewOrderMetrics() *OrderMetrics {
	return newOrderMetricsWithRegisterer(prometheus.DefaultRegisterer)
}

func newOrderMetricsWithRegisterer(registerer prometheus.Registerer) *OrderMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	return &OrderMetrics{
		ordersCreated: registerCounter(registerer, prometheus.CounterOpts{
			Name: "ordermgmt_orders_created_total",
			Help: "Total number of orders created",
		}),
		ordersCanceled: registerCounter(registerer, prometheus.CounterOpts{
			Name: "ordermgmt_orders_canceled_total",
			Help: "Total number of orders canceled",
		}),
		statusUpdates: registerCounter(registerer, prometheus.CounterOpts{
			Name: "ordermgmt_order_status_updates_total",
			Help: "Total number of order status updates",
		}),
		eventsPublished: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "ordermgmt_events_published_total",
			Help: "Total number of lifecycle events published grouped by kind",
		}, []string{"kind"}),
		publishFailures: registerCounter(registerer, prometheus.CounterOpts{
			Name: "ordermgmt_event_publish_failures_total",
			Help: "Total number of lifecycle events that failed to publish after a successful persist",
		}),
		cacheHits: registerCounter(registerer, prometheus.CounterOpts{
			Name: "ordermgmt_order_cache_hits_total",
			Help: "Total number of order cache hits",
		}),
		cacheMisses: registerCounter(registerer, prometheus.CounterOpts{
			Name: "ordermgmt_order_cache_misses_total",
			Help: "Total number of order cache misses",
		}),
	}
}

// RecordOrderCreated инкрементирует счётчик созданных заказов.
func (m *OrderMetrics) RecordOrderCreated() {
	if m != nil {
		m.ordersCreated.Inc()
	}
}

// RecordOrderCanceled инкрементирует счётчик отменённых заказов.
func (m *OrderMetrics) RecordOrderCanceled() {
	if m != nil {
		m.ordersCanceled.Inc()
	}
}

// RecordStatusUpdate инкрементирует счётчик смен статуса.
func (m *OrderMetrics) RecordStatusUpdate() {
	if m != nil {
		m.statusUpdates.Inc()
	}
}

// RecordEventPublished инкрементирует счётчик опубликованных событий по kind.
func (m *OrderMetrics) RecordEventPublished(kind string) {
	if m != nil {
		m.eventsPublished.WithLabelValues(kind).Inc()
	}
}

// RecordPublishFailure инкрементирует счётчик неудачных публикаций.
func (m *OrderMetrics) RecordPublishFailure() {
	if m != nil {
		m.publishFailures.Inc()
	}
}

// RecordCacheHit инкрементирует счётчик попаданий в кэш.
func (m *OrderMetrics) RecordCacheHit() {
	if m != nil {
		m.cacheHits.Inc()
	}
}

// RecordCacheMiss инкрементирует счётчик промахов кэша.
func (m *OrderMetrics) RecordCacheMiss() {
	if m != nil {
		m.cacheMisses.Inc()
	}
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
