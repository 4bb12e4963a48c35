package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

func TestNewOrderMetrics(t *testing.T) {
	m := newOrderMetricsWithRegisterer(prometheus.NewRegistry())

	if m == nil {
		t.Fatal("newOrderMetricsWithRegisterer should not return nil")
	}
	if m.ordersCreated == nil {
		t.Error("ordersCreated counter should not be nil")
	}
	if m.ordersCanceled == nil {
		t.Error("ordersCanceled counter should not be nil")
	}
	if m.statusUpdates == nil {
		t.Error("statusUpdates counter should not be nil")
	}
	if m.eventsPublished == nil {
		t.Error("eventsPublished counter vec should not be nil")
	}
	if m.publishFailures == nil {
		t.Error("publishFailures counter should not be nil")
	}
	if m.cacheHits == nil {
		t.Error("cacheHits counter should not be nil")
	}
	if m.cacheMisses == nil {
		t.Error("cacheMisses counter should not be nil")
	}
}

func TestNewOrderMetrics_ReregisterReusesCollectors(t *testing.T) {
	registry := prometheus.NewRegistry()

	first := newOrderMetricsWithRegisterer(registry)
	// Повторная регистрация не должна паниковать, коллекторы переиспользуются.
	second := newOrderMetricsWithRegisterer(registry)

	if first.ordersCreated != second.ordersCreated {
		t.Error("expected ordersCreated collector to be reused")
	}
	if first.eventsPublished != second.eventsPublished {
		t.Error("expected eventsPublished collector to be reused")
	}
}

func TestRecordMethods(t *testing.T) {
	m := newOrderMetricsWithRegisterer(prometheus.NewRegistry())

	m.RecordOrderCreated()
	m.RecordOrderCanceled()
	m.RecordStatusUpdate()
	m.RecordEventPublished("ORDER_CREATED")
	m.RecordPublishFailure()
	m.RecordCacheHit()
	m.RecordCacheMiss()
}

func TestRecordMethods_NilReceiver(t *testing.T) {
	var m *OrderMetrics

	// Без метрик все записи должны быть no-op, не паникой.
	m.RecordOrderCreated()
	m.RecordOrderCanceled()
	m.RecordStatusUpdate()
	m.RecordEventPublished("ORDER_CREATED")
	m.RecordPublishFailure()
	m.RecordCacheHit()
	m.RecordCacheMiss()
}
