package notification_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/IBM/sarama"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/ordermgmt/internal/messaging/kafka"
	"github.com/vladislavdragonenkov/ordermgmt/internal/notification"
)

// stubNotifier фиксирует вызовы для проверок.
type stubNotifier struct {
	confirmations int
	statusUpdates int
	cancellations int
	sendErr       error

	lastOrderNumber string
	lastPrevious    string
	lastNew         string
}

func (s *stubNotifier) SendOrderConfirmation(orderNumber, customerEmail string, totalMinor int64) error {
	s.confirmations++
	s.lastOrderNumber = orderNumber
	return s.sendErr
}

func (s *stubNotifier) SendStatusUpdate(orderNumber, customerEmail, previousStatus, newStatus string) error {
	s.statusUpdates++
	s.lastOrderNumber = orderNumber
	s.lastPrevious = previousStatus
	s.lastNew = newStatus
	return s.sendErr
}

func (s *stubNotifier) SendCancellationNotice(orderNumber, customerEmail string) error {
	s.cancellations++
	s.lastOrderNumber = orderNumber
	return s.sendErr
}

func testLogger() *log.Entry {
	base := log.New()
	base.SetLevel(log.PanicLevel)
	return base.WithField("component", "notification-test")
}

func message(t *testing.T, event *kafka.OrderEvent) *sarama.ConsumerMessage {
	t.Helper()

	payload, err := json.Marshal(event)
	if err != nil {
		t.Fatalf("marshal event: %v", err)
	}
	return &sarama.ConsumerMessage{
		Topic:     kafka.TopicOrderEvents,
		Partition: 0,
		Offset:    1,
		Key:       []byte(event.OrderNumber),
		Value:     payload,
	}
}

func TestDispatch_PerKind(t *testing.T) {
	notifier := &stubNotifier{}
	dispatcher := notification.NewDispatcher(notifier, notification.NewDedupeStore(), testLogger())

	created := kafka.NewOrderCreatedEvent("ORD-1-a", "customer-1", "c@example.com", 15000)
	if err := dispatcher.Dispatch(created); err != nil {
		t.Fatalf("dispatch created failed: %v", err)
	}
	if notifier.confirmations != 1 {
		t.Fatalf("expected 1 confirmation, got %d", notifier.confirmations)
	}

	updated := kafka.NewOrderStatusUpdatedEvent("ORD-1-a", "customer-1", "c@example.com", "PENDING", "CONFIRMED")
	if err := dispatcher.Dispatch(updated); err != nil {
		t.Fatalf("dispatch updated failed: %v", err)
	}
	if notifier.statusUpdates != 1 {
		t.Fatalf("expected 1 status update, got %d", notifier.statusUpdates)
	}
	if notifier.lastPrevious != "PENDING" || notifier.lastNew != "CONFIRMED" {
		t.Fatalf("unexpected transition: %s -> %s", notifier.lastPrevious, notifier.lastNew)
	}

	cancelled := kafka.NewOrderCancelledEvent("ORD-1-a", "c@example.com")
	if err := dispatcher.Dispatch(cancelled); err != nil {
		t.Fatalf("dispatch cancelled failed: %v", err)
	}
	if notifier.cancellations != 1 {
		t.Fatalf("expected 1 cancellation, got %d", notifier.cancellations)
	}
}

func TestDispatch_UnknownKindDropped(t *testing.T) {
	notifier := &stubNotifier{}
	dispatcher := notification.NewDispatcher(notifier, notification.NewDedupeStore(), testLogger())

	event := &kafka.OrderEvent{Event: "ORDER_EXPLODED", OrderNumber: "ORD-1-a", Timestamp: time.Now()}
	if err := dispatcher.Dispatch(event); err != nil {
		t.Fatalf("unknown kind must be dropped without error, got %v", err)
	}
	if notifier.confirmations+notifier.statusUpdates+notifier.cancellations != 0 {
		t.Fatal("unknown kind must not trigger a notification")
	}
}

func TestDispatch_NotifierFailure(t *testing.T) {
	notifier := &stubNotifier{sendErr: errors.New("smtp down")}
	dispatcher := notification.NewDispatcher(notifier, notification.NewDedupeStore(), testLogger())

	event := kafka.NewOrderCreatedEvent("ORD-1-a", "customer-1", "c@example.com", 100)
	if err := dispatcher.Dispatch(event); err == nil {
		t.Fatal("expected notifier error to propagate")
	}
}

func TestHandleMessage_Delivers(t *testing.T) {
	notifier := &stubNotifier{}
	dispatcher := notification.NewDispatcher(notifier, notification.NewDedupeStore(), testLogger())

	event := kafka.NewOrderCreatedEvent("ORD-1-a", "customer-1", "c@example.com", 15000)
	if err := dispatcher.HandleMessage(context.Background(), message(t, event)); err != nil {
		t.Fatalf("handle message failed: %v", err)
	}
	if notifier.confirmations != 1 {
		t.Fatalf("expected 1 confirmation, got %d", notifier.confirmations)
	}
	if notifier.lastOrderNumber != "ORD-1-a" {
		t.Fatalf("unexpected order number %q", notifier.lastOrderNumber)
	}
}

func TestHandleMessage_MalformedPayload(t *testing.T) {
	notifier := &stubNotifier{}
	dispatcher := notification.NewDispatcher(notifier, notification.NewDedupeStore(), testLogger())

	msg := &sarama.ConsumerMessage{Topic: kafka.TopicOrderEvents, Value: []byte("{not json")}
	if err := dispatcher.HandleMessage(context.Background(), msg); err == nil {
		t.Fatal("expected parse error for malformed payload")
	}
	if notifier.confirmations != 0 {
		t.Fatal("malformed payload must not trigger a notification")
	}
}

func TestHandleMessage_DuplicateDeliverySkipped(t *testing.T) {
	notifier := &stubNotifier{}
	dispatcher := notification.NewDispatcher(notifier, notification.NewDedupeStore(), testLogger())

	event := kafka.NewOrderCreatedEvent("ORD-1-a", "customer-1", "c@example.com", 15000)
	msg := message(t, event)

	if err := dispatcher.HandleMessage(context.Background(), msg); err != nil {
		t.Fatalf("first delivery failed: %v", err)
	}
	if err := dispatcher.HandleMessage(context.Background(), msg); err != nil {
		t.Fatalf("redelivery failed: %v", err)
	}

	if notifier.confirmations != 1 {
		t.Fatalf("expected a single notification for redelivered event, got %d", notifier.confirmations)
	}
}
