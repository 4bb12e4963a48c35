package notification

import (
	"testing"
	"time"

	"github.com/vladislavdragonenkov/ordermgmt/internal/messaging/kafka"
)

func TestDedupeStore_MarksAndRejects(t *testing.T) {
	store := NewDedupeStore()
	event := kafka.NewOrderCreatedEvent("ORD-1-a", "customer-1", "c@example.com", 100)

	if !store.MarkProcessed(event) {
		t.Fatal("first delivery must be accepted")
	}
	if store.MarkProcessed(event) {
		t.Fatal("redelivery of the same event must be rejected")
	}
}

func TestDedupeStore_DistinctEventsAccepted(t *testing.T) {
	store := NewDedupeStore()
	created := kafka.NewOrderCreatedEvent("ORD-1-a", "customer-1", "c@example.com", 100)
	cancelled := kafka.NewOrderCancelledEvent("ORD-1-a", "c@example.com")

	if !store.MarkProcessed(created) {
		t.Fatal("created must be accepted")
	}
	if !store.MarkProcessed(cancelled) {
		t.Fatal("different kind for the same order must be accepted")
	}
}

func TestDedupeStore_ExpiryAllowsReprocessing(t *testing.T) {
	store := NewDedupeStoreWithTTL(time.Minute)
	current := time.Now()
	store.now = func() time.Time { return current }

	event := kafka.NewOrderCreatedEvent("ORD-1-a", "customer-1", "c@example.com", 100)
	if !store.MarkProcessed(event) {
		t.Fatal("first delivery must be accepted")
	}

	current = current.Add(2 * time.Minute)
	if !store.MarkProcessed(event) {
		t.Fatal("after TTL the mark must expire")
	}
	if len(store.seen) != 1 {
		t.Fatalf("expired marks must be purged, got %d entries", len(store.seen))
	}
}
