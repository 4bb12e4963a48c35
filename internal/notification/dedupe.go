package notification

import (
	"fmt"
	"sync"
	"time"

	"github.com/vladislavdragonenkov/ordermgmt/internal/messaging/kafka"
)

const defaultDedupeTTL = 24 * time.Hour

// DedupeStore помнит идентичности уже обработанных событий, чтобы повторная
// доставка (at-least-once) не приводила к повторным уведомлениям.
// Идентичность события — kind + order_number + timestamp публикации.
type DedupeStore struct {
	mu   sync.Mutex
	seen map[string]time.Time
	ttl  time.Duration
	now  func() time.Time
}

// NewDedupeStore создаёт in-memory store с TTL по умолчанию.
func NewDedupeStore() *DedupeStore {
	return NewDedupeStoreWithTTL(defaultDedupeTTL)
}

// NewDedupeStoreWithTTL создаёт store с заданным временем хранения отметок.
func NewDedupeStoreWithTTL(ttl time.Duration) *DedupeStore {
	return &DedupeStore{
		seen: make(map[string]time.Time),
		ttl:  ttl,
		now:  time.Now,
	}
}

// MarkProcessed отмечает событие обработанным. Возвращает false, если
// событие уже встречалось и уведомление отправлять не нужно.
func (s *DedupeStore) MarkProcessed(event *kafka.OrderEvent) bool {
	key := eventIdentity(event)
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	if expiresAt, ok := s.seen[key]; ok && now.Before(expiresAt) {
		return false
	}
	s.seen[key] = now.Add(s.ttl)

	// Попутно вычищаем истёкшие отметки, чтобы map не рос бесконечно.
	for k, expiresAt := range s.seen {
		if now.After(expiresAt) {
			delete(s.seen, k)
		}
	}

	return true
}

func eventIdentity(event *kafka.OrderEvent) string {
	return fmt.Sprintf("%s|%s|%d", event.Event, event.OrderNumber, event.Timestamp.UnixNano())
}
