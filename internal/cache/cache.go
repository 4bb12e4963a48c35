package cache

import (
	"sync"
	"time"

	"github.com/vladislavdragonenkov/ordermgmt/internal/domain"
)

const defaultTTL = 5 * time.Minute

type entry struct {
	order     domain.Order
	expiresAt time.Time
}

// OrderCache — in-memory реализация read-through кэша заказов.
// Ключом служит либо суррогатный ID, либо order_number; значение —
// снапшот агрегата на момент последней записи.
type OrderCache struct {
	mu      sync.RWMutex
	entries map[string]entry
	ttl     time.Duration
	now     func() time.Time
}

// New создаёт кэш с TTL по умолчанию.
func New() *OrderCache {
	return NewWithTTL(defaultTTL)
}

// NewWithTTL создаёт кэш с заданным временем жизни записей.
func NewWithTTL(ttl time.Duration) *OrderCache {
	return &OrderCache{
		entries: make(map[string]entry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Get возвращает снапшот заказа, если запись существует и не истекла.
func (c *OrderCache) Get(key string) (domain.Order, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok || c.now().After(e.expiresAt) {
		return domain.Order{}, false
	}
	return e.order, true
}

// Put сохраняет снапшот заказа под ключом, перезаписывая существующий.
func (c *OrderCache) Put(key string, order domain.Order) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = entry{order: order, expiresAt: c.now().Add(c.ttl)}
}

// Evict синхронно удаляет запись; вызывается оркестратором при каждой мутации.
func (c *OrderCache) Evict(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

// Len возвращает число записей, включая истёкшие, ещё не вытесненные.
func (c *OrderCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

var _ domain.OrderCache = (*OrderCache)(nil)
