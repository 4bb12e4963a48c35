package domain

// OrderCache — read-through кэш материализованных заказов.
// Кэш — оптимизация чтения, не граница корректности: записи инвалидируются
// синхронно при каждой мутации заказа.
type OrderCache interface {
	// Get возвращает снапшот заказа по ключу (ID или order_number).
	Get(key string) (Order, bool)
	// Put сохраняет снапшот заказа под ключом.
	Put(key string, order Order)
	// Evict удаляет запись по ключу.
	Evict(key string)
}

// EventPublisher публикует события жизненного цикла в именованный поток.
// События с одним key доставляются потребителям в порядке публикации.
type EventPublisher interface {
	PublishEvent(topic, key string, event interface{}) error
}

// Notifier — контракт механизма доставки уведомлений клиенту.
// Реализация внешняя; для ядра это непрозрачная send-операция.
type Notifier interface {
	SendOrderConfirmation(orderNumber, customerEmail string, totalMinor int64) error
	SendStatusUpdate(orderNumber, customerEmail, previousStatus, newStatus string) error
	SendCancellationNotice(orderNumber, customerEmail string) error
}
