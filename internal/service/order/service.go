package order

import (
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/ordermgmt/internal/domain"
	"github.com/vladislavdragonenkov/ordermgmt/internal/messaging/kafka"
	"github.com/vladislavdragonenkov/ordermgmt/internal/metrics"
)

// Service — оркестратор жизненного цикла заказа. Координирует хранилище,
// кэш чтения и публикацию событий как один логический unit of work.
//
// Запись в хранилище и публикация события — два последовательных,
// независимо-отказывающих шага: событие публикуется только после успешного
// persist, а неудача публикации логируется и не откатывает запись.
type Service struct {
	repo      domain.OrderRepository
	cache     domain.OrderCache
	publisher domain.EventPublisher
	logger    *log.Entry
	metrics   *metrics.OrderMetrics
}

// NewService конструирует оркестратор с зависимостями.
func NewService(
	repo domain.OrderRepository,
	cache domain.OrderCache,
	publisher domain.EventPublisher,
	logger *log.Entry,
) *Service {
	if logger == nil {
		logger = log.New().WithField("component", "order-service")
	}
	return &Service{
		repo:      repo,
		cache:     cache,
		publisher: publisher,
		logger:    logger,
		metrics:   metrics.NewOrderMetrics(),
	}
}

// NewServiceWithoutMetrics конструирует оркестратор без метрик (для тестов).
func NewServiceWithoutMetrics(
	repo domain.OrderRepository,
	cache domain.OrderCache,
	publisher domain.EventPublisher,
	logger *log.Entry,
) *Service {
	if logger == nil {
		logger = log.New().WithField("component", "order-service")
	}
	return &Service{
		repo:      repo,
		cache:     cache,
		publisher: publisher,
		logger:    logger,
	}
}

// CreateOrder создаёт заказ: генерирует бизнес-номер, считает суммы,
// сохраняет заказ с позициями одной durable-записью и публикует
// ORDER_CREATED. Возвращает заказ с присвоенным суррогатным ID.
func (s *Service) CreateOrder(customerID, customerEmail, shippingAddress string, items []domain.NewItemInput) (domain.Order, error) {
	now := time.Now().UTC()
	order, err := domain.NewOrder(GenerateOrderNumber(), customerID, customerEmail, shippingAddress, items, now)
	if err != nil {
		return domain.Order{}, err
	}

	if err := s.repo.Create(&order); err != nil {
		return domain.Order{}, err
	}

	s.logger.WithFields(log.Fields{
		"order_id":     order.ID,
		"order_number": order.OrderNumber,
	}).Info("order created")
	s.metrics.RecordOrderCreated()

	s.publish(kafka.NewOrderCreatedEvent(order.OrderNumber, order.CustomerID, order.CustomerEmail, order.TotalMinor))

	return order, nil
}

// GetOrderByID возвращает заказ по суррогатному ID через read-through кэш.
func (s *Service) GetOrderByID(id string) (domain.Order, error) {
	return s.getCached(id, func() (domain.Order, error) {
		return s.repo.GetByID(id)
	})
}

// GetOrderByNumber возвращает заказ по бизнес-номеру через read-through кэш.
func (s *Service) GetOrderByNumber(orderNumber string) (domain.Order, error) {
	return s.getCached(orderNumber, func() (domain.Order, error) {
		return s.repo.GetByNumber(orderNumber)
	})
}

// getCached реализует read-through политику: hit — отдаём снапшот,
// miss — читаем из хранилища вместе с позициями и кладём в кэш.
func (s *Service) getCached(key string, load func() (domain.Order, error)) (domain.Order, error) {
	if order, ok := s.cache.Get(key); ok {
		s.metrics.RecordCacheHit()
		return order, nil
	}
	s.metrics.RecordCacheMiss()

	order, err := load()
	if err != nil {
		return domain.Order{}, err
	}

	s.cache.Put(key, order)
	return order, nil
}

// ListOrders возвращает страницу всех заказов без кэширования:
// пространство ключей списков не ограничено.
func (s *Service) ListOrders(page domain.PageRequest) (domain.OrderPage, error) {
	return s.repo.List(page)
}

// ListOrdersByCustomer возвращает страницу заказов клиента.
func (s *Service) ListOrdersByCustomer(customerID string, page domain.PageRequest) (domain.OrderPage, error) {
	return s.repo.ListByCustomer(customerID, page)
}

// UpdateOrderStatus переводит заказ в новый статус.
// Текущее состояние читается напрямую из хранилища, минуя кэш: мутация
// по устаревшему снапшоту недопустима. Целевой статус устанавливается
// без проверки смежности переходов; охраняется только отмена.
func (s *Service) UpdateOrderStatus(id string, newStatus domain.OrderStatus) (domain.Order, error) {
	current, err := s.repo.GetByID(id)
	if err != nil {
		return domain.Order{}, err
	}
	previous := current.Status

	updated, err := s.repo.UpdateStatus(id, newStatus)
	if err != nil {
		return domain.Order{}, err
	}

	s.evict(updated)

	s.logger.WithFields(log.Fields{
		"order_number": updated.OrderNumber,
		"previous":     previous,
		"new":          newStatus,
	}).Info("order status changed")
	s.metrics.RecordStatusUpdate()

	s.publish(kafka.NewOrderStatusUpdatedEvent(
		updated.OrderNumber, updated.CustomerID, updated.CustomerEmail,
		string(previous), string(newStatus),
	))

	return updated, nil
}

// CancelOrder отменяет заказ. Из статусов SHIPPED и DELIVERED отмена
// запрещена: возвращается доменная ошибка, ни мутации, ни события нет.
func (s *Service) CancelOrder(id string) error {
	current, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}

	if current.Status.IsTerminalForCancel() {
		return domain.NewInvalidTransition(current.Status)
	}

	updated, err := s.repo.UpdateStatus(id, domain.OrderStatusCancelled)
	if err != nil {
		return err
	}

	s.evict(updated)

	s.logger.WithField("order_number", updated.OrderNumber).Info("order canceled")
	s.metrics.RecordOrderCanceled()

	s.publish(kafka.NewOrderCancelledEvent(updated.OrderNumber, updated.CustomerEmail))

	return nil
}

// evict синхронно инвалидирует обе кэш-записи заказа: по ID и по номеру.
func (s *Service) evict(order domain.Order) {
	s.cache.Evict(order.ID)
	s.cache.Evict(order.OrderNumber)
}

// publish отправляет событие best-effort: заказ уже зафиксирован в хранилище,
// поэтому ошибка публикации не возвращается вызывающему — только лог и метрика.
func (s *Service) publish(event *kafka.OrderEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishEvent(kafka.TopicOrderEvents, event.OrderNumber, event); err != nil {
		s.logger.WithError(err).WithFields(log.Fields{
			"event":        event.Event,
			"order_number": event.OrderNumber,
		}).Error("failed to publish lifecycle event")
		s.metrics.RecordPublishFailure()
		return
	}
	s.metrics.RecordEventPublished(string(event.Event))
}
