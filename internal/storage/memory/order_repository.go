package memory

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vladislavdragonenkov/ordermgmt/internal/domain"
)

// orderRepositoryInMemory — in-memory реализация OrderRepository
// для локальной разработки и тестов.
type orderRepositoryInMemory struct {
	mu       sync.RWMutex
	byID     map[string]domain.Order
	byNumber map[string]string // order_number -> id
}

// NewOrderRepository возвращает in-memory репозиторий заказов.
func NewOrderRepository() domain.OrderRepository {
	return &orderRepositoryInMemory{
		byID:     make(map[string]domain.Order),
		byNumber: make(map[string]string),
	}
}

// Create присваивает суррогатный ID и сохраняет заказ вместе с позициями.
func (r *orderRepositoryInMemory) Create(order *domain.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byNumber[order.OrderNumber]; exists {
		return domain.ErrOrderExists
	}

	order.ID = uuid.NewString()
	for i := range order.Items {
		order.Items[i].ID = uuid.NewString()
	}

	// Сохраняем копию с собственным слайсом позиций, чтобы избежать
	// непредсказуемых мутаций извне.
	r.byID[order.ID] = snapshot(*order)
	r.byNumber[order.OrderNumber] = order.ID
	return nil
}

// GetByID возвращает заказ или ошибку not found.
func (r *orderRepositoryInMemory) GetByID(id string) (domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	order, ok := r.byID[id]
	if !ok {
		return domain.Order{}, domain.NewNotFound(id)
	}
	return snapshot(order), nil
}

// GetByNumber возвращает заказ по бизнес-номеру.
func (r *orderRepositoryInMemory) GetByNumber(orderNumber string) (domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byNumber[orderNumber]
	if !ok {
		return domain.Order{}, domain.NewNotFound(orderNumber)
	}
	return snapshot(r.byID[id]), nil
}

// List возвращает страницу всех заказов.
func (r *orderRepositoryInMemory) List(page domain.PageRequest) (domain.OrderPage, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := make([]domain.Order, 0, len(r.byID))
	for _, order := range r.byID {
		all = append(all, order)
	}
	return paginate(all, page), nil
}

// ListByCustomer возвращает страницу заказов клиента.
func (r *orderRepositoryInMemory) ListByCustomer(customerID string, page domain.PageRequest) (domain.OrderPage, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := make([]domain.Order, 0)
	for _, order := range r.byID {
		if order.CustomerID == customerID {
			matched = append(matched, order)
		}
	}
	return paginate(matched, page), nil
}

// UpdateStatus устанавливает новый статус и обновляет updated_at.
func (r *orderRepositoryInMemory) UpdateStatus(id string, status domain.OrderStatus) (domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.byID[id]
	if !ok {
		return domain.Order{}, domain.NewNotFound(id)
	}

	order.Status = status
	order.UpdatedAt = time.Now().UTC()
	r.byID[id] = order
	return snapshot(order), nil
}

// paginate сортирует и нарезает срез по параметрам страницы.
func paginate(orders []domain.Order, page domain.PageRequest) domain.OrderPage {
	sortOrders(orders, page)

	total := int64(len(orders))
	start := page.Offset()
	if start > len(orders) {
		start = len(orders)
	}
	end := start + page.Size
	if page.Size <= 0 || end > len(orders) {
		end = len(orders)
	}

	pageOrders := make([]domain.Order, 0, end-start)
	for _, order := range orders[start:end] {
		pageOrders = append(pageOrders, snapshot(order))
	}

	return domain.OrderPage{
		Orders:     pageOrders,
		Page:       page.Page,
		Size:       page.Size,
		TotalCount: total,
	}
}

func sortOrders(orders []domain.Order, page domain.PageRequest) {
	asc := page.Direction == domain.SortAsc

	less := func(i, j int) bool {
		switch page.SortBy {
		case "order_number":
			return orders[i].OrderNumber < orders[j].OrderNumber
		case "status":
			return orders[i].Status < orders[j].Status
		default:
			if !orders[i].CreatedAt.Equal(orders[j].CreatedAt) {
				return orders[i].CreatedAt.Before(orders[j].CreatedAt)
			}
			return strings.Compare(orders[i].ID, orders[j].ID) < 0
		}
	}

	sort.Slice(orders, func(i, j int) bool {
		if asc {
			return less(i, j)
		}
		return less(j, i)
	})
}

func snapshot(order domain.Order) domain.Order {
	items := make([]domain.OrderItem, len(order.Items))
	copy(items, order.Items)
	order.Items = items
	return order
}

var _ domain.OrderRepository = (*orderRepositoryInMemory)(nil)
