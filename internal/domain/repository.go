package domain

// SortDirection задаёт направление сортировки списков.
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// PageRequest описывает параметры постраничной выборки.
type PageRequest struct {
	// Page — номер страницы, начиная с 0.
	Page int
	// Size — размер страницы, всегда > 0.
	Size int
	// SortBy — поле сортировки ("created_at", "order_number", "status").
	SortBy string
	// Direction — направление сортировки; по умолчанию desc по created_at.
	Direction SortDirection
}

// Offset возвращает смещение первой записи страницы.
func (p PageRequest) Offset() int {
	return p.Page * p.Size
}

// OrderPage — одна страница результата со сведениями об общем количестве.
type OrderPage struct {
	Orders     []Order
	Page       int
	Size       int
	TotalCount int64
}

// OrderRepository описывает требования к хранилищу заказов.
type OrderRepository interface {
	// Create сохраняет новый заказ вместе с позициями одной durable-записью
	// и присваивает суррогатный ID. Возвращает ErrOrderExists при конфликте
	// уникальности по order_number.
	Create(order *Order) error
	// GetByID возвращает заказ с позициями или ошибку not found.
	GetByID(id string) (Order, error)
	// GetByNumber возвращает заказ с позициями по бизнес-номеру.
	GetByNumber(orderNumber string) (Order, error)
	// List возвращает страницу всех заказов.
	List(page PageRequest) (OrderPage, error)
	// ListByCustomer возвращает страницу заказов клиента.
	ListByCustomer(customerID string, page PageRequest) (OrderPage, error)
	// UpdateStatus устанавливает новый статус заказа и обновляет updated_at.
	UpdateStatus(id string, status OrderStatus) (Order, error)
}
