package domain

import "time"

// OrderStatus описывает жизненный цикл заказа.
type OrderStatus string

const (
	// OrderStatusPending — заказ создан, ожидает подтверждения.
	OrderStatusPending OrderStatus = "PENDING"
	// OrderStatusConfirmed — заказ подтверждён.
	OrderStatusConfirmed OrderStatus = "CONFIRMED"
	// OrderStatusProcessing — заказ в обработке на складе.
	OrderStatusProcessing OrderStatus = "PROCESSING"
	// OrderStatusShipped — заказ передан в доставку.
	OrderStatusShipped OrderStatus = "SHIPPED"
	// OrderStatusDelivered — заказ доставлен клиенту.
	OrderStatusDelivered OrderStatus = "DELIVERED"
	// OrderStatusCancelled — заказ отменён до отгрузки.
	OrderStatusCancelled OrderStatus = "CANCELLED"
)

// ParseStatus валидирует строковое представление статуса.
func ParseStatus(s string) (OrderStatus, error) {
	switch OrderStatus(s) {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusProcessing,
		OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return OrderStatus(s), nil
	}
	return "", ErrUnknownStatus
}

// IsTerminalForCancel сообщает, запрещена ли отмена из данного статуса.
// После отгрузки заказ отменить нельзя.
func (s OrderStatus) IsTerminalForCancel() bool {
	return s == OrderStatusShipped || s == OrderStatusDelivered
}

// OrderItem представляет одну позицию заказа.
// Позиции неизменяемы после создания заказа.
type OrderItem struct {
	ID string
	// ProductID — внешний идентификатор товара.
	ProductID string
	// ProductName — название товара на момент заказа.
	ProductName string
	// Qty — количество единиц товара, всегда >= 1.
	Qty int32
	// PriceMinor — цена за единицу в минимальных денежных единицах.
	PriceMinor int64
	// SubtotalMinor = Qty * PriceMinor, вычисляется при создании.
	SubtotalMinor int64
	CreatedAt     time.Time
}

// Order агрегирует состояние заказа и его позиции.
type Order struct {
	// ID — суррогатный идентификатор, присваивается хранилищем при создании.
	ID string
	// OrderNumber — уникальный бизнес-ключ заказа, неизменяем.
	OrderNumber     string
	CustomerID      string
	CustomerEmail   string
	ShippingAddress string
	Status          OrderStatus
	// TotalMinor — производная сумма заказа; равна сумме subtotal всех позиций.
	TotalMinor int64
	Items      []OrderItem
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// NewItemInput описывает входные данные одной позиции при создании заказа.
type NewItemInput struct {
	ProductID   string
	ProductName string
	Qty         int32
	PriceMinor  int64
}

// NewOrder собирает агрегат: считает subtotal каждой позиции и итоговую сумму.
// Позиции прикрепляются только здесь; после создания состав заказа не меняется.
func NewOrder(orderNumber, customerID, customerEmail, shippingAddress string, inputs []NewItemInput, now time.Time) (Order, error) {
	if customerID == "" {
		return Order{}, ErrCustomerRequired
	}
	if customerEmail == "" {
		return Order{}, ErrCustomerEmailRequired
	}
	if len(inputs) == 0 {
		return Order{}, ErrItemsRequired
	}

	items := make([]OrderItem, 0, len(inputs))
	var total int64
	for _, in := range inputs {
		if in.Qty < 1 {
			return Order{}, ErrItemQtyInvalid
		}
		if in.PriceMinor <= 0 {
			return Order{}, ErrItemPriceInvalid
		}
		subtotal := int64(in.Qty) * in.PriceMinor
		items = append(items, OrderItem{
			ProductID:     in.ProductID,
			ProductName:   in.ProductName,
			Qty:           in.Qty,
			PriceMinor:    in.PriceMinor,
			SubtotalMinor: subtotal,
			CreatedAt:     now,
		})
		total += subtotal
	}

	return Order{
		OrderNumber:     orderNumber,
		CustomerID:      customerID,
		CustomerEmail:   customerEmail,
		ShippingAddress: shippingAddress,
		Status:          OrderStatusPending,
		TotalMinor:      total,
		Items:           items,
		CreatedAt:       now,
		UpdatedAt:       now,
	}, nil
}

// ValidateInvariants проверяет базовые инварианты заказа и возвращает список замечаний.
func (o *Order) ValidateInvariants() []error {
	var errs []error

	if o.CustomerID == "" {
		errs = append(errs, ErrCustomerRequired)
	}
	if o.CustomerEmail == "" {
		errs = append(errs, ErrCustomerEmailRequired)
	}
	if o.OrderNumber == "" {
		errs = append(errs, ErrOrderNumberRequired)
	}
	if len(o.Items) == 0 {
		errs = append(errs, ErrItemsRequired)
	}

	// Сверяем сумму заказа с суммой позиций: qty * price.
	var calc int64
	for _, item := range o.Items {
		if item.Qty < 1 {
			errs = append(errs, ErrItemQtyInvalid)
		}
		if item.PriceMinor <= 0 {
			errs = append(errs, ErrItemPriceInvalid)
		}
		if item.SubtotalMinor != int64(item.Qty)*item.PriceMinor {
			errs = append(errs, ErrSubtotalMismatch)
		}
		calc += item.SubtotalMinor
	}
	if calc != o.TotalMinor {
		errs = append(errs, ErrAmountMismatch)
	}

	return errs
}
