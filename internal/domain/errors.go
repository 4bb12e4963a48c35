package domain

import (
	"errors"
	"fmt"
)

var (
	// Ошибка отсутствующего идентификатора клиента.
	ErrCustomerRequired = errors.New("customer_id is required")
	// Ошибка отсутствующего email клиента.
	ErrCustomerEmailRequired = errors.New("customer_email is required")
	// Ошибка отсутствующего бизнес-номера заказа.
	ErrOrderNumberRequired = errors.New("order_number is required")
	// Ошибка отсутствия хотя бы одного товара в заказе.
	ErrItemsRequired = errors.New("order must contain at least one item")
	// Ошибка при некорректном количестве товара (< 1).
	ErrItemQtyInvalid = errors.New("item qty must be at least one")
	// Ошибка, если цена позиции не положительная.
	ErrItemPriceInvalid = errors.New("item price must be positive")
	// Ошибка несоответствия subtotal позиции произведению qty * price.
	ErrSubtotalMismatch = errors.New("item subtotal does not match qty * price")
	// Ошибка несоответствия суммы заказа и сумм позиций.
	ErrAmountMismatch = errors.New("order total does not match items sum")
	// ErrUnknownStatus возвращается при неизвестном значении статуса.
	ErrUnknownStatus = errors.New("unknown order status")
	// ErrOrderNotFound возвращается, если заказ не найден в репозитории.
	ErrOrderNotFound = errors.New("order not found")
	// ErrOrderExists возвращается при конфликте уникальности при создании.
	ErrOrderExists = errors.New("order already exists")
	// ErrInvalidTransition возвращается при попытке отменить заказ из терминального статуса.
	ErrInvalidTransition = errors.New("invalid transition")
)

// NotFoundError уточняет, по какому ключу заказ не был найден.
type NotFoundError struct {
	Key string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("order not found: %s", e.Key)
}

// Unwrap позволяет errors.Is(err, ErrOrderNotFound).
func (e *NotFoundError) Unwrap() error {
	return ErrOrderNotFound
}

// NewNotFound создаёт доменную ошибку "заказ не найден" с ключом поиска.
func NewNotFound(key string) error {
	return &NotFoundError{Key: key}
}

// InvalidTransitionError описывает запрещённый переход статуса.
type InvalidTransitionError struct {
	From OrderStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid transition: cannot cancel from %s", e.From)
}

// Unwrap позволяет errors.Is(err, ErrInvalidTransition).
func (e *InvalidTransitionError) Unwrap() error {
	return ErrInvalidTransition
}

// NewInvalidTransition создаёт ошибку отмены из терминального статуса.
func NewInvalidTransition(from OrderStatus) error {
	return &InvalidTransitionError{From: from}
}
