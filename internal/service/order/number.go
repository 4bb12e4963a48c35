package order

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// GenerateOrderNumber возвращает новый бизнес-номер заказа вида
// ORD-<unix-millis>-<disambiguator>. Временная компонента даёт читаемость
// и грубую упорядоченность, uuid-хвост делает вероятность коллизии
// пренебрежимо малой даже при создании заказов в один миллисекундный тик.
func GenerateOrderNumber() string {
	return fmt.Sprintf("ORD-%d-%s", time.Now().UnixMilli(), uuid.NewString()[:8])
}
