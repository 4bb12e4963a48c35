package notification

import (
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/ordermgmt/internal/domain"
)

// LogNotifier имитирует отправку email-уведомлений записью в лог.
// В production подключается реальный провайдер (SES, SendGrid и т.п.).
type LogNotifier struct {
	logger *log.Entry
}

// NewLogNotifier создаёт notifier, пишущий уведомления в лог.
func NewLogNotifier(logger *log.Entry) *LogNotifier {
	if logger == nil {
		logger = log.WithField("component", "notifier")
	}
	return &LogNotifier{logger: logger}
}

// SendOrderConfirmation отправляет подтверждение создания заказа.
func (n *LogNotifier) SendOrderConfirmation(orderNumber, customerEmail string, totalMinor int64) error {
	n.logger.WithFields(log.Fields{
		"email":        customerEmail,
		"order_number": orderNumber,
		"total_minor":  totalMinor,
	}).Info("order confirmation sent")
	return nil
}

// SendStatusUpdate отправляет уведомление о смене статуса.
func (n *LogNotifier) SendStatusUpdate(orderNumber, customerEmail, previousStatus, newStatus string) error {
	n.logger.WithFields(log.Fields{
		"email":        customerEmail,
		"order_number": orderNumber,
		"previous":     previousStatus,
		"new":          newStatus,
	}).Info("status update sent")
	return nil
}

// SendCancellationNotice отправляет уведомление об отмене заказа.
func (n *LogNotifier) SendCancellationNotice(orderNumber, customerEmail string) error {
	n.logger.WithFields(log.Fields{
		"email":        customerEmail,
		"order_number": orderNumber,
	}).Info("cancellation notice sent")
	return nil
}

var _ domain.Notifier = (*LogNotifier)(nil)
