package notification

import (
	"context"
	"fmt"

	"github.com/IBM/sarama"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/ordermgmt/internal/domain"
	"github.com/vladislavdragonenkov/ordermgmt/internal/messaging/kafka"
)

// Dispatcher превращает события жизненного цикла заказа в уведомления.
// Диспетчеризация идёт по точному совпадению kind; неизвестный kind
// логируется и отбрасывается без повторов.
type Dispatcher struct {
	notifier domain.Notifier
	dedupe   *DedupeStore
	logger   *log.Entry
}

// NewDispatcher создаёт диспетчер уведомлений.
func NewDispatcher(notifier domain.Notifier, dedupe *DedupeStore, logger *log.Entry) *Dispatcher {
	if logger == nil {
		logger = log.WithField("component", "notification-dispatcher")
	}
	return &Dispatcher{
		notifier: notifier,
		dedupe:   dedupe,
		logger:   logger,
	}
}

// HandleMessage — обработчик для kafka.Consumer. Ошибка возвращается
// consumer-у только для поврежденного payload и провалившейся отправки;
// offset в любом случае продвигается вызывающей стороной.
func (d *Dispatcher) HandleMessage(_ context.Context, message *sarama.ConsumerMessage) error {
	event, err := kafka.ParseOrderEvent(message)
	if err != nil {
		return fmt.Errorf("parse order event: %w", err)
	}

	d.logger.WithFields(log.Fields{
		"event":        event.Event,
		"order_number": event.OrderNumber,
		"partition":    message.Partition,
		"offset":       message.Offset,
	}).Info("received event")

	if d.dedupe != nil && !d.dedupe.MarkProcessed(event) {
		d.logger.WithFields(log.Fields{
			"event":        event.Event,
			"order_number": event.OrderNumber,
		}).Info("duplicate delivery, notification skipped")
		return nil
	}

	return d.Dispatch(event)
}

// Dispatch вызывает обработчик по kind события.
func (d *Dispatcher) Dispatch(event *kafka.OrderEvent) error {
	var err error
	switch event.Event {
	case kafka.EventKindOrderCreated:
		err = d.notifier.SendOrderConfirmation(event.OrderNumber, event.CustomerEmail, event.TotalMinor)
	case kafka.EventKindOrderStatusUpdated:
		err = d.notifier.SendStatusUpdate(event.OrderNumber, event.CustomerEmail, event.PreviousStatus, event.NewStatus)
	case kafka.EventKindOrderCancelled:
		err = d.notifier.SendCancellationNotice(event.OrderNumber, event.CustomerEmail)
	default:
		d.logger.WithField("event", event.Event).Warn("unknown event kind, dropping")
		return nil
	}

	if err != nil {
		return fmt.Errorf("handle %s for order %s: %w", event.Event, event.OrderNumber, err)
	}
	return nil
}
