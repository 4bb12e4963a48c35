package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/ordermgmt/internal/messaging/kafka"
	"github.com/vladislavdragonenkov/ordermgmt/internal/notification"
)

const defaultGroupID = "notification-service-group"

func main() {
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	log.SetLevel(log.InfoLevel)

	_ = godotenv.Load()

	brokersEnv := os.Getenv("OMS_KAFKA_BROKERS")
	if brokersEnv == "" {
		log.Fatal("OMS_KAFKA_BROKERS обязателен для notification-service")
	}
	brokers := strings.Split(brokersEnv, ",")

	groupID := defaultGroupID
	if v := os.Getenv("OMS_CONSUMER_GROUP"); v != "" {
		groupID = v
	}

	logger := log.WithField("component", "notification-service")

	notifier := notification.NewLogNotifier(logger.WithField("layer", "notifier"))
	dispatcher := notification.NewDispatcher(notifier, notification.NewDedupeStore(), logger.WithField("layer", "dispatcher"))

	// DLQ producer — best-effort: без него проваленные сообщения просто
	// логируются и пропускаются.
	var dlqProducer *kafka.Producer
	if producer, err := kafka.NewProducer(brokers); err != nil {
		logger.WithError(err).Warn("failed to create DLQ producer, continuing without DLQ")
	} else {
		dlqProducer = producer
		defer func() {
			if err := producer.Close(); err != nil {
				logger.WithError(err).Warn("failed to close DLQ producer")
			}
		}()
	}

	consumer, err := kafka.NewConsumerWithDLQ(
		brokers,
		groupID,
		[]string{kafka.TopicOrderEvents},
		dispatcher.HandleMessage,
		dlqProducer,
	)
	if err != nil {
		log.WithError(err).Fatal("не удалось создать consumer")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := consumer.Start(ctx); err != nil {
		log.WithError(err).Fatal("не удалось запустить consumer")
	}

	<-ctx.Done()

	if err := consumer.Stop(); err != nil {
		logger.WithError(err).Warn("consumer остановлен с ошибкой")
	}
	logger.Info("notification-service остановлен")
}
