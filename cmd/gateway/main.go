package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/ordermgmt/internal/gateway"
)

func readConfig() (addr string, cfg gateway.Config) {
	addr = ":8080"
	cfg = gateway.Config{
		OrderServiceURL: "http://localhost:8081",
	}
	if v := os.Getenv("OMS_GATEWAY_ADDR"); v != "" {
		addr = v
	}
	if v := os.Getenv("OMS_ORDER_SERVICE_URL"); v != "" {
		cfg.OrderServiceURL = v
	}
	cfg.JWTSecret = os.Getenv("OMS_JWT_SECRET")
	return addr, cfg
}

func main() {
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	log.SetLevel(log.InfoLevel)

	_ = godotenv.Load()
	addr, cfg := readConfig()
	if cfg.JWTSecret == "" {
		log.Fatal("OMS_JWT_SECRET обязателен для шлюза")
	}

	logger := log.WithField("component", "gateway")
	e, err := gateway.New(cfg, logger)
	if err != nil {
		log.WithError(err).Fatal("не удалось собрать шлюз")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Infof("шлюз слушает %s, upstream %s", addr, cfg.OrderServiceURL)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("шлюз завершился с ошибкой")
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Warn("graceful stop завершился с ошибкой")
	}
	logger.Info("шлюз остановлен")
}
