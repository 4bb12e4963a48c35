package app

import (
	"os"
	"strings"
)

// Config описывает настройки запуска сервиса заказов.
type Config struct {
	// HTTPAddr — адрес REST API.
	HTTPAddr string
	// MetricsAddr — адрес HTTP-сервера метрик и health-проб.
	MetricsAddr string
	// PostgresDSN — строка подключения; пустая означает in-memory хранилище.
	PostgresDSN string
	// KafkaBrokers — адреса брокеров; пусто означает работу без публикации событий.
	KafkaBrokers []string
	// JWTSecret — общий секрет проверки bearer-токенов.
	JWTSecret string
}

// DefaultConfig возвращает базовые адреса и пустые внешние зависимости.
func DefaultConfig() Config {
	return Config{
		HTTPAddr:    ":8081",
		MetricsAddr: ":9090",
	}
}

// ReadConfig формирует конфигурацию из переменных окружения OMS_*.
func ReadConfig() Config {
	cfg := DefaultConfig()
	if v := os.Getenv("OMS_HTTP_ADDR"); v != "" {
		cfg.HTTPAddr = v
	}
	if v := os.Getenv("OMS_METRICS_ADDR"); v != "" {
		cfg.MetricsAddr = v
	}
	if v := os.Getenv("OMS_POSTGRES_DSN"); v != "" {
		cfg.PostgresDSN = v
	}
	if v := os.Getenv("OMS_KAFKA_BROKERS"); v != "" {
		cfg.KafkaBrokers = strings.Split(v, ",")
	}
	if v := os.Getenv("OMS_JWT_SECRET"); v != "" {
		cfg.JWTSecret = v
	}
	return cfg
}
