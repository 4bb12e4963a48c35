package gateway

import (
	"fmt"
	"net/url"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/ordermgmt/internal/auth"
)

// Config описывает маршрутизацию шлюза.
type Config struct {
	// OrderServiceURL — базовый адрес сервиса заказов.
	OrderServiceURL string
	// JWTSecret — общий секрет проверки bearer-токенов.
	JWTSecret string
}

// New собирает echo-приложение шлюза: pipeline из JWT-проверки и
// reverse proxy на сервис заказов. Проверенный subject уходит вниз
// в заголовке X-User-Id; запрос без валидного токена дальше шлюза не идёт.
func New(cfg Config, logger *log.Entry) (*echo.Echo, error) {
	if logger == nil {
		logger = log.WithField("component", "gateway")
	}

	target, err := url.Parse(cfg.OrderServiceURL)
	if err != nil {
		return nil, fmt.Errorf("parse order service url: %w", err)
	}

	validator := auth.NewTokenValidator(cfg.JWTSecret, logger.WithField("layer", "auth"))

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(auth.GatewayMiddleware(validator, logger))
	e.Use(middleware.Proxy(middleware.NewRoundRobinBalancer([]*middleware.ProxyTarget{
		{URL: target},
	})))

	return e, nil
}
