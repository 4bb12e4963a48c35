package auth

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"
)

const (
	// TrustHeader — заголовок, через который шлюз передаёт проверенный subject
	// нижестоящим сервисам.
	TrustHeader = "X-User-Id"
	// principalKey — ключ принципала в контексте запроса.
	principalKey = "auth.principal"
)

// OpenPaths — статический список префиксов, не требующих аутентификации:
// выдача токенов, health/метрики, документация API.
var OpenPaths = []string{
	"/api/v1/auth/",
	"/actuator/",
	"/swagger-ui",
	"/v3/api-docs",
	"/api/v1/orders/health",
}

func isOpenPath(path string) bool {
	for _, prefix := range OpenPaths {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// GatewayMiddleware — пограничная проверка на шлюзе: запрос без валидного
// токена завершается 401 и до сервисов не доходит. При успехе проверенный
// subject прокидывается в TrustHeader.
func GatewayMiddleware(validator *TokenValidator, logger *log.Entry) echo.MiddlewareFunc {
	if logger == nil {
		logger = log.WithField("component", "gateway-auth")
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if isOpenPath(c.Request().URL.Path) {
				return next(c)
			}

			subject, err := validator.Validate(c.Request().Header.Get(echo.HeaderAuthorization))
			if err != nil {
				logger.WithError(err).WithField("path", c.Request().URL.Path).Warn("request rejected")
				return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
			}

			c.Request().Header.Set(TrustHeader, subject.Principal)
			return next(c)
		}
	}
}

// ServiceMiddleware — вторая линия проверки в самом сервисе заказов.
// Невалидный токен не блокирует запрос, а лишь оставляет принципала пустым:
// отказ происходит на шлюзе, сервис повторяет проверку для defense in depth.
func ServiceMiddleware(validator *TokenValidator, logger *log.Entry) echo.MiddlewareFunc {
	if logger == nil {
		logger = log.WithField("component", "service-auth")
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			if header != "" {
				if subject, err := validator.Validate(header); err == nil {
					c.Set(principalKey, subject.Principal)
				} else {
					logger.WithError(err).Debug("service-side token check failed")
				}
			}
			return next(c)
		}
	}
}

// PrincipalFrom возвращает аутентифицированного принципала запроса.
// Сначала смотрим локально проверенный токен, затем trust-заголовок шлюза.
func PrincipalFrom(c echo.Context) string {
	if p, ok := c.Get(principalKey).(string); ok && p != "" {
		return p
	}
	return c.Request().Header.Get(TrustHeader)
}
