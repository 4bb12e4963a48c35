package auth

import (
	"errors"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	log "github.com/sirupsen/logrus"
)

const bearerPrefix = "Bearer "

var (
	// ErrMissingCredential возвращается при отсутствии или неверной форме заголовка.
	ErrMissingCredential = errors.New("missing or malformed credential")
	// ErrInvalidCredential возвращается при ошибке подписи или формата токена.
	// Криптографическая причина логируется, но не раскрывается вызывающему.
	ErrInvalidCredential = errors.New("invalid credential")
)

// Subject — аутентифицированный принципал, извлечённый из токена.
type Subject struct {
	// Principal — значение subject claim.
	Principal string
}

// TokenValidator проверяет bearer-токены, подписанные общим симметричным ключом.
// Валидатор не имеет состояния и безопасен для конкурентных вызовов.
type TokenValidator struct {
	secret []byte
	logger *log.Entry
}

// NewTokenValidator создаёт валидатор с общим секретом.
func NewTokenValidator(secret string, logger *log.Entry) *TokenValidator {
	if logger == nil {
		logger = log.WithField("component", "token-validator")
	}
	return &TokenValidator{
		secret: []byte(secret),
		logger: logger,
	}
}

// Validate разбирает значение заголовка Authorization.
// Принимается только схема "Bearer <token>"; проверяются подпись HMAC
// и стандартные временные границы (exp/nbf).
func (v *TokenValidator) Validate(rawHeader string) (Subject, error) {
	if rawHeader == "" || !strings.HasPrefix(rawHeader, bearerPrefix) {
		return Subject{}, ErrMissingCredential
	}

	tokenStr := strings.TrimPrefix(rawHeader, bearerPrefix)

	claims := jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return v.secret, nil
	})
	if err != nil || !token.Valid {
		v.logger.WithError(err).Warn("token validation failed")
		return Subject{}, ErrInvalidCredential
	}

	if claims.Subject == "" {
		v.logger.Warn("token accepted but subject claim is empty")
		return Subject{}, ErrInvalidCredential
	}

	return Subject{Principal: claims.Subject}, nil
}
