package auth

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"github.com/chantierpro/chantierpro/pkg/config"
)

// Стандартные ошибки
var (
	ErrInvalidToken  = errors.New("token is invalid")
	ErrExpiredToken  = errors.New("token has expired")
	ErrTokenNotFound = errors.New("token not found")
	ErrInvalidClaims = errors.New("invalid token claims")
)

// Claims содержит информацию о пользователе в JWT.
// Токены выпускает внешний сервис аутентификации, здесь они только проверяются
type Claims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// JWTManager проверяет JWT токены внешнего сервиса аутентификации
type JWTManager struct {
	config *config.JWTConfig
}

// NewJWTManager создает новый менеджер JWT токенов
func NewJWTManager(cfg *config.JWTConfig) *JWTManager {
	return &JWTManager{
		config: cfg,
	}
}

// VerifyToken проверяет валидность JWT токена
func (m *JWTManager) VerifyToken(tokenString string) (*Claims, error) {
	// Парсим токен
	token, err := jwt.ParseWithClaims(
		tokenString,
		&Claims{},
		func(token *jwt.Token) (interface{}, error) {
			// Проверяем алгоритм подписи
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return []byte(m.config.Secret), nil
		},
	)

	if err != nil {
		// Обрабатываем стандартные ошибки
		if errors.Is(err, jwt.ErrTokenMalformed) {
			return nil, ErrInvalidToken
		} else if errors.Is(err, jwt.ErrTokenExpired) || errors.Is(err, jwt.ErrTokenNotValidYet) {
			return nil, ErrExpiredToken
		} else {
			return nil, fmt.Errorf("failed to parse token: %w", err)
		}
	}

	// Получаем claims
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidClaims
	}

	// Токен должен быть выпущен нашим сервисом аутентификации
	if m.config.Issuer != "" && claims.Issuer != m.config.Issuer {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
