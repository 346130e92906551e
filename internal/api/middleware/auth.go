package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/chantierpro/chantierpro/pkg/auth"
	"github.com/chantierpro/chantierpro/pkg/logger"
)

// Ключи контекста с данными аутентифицированного пользователя
const (
	ContextKeyUserID = "user_id"
	ContextKeyEmail  = "user_email"
	ContextKeyRole   = "user_role"
)

// AuthMiddleware предоставляет middleware для проверки JWT-токенов,
// выпущенных внешним сервисом аутентификации
type AuthMiddleware struct {
	jwtManager *auth.JWTManager
	logger     logger.Logger
}

// NewAuthMiddleware создает новый экземпляр AuthMiddleware
func NewAuthMiddleware(jwtManager *auth.JWTManager, logger logger.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		jwtManager: jwtManager,
		logger:     logger,
	}
}

// Authenticate проверяет наличие и валидность JWT токена
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			http.Error(w, "Authorization header required", http.StatusUnauthorized)
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			http.Error(w, "Invalid Authorization header format", http.StatusUnauthorized)
			return
		}

		claims, err := m.jwtManager.VerifyToken(parts[1])
		if err != nil {
			m.logger.Warn("Invalid JWT token", map[string]interface{}{
				"error": err.Error(),
			})
			http.Error(w, "Invalid or expired token", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), ContextKeyUserID, claims.UserID)
		ctx = context.WithValue(ctx, ContextKeyEmail, claims.Email)
		ctx = context.WithValue(ctx, ContextKeyRole, claims.Role)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireRole проверяет, имеет ли пользователь требуемую роль.
// Администраторы имеют доступ ко всем ресурсам
func (m *AuthMiddleware) RequireRole(role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return m.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userRole, ok := r.Context().Value(ContextKeyRole).(string)
			if !ok {
				http.Error(w, "User role not found in context", http.StatusInternalServerError)
				return
			}

			if userRole != role && userRole != "admin" {
				http.Error(w, "Insufficient permissions", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		}))
	}
}
