package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/iudanet/screensync/internal/backend"
	"github.com/iudanet/screensync/internal/server/handlers"
	"github.com/iudanet/screensync/internal/server/jwt"
)

// AuthMiddleware создает middleware для проверки bearer токена.
// Claims токена доступны обработчикам через handlers.GetClaims.
func AuthMiddleware(logger *slog.Logger, tokens *jwt.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				logger.Warn("Missing Authorization header", "path", r.URL.Path)
				handlers.WriteError(w, http.StatusUnauthorized, backend.Kind(backend.ErrAuthentication), "missing token")
				return
			}

			// Ожидаем формат: "Bearer <token>"
			scheme, token, ok := strings.Cut(authHeader, " ")
			if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" {
				logger.Warn("Invalid Authorization header format")
				handlers.WriteError(w, http.StatusUnauthorized, backend.Kind(backend.ErrAuthentication), "invalid token format")
				return
			}

			claims, err := tokens.Validate(token)
			if err != nil {
				logger.Warn("Invalid access token", "error", err)
				handlers.WriteError(w, http.StatusUnauthorized, backend.Kind(backend.ErrAuthentication), "invalid token")
				return
			}

			logger.Debug("Request authenticated", "subject", claims.Subject, "scopes", claims.Scopes)
			next.ServeHTTP(w, r.WithContext(handlers.WithClaims(r.Context(), claims)))
		})
	}
}

// RequireScope rejects requests whose token does not grant scope. It must run
// after AuthMiddleware.
func RequireScope(logger *slog.Logger, scope string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := handlers.GetClaims(r.Context())
			if !ok {
				handlers.WriteError(w, http.StatusUnauthorized, backend.Kind(backend.ErrAuthentication), "missing token")
				return
			}
			if !claims.HasScope(scope) {
				logger.Warn("Scope denied", "subject", claims.Subject, "scope", scope, "path", r.URL.Path)
				handlers.WriteError(w, http.StatusForbidden, backend.Kind(backend.ErrAuthorization), "token lacks scope "+scope)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
