package handlers

import (
	"context"

	"github.com/iudanet/screensync/internal/server/jwt"
)

// contextKey тип для ключей контекста
type contextKey string

// ClaimsKey ключ для хранения claims токена в контексте
const ClaimsKey contextKey = "claims"

// WithClaims returns ctx carrying the authenticated token claims.
func WithClaims(ctx context.Context, claims *jwt.Claims) context.Context {
	return context.WithValue(ctx, ClaimsKey, claims)
}

// GetClaims извлекает claims из контекста запроса
func GetClaims(ctx context.Context) (*jwt.Claims, bool) {
	claims, ok := ctx.Value(ClaimsKey).(*jwt.Claims)
	return claims, ok
}

// GetSubject возвращает subject токена или пустую строку
func GetSubject(ctx context.Context) string {
	if claims, ok := GetClaims(ctx); ok {
		return claims.Subject
	}
	return ""
}
