package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/tenderchain/tender-marketplace/internal/models"
	"github.com/tenderchain/tender-marketplace/internal/utils"
)

type contextKey string

const (
	userIDKey   contextKey = "userID"
	categoryKey contextKey = "bidderCategory"
)

// Middleware проверяет заголовок Authorization и добавляет данные пользователя в контекст запроса.
func (a *Auth) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			utils.SendErrorResponse(w, http.StatusUnauthorized, "missing or malformed authorization header")
			return
		}

		claims, err := a.ParseToken(strings.TrimPrefix(authHeader, "Bearer "))
		if err != nil {
			utils.SendErrorResponse(w, http.StatusUnauthorized, "invalid token")
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey, claims.UserID)
		ctx = context.WithValue(ctx, categoryKey, claims.BidderCategory)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// UserIDFromContext возвращает идентификатор пользователя из контекста запроса.
func UserIDFromContext(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(userIDKey).(string)
	return userID, ok
}

// CategoryFromContext возвращает категорию участника из контекста запроса.
func CategoryFromContext(ctx context.Context) (models.BidderCategory, bool) {
	category, ok := ctx.Value(categoryKey).(models.BidderCategory)
	return category, ok
}
