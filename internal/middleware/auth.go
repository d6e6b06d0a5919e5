package middleware

import (
	"context"
	"net/http"
	"strings"
	"tower_backend/internal/errs"
	"tower_backend/pkg/resp"
	"tower_backend/pkg/token"
)

type ctxKey struct{}

func WithUserID(ctx context.Context, userID int64) context.Context {
	return context.WithValue(ctx, ctxKey{}, userID)
}

// UserIDFromContext returns the caller set by Auth.
func UserIDFromContext(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(ctxKey{}).(int64)
	return id, ok && id > 0
}

type errorBody struct {
	Code    errs.Code `json:"code"`
	Message string    `json:"message"`
}

// Auth accepts "Authorization: Bearer <jwt>" signed with secretKey and puts
// the user id into the request context.
func Auth(secretKey []byte) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			scheme, tokenStr, ok := strings.Cut(header, " ")
			if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(tokenStr) == "" {
				unauthorized(w, "missing bearer token")
				return
			}

			claims, err := token.VerifyToken(strings.TrimSpace(tokenStr), secretKey)
			if err != nil {
				unauthorized(w, "invalid or expired token")
				return
			}
			userID, err := token.UserID(claims)
			if err != nil {
				unauthorized(w, "invalid token claims")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
		})
	}
}

func unauthorized(w http.ResponseWriter, msg string) {
	resp.WriteJSONResponse(w, http.StatusUnauthorized, map[string]errorBody{
		"error": {Code: "UNAUTHORIZED", Message: msg},
	})
}
