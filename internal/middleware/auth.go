package middleware

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/devlink/backend/internal/models"
	"github.com/devlink/backend/internal/services"
)

type contextKey string

const UserIDKey contextKey = "userID"

// RequireAuth reads the token from the x-auth-token header, verifies it, and
// puts the caller's user id on the request context. It does no I/O beyond
// signature verification.
func RequireAuth(tokens *services.TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := r.Header.Get("x-auth-token")
			if token == "" {
				writeJSON(w, http.StatusUnauthorized, models.NewErrorResponse("No token, authorization denied"))
				return
			}

			userID, err := tokens.Verify(token)
			if err != nil {
				writeJSON(w, http.StatusUnauthorized, models.NewErrorResponse("Token is not valid"))
				return
			}

			ctx := context.WithValue(r.Context(), UserIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetUserID extracts the authenticated user id from the context.
func GetUserID(ctx context.Context) string {
	userID, ok := ctx.Value(UserIDKey).(string)
	if !ok {
		return ""
	}
	return userID
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}
