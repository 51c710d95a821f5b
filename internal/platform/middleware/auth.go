package middleware

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"partnerdesk/internal/identity"
)

// TokenValidator validates a bearer token and returns the caller it encodes.
type TokenValidator interface {
	ValidateToken(tokenString string) (identity.Caller, error)
}

type contextKeyCaller struct{}

// ContextKeyCaller is exported for use in handler tests.
var ContextKeyCaller = contextKeyCaller{}

// GetCaller retrieves the authenticated caller from the context. The zero
// Caller is returned when no auth middleware ran.
func GetCaller(ctx context.Context) identity.Caller {
	caller, _ := ctx.Value(ContextKeyCaller).(identity.Caller)
	return caller
}

// WithCaller stores the caller in context. Exposed for tests.
func WithCaller(ctx context.Context, caller identity.Caller) context.Context {
	return context.WithValue(ctx, ContextKeyCaller, caller)
}

// RequireAuth validates the Authorization header and puts the caller into the
// request context. Requests without a valid bearer token get 401.
func RequireAuth(validator TokenValidator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok {
				writeUnauthorized(w, "missing bearer token")
				return
			}
			caller, err := validator.ValidateToken(token)
			if err != nil {
				logger.WarnContext(ctx, "unauthorized access - invalid token",
					"error", err,
					"request_id", GetRequestID(ctx),
				)
				writeUnauthorized(w, "invalid or expired token")
				return
			}
			next.ServeHTTP(w, r.WithContext(WithCaller(ctx, caller)))
		})
	}
}

func writeUnauthorized(w http.ResponseWriter, description string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error":             "unauthorized",
		"error_description": description,
	})
}
