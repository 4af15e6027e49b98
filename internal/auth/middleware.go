package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"
)

var errNoBearerToken = errors.New("auth: missing bearer token")

// contextKey is unexported so only this package can read or write the
// authenticated user ID in a request context.
type contextKey string

const userIDKey contextKey = "userID"

// RequireAuth enforces bearer authentication on protected routes.
//
// It reads the Authorization header, validates the JWT, and stores the
// user ID in the request context. Missing header, malformed header, and
// invalid/expired token all produce the same 401 body — the client never
// learns which check failed.
func RequireAuth(tokens *TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, err := extractUserID(r, tokens)
			if err != nil {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"error":"unauthorized","message":"valid authentication required"}` + "\n"))
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserIDFromContext retrieves the authenticated user's ID from the request
// context. Returns ("", false) when the request carried no valid token.
func UserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDKey).(string)
	return id, ok && id != ""
}

// extractUserID reads "Authorization: Bearer <token>" and validates it.
func extractUserID(r *http.Request, tokens *TokenService) (string, error) {
	header := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") || token == "" {
		return "", errNoBearerToken
	}

	return tokens.Validate(strings.TrimSpace(token))
}
