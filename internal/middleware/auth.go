package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/gulfretail/gulfposgo/internal/utils"
)

type contextKey string

const UserContextKey contextKey = "user"

// Auth verifies Bearer JWT tokens and stores the claims on the request context
func Auth(jwtSecret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				http.Error(w, "Authorization header required", http.StatusUnauthorized)
				return
			}

			// Bearer token
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				http.Error(w, "Invalid authorization header format", http.StatusUnauthorized)
				return
			}

			claims, err := utils.ValidateToken(parts[1], jwtSecret)
			if err != nil {
				http.Error(w, "Invalid or expired token", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), UserContextKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole gates a handler to specific roles. It assumes Auth already ran.
func RequireRole(roles ...string) func(http.Handler) http.Handler {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := ClaimsFrom(r.Context())
			role, _ := claims["role"].(string)
			if !allowed[role] {
				http.Error(w, "Insufficient permissions", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// ClaimsFrom returns the JWT claims stored by Auth, or an empty map
func ClaimsFrom(ctx context.Context) jwt.MapClaims {
	if claims, ok := ctx.Value(UserContextKey).(jwt.MapClaims); ok {
		return claims
	}
	return jwt.MapClaims{}
}

// ActorFrom returns the username from the request claims for audit trails
func ActorFrom(ctx context.Context) string {
	claims := ClaimsFrom(ctx)
	if name, ok := claims["username"].(string); ok && name != "" {
		return name
	}
	if email, ok := claims["email"].(string); ok {
		return email
	}
	return ""
}
