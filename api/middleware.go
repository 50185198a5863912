package api

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/kgcas/alumni-connect-api/models"
)

type contextKey string

const (
	userIDKey contextKey = "userID"
	roleKey   contextKey = "role"
)

// Auth holds the secret used to sign and verify session tokens
type Auth struct {
	Secret []byte
}

// Middleware authenticates the bearer token and injects the caller's
// id and role into the request context
func (a Auth) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		claims, err := a.parseToken(r)
		if err != nil {
			zap.S().Debugw("unauthorized",
				"url", r.URL,
				"error", err)
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"error": "unauthorized"}`))
			return
		}

		next.ServeHTTP(w, r.WithContext(ContextWithSession(r.Context(), claims.Subject, claims.Role)))
	})
}

// AdminMiddleware authenticates the bearer token and additionally
// requires the Admin role. Admin-only routes must always be registered
// behind this, never behind Middleware alone.
func (a Auth) AdminMiddleware(next http.Handler) http.Handler {
	return a.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if RoleFromContext(r.Context()) != models.RoleAdmin {
			zap.S().Warnw("admin route denied",
				"url", r.URL,
				"role", RoleFromContext(r.Context()))
			w.WriteHeader(http.StatusForbidden)
			w.Write([]byte(`{"error": "admin access required"}`))
			return
		}
		next.ServeHTTP(w, r)
	}))
}

// SessionClaims are the claims carried by a session token
type SessionClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

func (a Auth) parseToken(r *http.Request) (*SessionClaims, error) {
	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return nil, fmt.Errorf("missing bearer token")
	}
	raw := strings.TrimPrefix(header, "Bearer ")

	claims := &SessionClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return a.Secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}

// ContextWithSession returns a context carrying the caller's id and role
func ContextWithSession(ctx context.Context, userID, role string) context.Context {
	ctx = context.WithValue(ctx, userIDKey, userID)
	return context.WithValue(ctx, roleKey, role)
}

// UserIDFromContext returns the authenticated caller's id, or "" when
// the request did not pass through Middleware
func UserIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(userIDKey).(string)
	return id
}

// RoleFromContext returns the authenticated caller's role, or "" when
// the request did not pass through Middleware
func RoleFromContext(ctx context.Context) string {
	role, _ := ctx.Value(roleKey).(string)
	return role
}
