package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"

	"github.com/kgcas/alumni-connect-api/models"
)

var testSecret = []byte("test-secret")

func signToken(t *testing.T, secret []byte, userID, role string, expiresAt time.Time) string {
	t.Helper()
	claims := SessionClaims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	assert.NoError(t, err)
	return signed
}

func TestMiddleware(t *testing.T) {
	auth := Auth{Secret: testSecret}

	tests := []struct {
		name           string
		header         string
		expectedStatus int
	}{
		{
			name:           "valid token",
			header:         "Bearer " + signToken(t, testSecret, "abc123", models.RoleStudent, time.Now().Add(time.Hour)),
			expectedStatus: http.StatusOK,
		},
		{
			name:           "missing header",
			header:         "",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "not a bearer token",
			header:         "Basic dXNlcjpwYXNz",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "garbage token",
			header:         "Bearer not.a.jwt",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "expired token",
			header:         "Bearer " + signToken(t, testSecret, "abc123", models.RoleStudent, time.Now().Add(-time.Hour)),
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "wrong secret",
			header:         "Bearer " + signToken(t, []byte("other-secret"), "abc123", models.RoleStudent, time.Now().Add(time.Hour)),
			expectedStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotUserID, gotRole string
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotUserID = UserIDFromContext(r.Context())
				gotRole = RoleFromContext(r.Context())
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest("GET", "/api/v1/auth/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()

			auth.Middleware(next).ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedStatus == http.StatusOK {
				assert.Equal(t, "abc123", gotUserID)
				assert.Equal(t, models.RoleStudent, gotRole)
			}
		})
	}
}

func TestAdminMiddleware(t *testing.T) {
	auth := Auth{Secret: testSecret}

	tests := []struct {
		name           string
		role           string
		expectedStatus int
	}{
		{name: "admin passes", role: models.RoleAdmin, expectedStatus: http.StatusOK},
		{name: "student refused", role: models.RoleStudent, expectedStatus: http.StatusForbidden},
		{name: "alumni refused", role: models.RoleAlumni, expectedStatus: http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest("GET", "/api/v1/auth/pending-users", nil)
			req.Header.Set("Authorization", "Bearer "+signToken(t, testSecret, "abc123", tt.role, time.Now().Add(time.Hour)))
			w := httptest.NewRecorder()

			auth.AdminMiddleware(next).ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}

func TestAdminMiddlewareRequiresToken(t *testing.T) {
	auth := Auth{Secret: testSecret}

	req := httptest.NewRequest("GET", "/api/v1/auth/pending-users", nil)
	w := httptest.NewRecorder()

	auth.AdminMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run without a token")
	})).ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestContextWithSession(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	ctx := ContextWithSession(req.Context(), "abc123", models.RoleAlumni)

	assert.Equal(t, "abc123", UserIDFromContext(ctx))
	assert.Equal(t, models.RoleAlumni, RoleFromContext(ctx))

	// a bare context resolves to empty values, not a panic
	assert.Empty(t, UserIDFromContext(req.Context()))
	assert.Empty(t, RoleFromContext(req.Context()))
}
