package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"goldloan/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testJWTKey = []byte("test-secret")

func signTestToken(t *testing.T, userID uint, role models.UserRole) string {
	t.Helper()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":  userID,
		"username": "tester",
		"role":     string(role),
		"exp":      time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString(testJWTKey)
	require.NoError(t, err)
	return signed
}

func TestAuthMiddlewareValidToken(t *testing.T) {
	var gotUserID uint
	var gotRole models.UserRole

	handler := AuthMiddleware(testJWTKey)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, role, err := GetUserFromContext(r)
		require.NoError(t, err)
		gotUserID = userID
		gotRole = role
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/loans", nil)
	req.Header.Set("Authorization", "Bearer "+signTestToken(t, 42, models.RoleLoanOfficer))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, uint(42), gotUserID)
	assert.Equal(t, models.RoleLoanOfficer, gotRole)
}

func TestAuthMiddlewareMissingHeader(t *testing.T) {
	handler := AuthMiddleware(testJWTKey)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be called")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/loans", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthMiddlewareInvalidToken(t *testing.T) {
	handler := AuthMiddleware(testJWTKey)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be called")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/loans", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthMiddlewareWrongKey(t *testing.T) {
	handler := AuthMiddleware([]byte("another-secret"))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be called")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/loans", nil)
	req.Header.Set("Authorization", "Bearer "+signTestToken(t, 1, models.RoleAdmin))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
