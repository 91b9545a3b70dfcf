package server

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cryptolotto/lotto-backend/app/shared/authn"
)

const testSecret = "jwt-test-secret"

func signToken(t *testing.T, secret, subject, role string, expiresIn time.Duration) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiresIn)),
		},
	})
	raw, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return raw
}

func identityEcho(t *testing.T) (http.Handler, *string, *string) {
	var userID, role string
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID = authn.UserID(r.Context())
		role = authn.Role(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	return h, &userID, &role
}

func TestAuthenticate(t *testing.T) {
	tests := []struct {
		name       string
		authHeader string
		wantStatus int
		wantUser   string
		wantRole   string
	}{
		{
			name:       "valid token",
			authHeader: "Bearer " + signToken(t, testSecret, "user_1234", "user", time.Hour),
			wantStatus: http.StatusOK,
			wantUser:   "user_1234",
			wantRole:   authn.RoleUser,
		},
		{
			name:       "admin role carries through",
			authHeader: "Bearer " + signToken(t, testSecret, "ops_1", "admin", time.Hour),
			wantStatus: http.StatusOK,
			wantUser:   "ops_1",
			wantRole:   authn.RoleAdmin,
		},
		{
			name:       "missing role defaults to user",
			authHeader: "Bearer " + signToken(t, testSecret, "user_1234", "", time.Hour),
			wantStatus: http.StatusOK,
			wantUser:   "user_1234",
			wantRole:   authn.RoleUser,
		},
		{
			name:       "no header",
			authHeader: "",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "wrong scheme",
			authHeader: "Basic abc123",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "wrong secret",
			authHeader: "Bearer " + signToken(t, "other-secret", "user_1234", "user", time.Hour),
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "expired token",
			authHeader: "Bearer " + signToken(t, testSecret, "user_1234", "user", -time.Hour),
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "garbage token",
			authHeader: "Bearer not.a.jwt",
			wantStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inner, userID, role := identityEcho(t)
			handler := Authenticate(testSecret)(inner)

			req := httptest.NewRequest(http.MethodGet, "/api/user/profile", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, tt.wantUser, *userID)
				assert.Equal(t, tt.wantRole, *role)
			}
		})
	}
}

func TestRequireAdmin(t *testing.T) {
	inner := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := RequireAdmin(inner)

	t.Run("admin passes", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/admin/dashboard", nil)
		req = req.WithContext(authn.WithIdentity(req.Context(), "ops_1", authn.RoleAdmin))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("user forbidden", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/admin/dashboard", nil)
		req = req.WithContext(authn.WithIdentity(req.Context(), "user_1234", authn.RoleUser))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("unauthenticated forbidden", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/admin/dashboard", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}

func TestRateLimit(t *testing.T) {
	inner := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	// 1 rps with burst 2: third immediate request must be rejected.
	handler := RateLimit(1)(inner)

	codes := make([]int, 0, 3)
	for range 3 {
		req := httptest.NewRequest(http.MethodPost, "/api/payment/order", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestCorrelationID(t *testing.T) {
	inner := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := CorrelationID(inner)

	t.Run("inbound ID reused", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		req.Header.Set(CorrelationHeader, "corr-42")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, "corr-42", rec.Header().Get(CorrelationHeader))
	})

	t.Run("missing ID generated", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.NotEmpty(t, rec.Header().Get(CorrelationHeader))
	})
}
