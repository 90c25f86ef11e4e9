package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"lab-booking-engine/config"
	"lab-booking-engine/internal/domain/entity"
	"lab-booking-engine/pkg/jwt"

	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestJWT() *jwt.JWTService {
	return jwt.NewJWTService(config.JWTConfig{
		Secret:        "test-secret",
		AccessExpiry:  15 * time.Minute,
		RefreshExpiry: time.Hour,
	})
}

func TestAuthenticate(t *testing.T) {
	jwtService := newTestJWT()
	userID := uuid.New()
	token, tokenID, err := jwtService.GenerateAccessToken(userID, "admin@lab.example", entity.RoleIDAdmin)
	require.NoError(t, err)
	refresh, _, err := jwtService.GenerateRefreshToken(userID, "admin@lab.example", entity.RoleIDAdmin)
	require.NoError(t, err)
	tokenKey := "access_token:" + userID.String() + ":" + tokenID

	var seenAdmin bool
	var seenUser uuid.UUID
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenAdmin = IsAdminContext(r.Context())
		seenUser, _ = GetUserIDFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})

	tests := []struct {
		name   string
		header string
		expect func(redismock.ClientMock)
		status int
	}{
		{name: "missing header", status: http.StatusUnauthorized},
		{name: "wrong scheme", header: "Basic abc", status: http.StatusUnauthorized},
		{name: "garbage token", header: "Bearer abc", status: http.StatusUnauthorized},
		{name: "refresh token", header: "Bearer " + refresh, status: http.StatusUnauthorized},
		{
			name:   "revoked",
			header: "Bearer " + token,
			expect: func(m redismock.ClientMock) { m.ExpectExists(tokenKey).SetVal(0) },
			status: http.StatusUnauthorized,
		},
		{
			name:   "valid",
			header: "Bearer " + token,
			expect: func(m redismock.ClientMock) { m.ExpectExists(tokenKey).SetVal(1) },
			status: http.StatusNoContent,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, redisMock := redismock.NewClientMock()
			if tt.expect != nil {
				tt.expect(redisMock)
			}
			m := NewAuthMiddleware(jwtService, client)

			req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			m.Authenticate(next).ServeHTTP(rec, req)

			assert.Equal(t, tt.status, rec.Code)
			assert.NoError(t, redisMock.ExpectationsWereMet())
		})
	}

	assert.True(t, seenAdmin)
	assert.Equal(t, userID, seenUser)
}

func TestRequireRole(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })

	tests := []struct {
		name    string
		roleID  int
		handler http.Handler
		status  int
	}{
		{"admin route as admin", entity.RoleIDAdmin, RequireAdmin(ok), http.StatusOK},
		{"admin route as customer", entity.RoleIDCustomer, RequireAdmin(ok), http.StatusForbidden},
		{"customer route as customer", entity.RoleIDCustomer, RequireCustomer(ok), http.StatusOK},
		{"customer route as admin", entity.RoleIDAdmin, RequireCustomer(ok), http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req = req.WithContext(WithIdentity(req.Context(), uuid.New(), tt.roleID))
			rec := httptest.NewRecorder()

			tt.handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.status, rec.Code)
		})
	}

	rec := httptest.NewRecorder()
	RequireAdmin(ok).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
