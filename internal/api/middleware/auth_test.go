package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arolitec/taskboard-api/internal/domain"
	"github.com/arolitec/taskboard-api/internal/mocks"
	"github.com/arolitec/taskboard-api/internal/service/auth"
)

func claimsFor(role domain.Role) *auth.Claims {
	return &auth.Claims{
		UserID: uuid.New(),
		Email:  "user@arolitec.com",
		Role:   role,
	}
}

func TestAuthenticate(t *testing.T) {
	t.Parallel()

	okHandler := func(captured **http.Request) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			*captured = r
			w.WriteHeader(http.StatusOK)
		})
	}

	t.Run("valid token adds identity to context", func(t *testing.T) {
		t.Parallel()

		claims := claimsFor(domain.RoleAdmin)
		m := NewAuthMiddleware(&mocks.MockJWTService{Claims: claims})

		var captured *http.Request
		req := httptest.NewRequest(http.MethodGet, "/tasks", nil)
		req.Header.Set("Authorization", "Bearer some-token")
		w := httptest.NewRecorder()
		m.Authenticate(okHandler(&captured)).ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		require.NotNil(t, captured)

		userID, ok := GetUserID(captured)
		require.True(t, ok)
		assert.Equal(t, claims.UserID, userID)

		role, ok := GetRole(captured)
		require.True(t, ok)
		assert.Equal(t, domain.RoleAdmin, role)
	})

	tests := []struct {
		name       string
		header     string
		validateFn func(ctx context.Context, token string) (*auth.Claims, error)
		wantStatus int
	}{
		{
			name:       "missing header",
			header:     "",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "malformed header",
			header:     "NotBearer token",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:   "invalid token",
			header: "Bearer bad-token",
			validateFn: func(context.Context, string) (*auth.Claims, error) {
				return nil, auth.ErrInvalidToken
			},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:   "expired token",
			header: "Bearer old-token",
			validateFn: func(context.Context, string) (*auth.Claims, error) {
				return nil, auth.ErrExpiredToken
			},
			wantStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			m := NewAuthMiddleware(&mocks.MockJWTService{ValidateTokenFn: tt.validateFn})

			req := httptest.NewRequest(http.MethodGet, "/tasks", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()

			var captured *http.Request
			m.Authenticate(okHandler(&captured)).ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Nil(t, captured, "handler must not run for rejected requests")
		})
	}
}

func TestRequireAdmin(t *testing.T) {
	t.Parallel()

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	run := func(t *testing.T, claims *auth.Claims) *httptest.ResponseRecorder {
		t.Helper()

		m := NewAuthMiddleware(&mocks.MockJWTService{Claims: claims})

		req := httptest.NewRequest(http.MethodGet, "/users", nil)
		req.Header.Set("Authorization", "Bearer some-token")
		w := httptest.NewRecorder()
		m.Authenticate(m.RequireAdmin(next)).ServeHTTP(w, req)
		return w
	}

	t.Run("admin passes", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, http.StatusOK, run(t, claimsFor(domain.RoleAdmin)).Code)
	})

	t.Run("regular user forbidden", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, http.StatusForbidden, run(t, claimsFor(domain.RoleUser)).Code)
	})

	t.Run("unauthenticated", func(t *testing.T) {
		t.Parallel()

		m := NewAuthMiddleware(&mocks.MockJWTService{})
		req := httptest.NewRequest(http.MethodGet, "/users", nil)
		w := httptest.NewRecorder()
		m.RequireAdmin(next).ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
