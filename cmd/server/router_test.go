package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arolitec/taskboard-api/internal/api"
	"github.com/arolitec/taskboard-api/internal/api/middleware"
	"github.com/arolitec/taskboard-api/internal/config"
	"github.com/arolitec/taskboard-api/internal/domain"
	"github.com/arolitec/taskboard-api/internal/mocks"
	"github.com/arolitec/taskboard-api/internal/service"
	"github.com/arolitec/taskboard-api/internal/service/auth"
)

// routerFixture wires the routing table over in-memory stores, with the
// real JWT middleware, so route protection can be exercised end to end.
type routerFixture struct {
	router     http.Handler
	userStore  *mocks.MockUserStore
	taskStore  *mocks.MockTaskStore
	jwtService auth.JWTService
}

func newRouterFixture(t *testing.T) *routerFixture {
	t.Helper()

	jwtService, err := auth.NewJWTService(config.AuthConfig{
		JWTSecret:            "test-secret-key-thats-long-enough!!",
		TokenLifetimeMinutes: 60,
	})
	require.NoError(t, err)

	userStore := mocks.NewMockUserStore()
	taskStore := mocks.NewMockTaskStore()
	listingCache := mocks.NewMockListingCache()
	mailer := &mocks.MockMailer{}

	userService := service.NewUserService(userStore, jwtService, auth.NewBcryptVerifier(), testLogger())
	taskService := service.NewTaskService(taskStore, userStore, listingCache, mailer, testLogger())

	router := setupRouter(
		api.NewAuthHandler(userService),
		api.NewTaskHandler(taskService),
		middleware.NewAuthMiddleware(jwtService),
		nil, // health endpoint is not exercised here
		nil,
	)

	return &routerFixture{
		router:     router,
		userStore:  userStore,
		taskStore:  taskStore,
		jwtService: jwtService,
	}
}

// addUser registers a user directly in the store and mints a token for it.
func (f *routerFixture) addUser(t *testing.T, email string, role domain.Role) (*domain.User, string) {
	t.Helper()

	user := &domain.User{
		ID:             uuid.New(),
		Email:          email,
		HashedPassword: "irrelevant",
		FirstName:      "Test",
		LastName:       "User",
		Role:           role,
		CreatedAt:      time.Now().UTC(),
		UpdatedAt:      time.Now().UTC(),
	}
	require.NoError(t, f.userStore.Create(context.Background(), user))

	token, err := f.jwtService.GenerateToken(context.Background(), user)
	require.NoError(t, err)

	return user, token
}

func (f *routerFixture) do(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rr := httptest.NewRecorder()
	f.router.ServeHTTP(rr, req)
	return rr
}

func TestRouterAuthentication(t *testing.T) {
	f := newRouterFixture(t)

	t.Run("register and login are public", func(t *testing.T) {
		rr := f.do(http.MethodPost, "/auth/register", "", map[string]string{
			"email":     "new@example.com",
			"password":  "password123",
			"firstName": "New",
			"lastName":  "User",
		})
		assert.Equal(t, http.StatusCreated, rr.Code)

		rr = f.do(http.MethodPost, "/auth/login", "", map[string]string{
			"email":    "new@example.com",
			"password": "password123",
		})
		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("protected routes reject missing tokens", func(t *testing.T) {
		for _, tc := range []struct{ method, path string }{
			{http.MethodGet, "/auth/profile"},
			{http.MethodGet, "/tasks"},
			{http.MethodPost, "/tasks"},
			{http.MethodGet, "/tasks/my-tasks"},
		} {
			rr := f.do(tc.method, tc.path, "", nil)
			assert.Equal(t, http.StatusUnauthorized, rr.Code,
				"%s %s should require a token", tc.method, tc.path)
		}
	})

	t.Run("profile works with a valid token", func(t *testing.T) {
		user, token := f.addUser(t, "profile@example.com", domain.RoleUser)

		rr := f.do(http.MethodGet, "/auth/profile", token, nil)
		require.Equal(t, http.StatusOK, rr.Code)

		var got domain.User
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
		assert.Equal(t, user.Email, got.Email)
	})
}

func TestRouterAuthorization(t *testing.T) {
	f := newRouterFixture(t)
	_, userToken := f.addUser(t, "member@example.com", domain.RoleUser)
	_, adminToken := f.addUser(t, "boss@example.com", domain.RoleAdmin)

	t.Run("admin routes reject regular users", func(t *testing.T) {
		for _, tc := range []struct{ method, path string }{
			{http.MethodGet, "/auth/users"},
			{http.MethodGet, "/tasks"},
			{http.MethodPost, "/tasks/" + uuid.NewString() + "/assign/" + uuid.NewString()},
		} {
			rr := f.do(tc.method, tc.path, userToken, nil)
			assert.Equal(t, http.StatusForbidden, rr.Code,
				"%s %s should require the admin role", tc.method, tc.path)
		}
	})

	t.Run("admin can list users and tasks", func(t *testing.T) {
		rr := f.do(http.MethodGet, "/auth/users", adminToken, nil)
		assert.Equal(t, http.StatusOK, rr.Code)

		rr = f.do(http.MethodGet, "/tasks", adminToken, nil)
		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("regular users keep access to their own tasks", func(t *testing.T) {
		rr := f.do(http.MethodPost, "/tasks", userToken, map[string]string{
			"title": "write the quarterly report",
		})
		require.Equal(t, http.StatusCreated, rr.Code)

		rr = f.do(http.MethodGet, "/tasks/my-tasks", userToken, nil)
		assert.Equal(t, http.StatusOK, rr.Code)
	})
}
