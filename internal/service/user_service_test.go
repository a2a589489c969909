package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arolitec/taskboard-api/internal/domain"
	"github.com/arolitec/taskboard-api/internal/mocks"
	"github.com/arolitec/taskboard-api/internal/service/auth"
	"github.com/arolitec/taskboard-api/internal/store"
)

func newUserService(users *mocks.MockUserStore, verifier *mocks.MockPasswordVerifier) *UserServiceImpl {
	return NewUserService(users, &mocks.MockJWTService{Token: "signed-token"}, verifier, nil)
}

func TestRegister(t *testing.T) {
	t.Parallel()

	t.Run("creates user with default role", func(t *testing.T) {
		t.Parallel()

		users := mocks.NewMockUserStore()
		svc := newUserService(users, &mocks.MockPasswordVerifier{})

		user, err := svc.Register(context.Background(), "NEW@arolitec.com", "password123", "Jane", "Doe")
		require.NoError(t, err)

		assert.Equal(t, "new@arolitec.com", user.Email, "email is stored lowercased")
		assert.Equal(t, domain.RoleUser, user.Role)
		assert.Contains(t, users.Users, "new@arolitec.com")
	})

	t.Run("duplicate email", func(t *testing.T) {
		t.Parallel()

		users := mocks.NewMockUserStore()
		svc := newUserService(users, &mocks.MockPasswordVerifier{})

		_, err := svc.Register(context.Background(), "new@arolitec.com", "password123", "Jane", "Doe")
		require.NoError(t, err)

		_, err = svc.Register(context.Background(), "new@arolitec.com", "password123", "John", "Roe")
		assert.ErrorIs(t, err, store.ErrEmailExists)
	})

	t.Run("short password", func(t *testing.T) {
		t.Parallel()

		users := mocks.NewMockUserStore()
		svc := newUserService(users, &mocks.MockPasswordVerifier{})

		_, err := svc.Register(context.Background(), "new@arolitec.com", "short", "Jane", "Doe")
		assert.Error(t, err)
		assert.Empty(t, users.Users)
	})
}

func TestLogin(t *testing.T) {
	t.Parallel()

	seed := func(t *testing.T) *mocks.MockUserStore {
		t.Helper()

		users := mocks.NewMockUserStore()
		user, err := domain.NewUser("user@arolitec.com", "password123", "Jane", "Doe")
		require.NoError(t, err)
		user.HashedPassword = "hashed"
		require.NoError(t, users.Create(context.Background(), user))
		return users
	}

	t.Run("valid credentials return user and token", func(t *testing.T) {
		t.Parallel()

		svc := newUserService(seed(t), &mocks.MockPasswordVerifier{})

		user, token, err := svc.Login(context.Background(), "user@arolitec.com", "password123")
		require.NoError(t, err)
		assert.Equal(t, "user@arolitec.com", user.Email)
		assert.Equal(t, "signed-token", token)
	})

	t.Run("wrong password", func(t *testing.T) {
		t.Parallel()

		verifier := &mocks.MockPasswordVerifier{Err: errors.New("mismatch")}
		svc := newUserService(seed(t), verifier)

		_, _, err := svc.Login(context.Background(), "user@arolitec.com", "wrong")
		assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	})

	t.Run("unknown email yields the same error as wrong password", func(t *testing.T) {
		t.Parallel()

		svc := newUserService(seed(t), &mocks.MockPasswordVerifier{})

		_, _, err := svc.Login(context.Background(), "nobody@arolitec.com", "password123")
		assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	})
}

func TestGetUser(t *testing.T) {
	t.Parallel()

	users := mocks.NewMockUserStore()
	user, err := domain.NewUser("user@arolitec.com", "password123", "Jane", "Doe")
	require.NoError(t, err)
	require.NoError(t, users.Create(context.Background(), user))

	svc := newUserService(users, &mocks.MockPasswordVerifier{})

	got, err := svc.GetUser(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.Email, got.Email)

	_, err = svc.GetUser(context.Background(), uuid.New())
	assert.ErrorIs(t, err, store.ErrUserNotFound)
}

func TestListUsers(t *testing.T) {
	t.Parallel()

	users := mocks.NewMockUserStore()
	for _, email := range []string{"a@arolitec.com", "b@arolitec.com"} {
		user, err := domain.NewUser(email, "password123", "Jane", "Doe")
		require.NoError(t, err)
		require.NoError(t, users.Create(context.Background(), user))
	}

	svc := newUserService(users, &mocks.MockPasswordVerifier{})

	got, err := svc.ListUsers(context.Background())
	require.NoError(t, err)
	assert.Len(t, got, 2)
}
