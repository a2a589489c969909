package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/arolitec/taskboard-api/internal/domain"
	"github.com/arolitec/taskboard-api/internal/store"
)

// seedUser describes one default account created at startup.
type seedUser struct {
	email     string
	password  string
	firstName string
	lastName  string
	role      domain.Role
}

var defaultUsers = []seedUser{
	{
		email:     "admin@arolitec.com",
		password:  "admin123",
		firstName: "Admin",
		lastName:  "AROLITEC",
		role:      domain.RoleAdmin,
	},
	{
		email:     "user@arolitec.com",
		password:  "user123",
		firstName: "User",
		lastName:  "AROLITEC",
		role:      domain.RoleUser,
	},
}

// seedUsers creates the default admin and regular accounts when they do
// not exist yet. Existing accounts are left untouched, so the seed is
// safe to run on every startup.
func seedUsers(ctx context.Context, userStore store.UserStore, log *slog.Logger) error {
	for _, seed := range defaultUsers {
		_, err := userStore.GetByEmail(ctx, seed.email)
		if err == nil {
			continue
		}
		if !errors.Is(err, store.ErrUserNotFound) {
			return fmt.Errorf("failed to look up seed user %q: %w", seed.email, err)
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(seed.password), 10)
		if err != nil {
			return fmt.Errorf("failed to hash seed password: %w", err)
		}

		now := time.Now().UTC()
		user := &domain.User{
			ID:             uuid.New(),
			Email:          seed.email,
			HashedPassword: string(hash),
			FirstName:      seed.firstName,
			LastName:       seed.lastName,
			Role:           seed.role,
			CreatedAt:      now,
			UpdatedAt:      now,
		}

		if err := userStore.Create(ctx, user); err != nil {
			// Another instance may have created the account between the
			// lookup and the insert.
			if errors.Is(err, store.ErrEmailExists) {
				continue
			}
			return fmt.Errorf("failed to create seed user %q: %w", seed.email, err)
		}

		log.Info("seeded default user", "email", seed.email, "role", string(seed.role))
	}

	return nil
}
