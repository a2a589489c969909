package auth

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/arolitec/taskboard-api/internal/domain"
)

// JWTService defines operations for managing JWT authentication tokens.
type JWTService interface {
	// GenerateToken creates a signed JWT access token carrying the user's
	// identity and role. Returns the token string or an error if signing
	// fails.
	GenerateToken(ctx context.Context, user *domain.User) (string, error)

	// ValidateToken validates the provided token string and extracts the
	// claims. Returns an error if validation fails (expired, invalid
	// signature, etc.).
	ValidateToken(ctx context.Context, tokenString string) (*Claims, error)
}

// Claims represents the custom claims structure for the JWT tokens.
// It extends standard JWT registered claims with application-specific fields.
type Claims struct {
	// UserID is the unique identifier of the user the token was issued for.
	UserID uuid.UUID `json:"uid,omitempty"`

	// Email is the user's email at issue time, carried so handlers can
	// log and respond without another user lookup.
	Email string `json:"email,omitempty"`

	// Role drives the admin-only route guards.
	Role domain.Role `json:"role,omitempty"`

	// Standard registered JWT claims
	Subject   string    `json:"sub,omitempty"`
	IssuedAt  time.Time `json:"iat,omitempty"`
	ExpiresAt time.Time `json:"exp,omitempty"`
	ID        string    `json:"jti,omitempty"`
}

// IsAdmin reports whether the token was issued for an administrator.
func (c *Claims) IsAdmin() bool {
	return c.Role == domain.RoleAdmin
}
