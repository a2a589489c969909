package api

import (
	"time"

	"github.com/google/uuid"

	"github.com/arolitec/taskboard-api/internal/domain"
)

// Common request/response structures

// RegisterRequest defines the payload for the user registration endpoint.
type RegisterRequest struct {
	Email     string `json:"email"     validate:"required,email"`
	Password  string `json:"password"  validate:"required,min=8,max=72"`
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName"  validate:"required"`
}

// LoginRequest defines the payload for the user login endpoint.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=1"`
}

// AuthResponse defines the successful response for authentication endpoints.
// The user's password fields never serialize; domain.User hides them.
type AuthResponse struct {
	User  *domain.User `json:"user"`
	Token string       `json:"token"`
}

// CreateTaskRequest defines the payload for creating a task.
type CreateTaskRequest struct {
	Title       string     `json:"title"                  validate:"required,min=1,max=255"`
	Description string     `json:"description,omitempty"`
	Status      string     `json:"status,omitempty"       validate:"omitempty,oneof=pending in-progress completed"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	AssignedTo  *uuid.UUID `json:"assignedToId,omitempty"`
}

// UpdateTaskRequest defines the payload for partially updating a task.
// Absent fields leave the stored value unchanged.
type UpdateTaskRequest struct {
	Title       *string    `json:"title,omitempty"        validate:"omitempty,min=1,max=255"`
	Description *string    `json:"description,omitempty"`
	Status      *string    `json:"status,omitempty"       validate:"omitempty,oneof=pending in-progress completed"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	AssignedTo  *uuid.UUID `json:"assignedToId,omitempty"`
}
