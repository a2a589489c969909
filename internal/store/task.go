package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/arolitec/taskboard-api/internal/domain"
)

// ListFilter holds the optional filters applied to task listing queries.
// A nil Status or Search leaves the corresponding filter unset.
type ListFilter struct {
	// Status restricts results to tasks with exactly this status.
	Status *domain.TaskStatus

	// Search restricts results to tasks whose title or description
	// contains this term, matched case-insensitively.
	Search *string
}

// TaskPage is one page of a task listing, together with the counts the
// client needs for pagination. TotalPages is ceil(Total/limit), zero when
// no tasks match.
type TaskPage struct {
	Tasks      []*domain.Task `json:"tasks"`
	Total      int            `json:"total"`
	Page       int            `json:"page"`
	TotalPages int            `json:"totalPages"`
}

// TaskUpdate describes a partial update to a task. Nil fields are left
// unchanged; a non-nil pointer overwrites the stored value, which for
// DueDate and AssigneeID may also clear it.
type TaskUpdate struct {
	Title       *string
	Description *string
	Status      *domain.TaskStatus
	DueDate     *time.Time
	AssigneeID  *uuid.UUID
}

// TaskStore defines the interface for task persistence.
type TaskStore interface {
	// Create saves a new task to the store.
	// Returns validation errors from the domain Task if data is invalid,
	// or ErrInvalidEntity if a referenced user does not exist.
	Create(ctx context.Context, task *domain.Task) error

	// GetByID retrieves a task by its unique ID.
	// Returns ErrTaskNotFound if the task does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error)

	// List returns one page of all tasks, newest first, applying the
	// given filters. Page numbering starts at 1.
	List(ctx context.Context, page, limit int, filter ListFilter) (*TaskPage, error)

	// ListForUser returns one page of the tasks the user created or is
	// assigned to, newest first, applying the given filters.
	ListForUser(ctx context.Context, userID uuid.UUID, page, limit int, filter ListFilter) (*TaskPage, error)

	// ListOverdue returns every task whose due date is before the given
	// instant and whose status is still pending, joined with the
	// assignee's contact details when the task is assigned.
	ListOverdue(ctx context.Context, before time.Time) ([]*domain.OverdueTask, error)

	// Update applies a partial update to the task and refreshes its
	// updated_at timestamp. Returns ErrTaskNotFound if the task does not
	// exist, and the updated task on success.
	Update(ctx context.Context, id uuid.UUID, update TaskUpdate) (*domain.Task, error)

	// Delete removes a task from the store by its ID.
	// Returns ErrTaskNotFound if the task does not exist.
	Delete(ctx context.Context, id uuid.UUID) error
}
