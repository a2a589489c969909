package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Task validation errors.
var (
	ErrEmptyTaskID    = errors.New("task ID cannot be empty")
	ErrEmptyTaskTitle = errors.New("task title cannot be empty")
)

// TaskStatus represents the lifecycle state of a task.
type TaskStatus string

// Enumerated task statuses. A task is "overdue" when its due date has
// passed while it is still pending; tasks already picked up or finished
// are never treated as overdue.
const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusInProgress TaskStatus = "in-progress"
	TaskStatusCompleted  TaskStatus = "completed"
)

// IsValid reports whether the status is one of the enumerated values.
func (s TaskStatus) IsValid() bool {
	switch s {
	case TaskStatusPending, TaskStatusInProgress, TaskStatusCompleted:
		return true
	}
	return false
}

// Task represents a unit of work tracked by the application.
// A task may reference the user who created it and the user currently
// responsible for it; both references are optional.
type Task struct {
	ID          uuid.UUID  `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Status      TaskStatus `json:"status"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	CreatorID   *uuid.UUID `json:"creatorId,omitempty"`
	AssigneeID  *uuid.UUID `json:"assigneeId,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// NewTask creates a new Task with the given title, defaulting the status
// to pending. It generates a new UUID and sets the creation/update
// timestamps. Returns an error if validation fails.
func NewTask(title, description string, creatorID *uuid.UUID) (*Task, error) {
	now := time.Now().UTC()
	task := &Task{
		ID:          uuid.New(),
		Title:       title,
		Description: description,
		Status:      TaskStatusPending,
		CreatorID:   creatorID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}

	return task, nil
}

// Validate checks if the Task has valid data.
// Returns an error if any field fails validation.
func (t *Task) Validate() error {
	if t.ID == uuid.Nil {
		return ErrEmptyTaskID
	}

	if t.Title == "" {
		return ErrEmptyTaskTitle
	}

	if !t.Status.IsValid() {
		return ErrInvalidStatus
	}

	return nil
}

// IsOverdue reports whether the task should be included in an overdue
// sweep at the given instant: the due date has passed and the task is
// still pending.
func (t *Task) IsOverdue(now time.Time) bool {
	if t.DueDate == nil {
		return false
	}
	return t.DueDate.Before(now) && t.Status == TaskStatusPending
}

// Contact is the minimal assignee information carried on an overdue
// notification. It mirrors the queue message's assignedTo object.
type Contact struct {
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// OverdueTask pairs an overdue task with its assignee's contact details,
// as produced by the store's overdue query. Assignee is nil when the task
// is unassigned.
type OverdueTask struct {
	TaskID   uuid.UUID
	Title    string
	DueDate  time.Time
	Assignee *Contact
}
